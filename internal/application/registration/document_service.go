package registration

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bizreg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentService stores owner identity documents in object storage.
// Storage failures surface as generic domain errors; the underlying
// cause is logged but never returned to the caller.
type DocumentService struct {
	storage ObjectStorage
	logger  *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(storage ObjectStorage, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		storage: storage,
		logger:  logger,
	}
}

// UploadOwnerDocument stores a document under the owning user and returns
// its public URL. Keys embed an upload-instant millisecond stamp so
// repeated uploads of the same filename never collide.
func (s *DocumentService) UploadOwnerDocument(ctx context.Context, userID uuid.UUID, filename, contentType string, data []byte) (*OwnerDocumentResponse, error) {
	if len(data) == 0 {
		return nil, shared.NewDomainError("EMPTY_FILE", "Uploaded file is empty")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	storageKey := fmt.Sprintf("users/%s/documents/%d%s", userID, time.Now().UnixMilli(), ext)

	if err := s.storage.Upload(ctx, storageKey, data, contentType); err != nil {
		s.logger.Error("Failed to upload owner document",
			zap.String("user_id", userID.String()),
			zap.String("storage_key", storageKey),
			zap.Error(err))
		return nil, shared.ErrUploadFailed
	}

	return &OwnerDocumentResponse{
		URL:  s.storage.ObjectURL(storageKey),
		Name: filename,
	}, nil
}

// DeleteOwnerDocument removes a stored document given the public URL that
// was handed out at upload time
func (s *DocumentService) DeleteOwnerDocument(ctx context.Context, documentURL string) error {
	storageKey, err := s.storage.StorageKeyFromURL(documentURL)
	if err != nil {
		s.logger.Error("Failed to resolve document URL",
			zap.String("url", documentURL),
			zap.Error(err))
		return shared.ErrDeleteFailed
	}

	if err := s.storage.DeleteObject(ctx, storageKey); err != nil {
		s.logger.Error("Failed to delete owner document",
			zap.String("storage_key", storageKey),
			zap.Error(err))
		return shared.ErrDeleteFailed
	}
	return nil
}
