package registration

import (
	"context"

	"github.com/google/uuid"
)

// BusinessDraftRepository defines the interface for business draft persistence.
// All operations are scoped to the owning user; a draft is never visible
// outside its user's collection.
type BusinessDraftRepository interface {
	// Create persists a new draft and stamps server-side timestamps
	Create(ctx context.Context, draft *BusinessDraft) error

	// FindByIDForUser finds one draft; shared.ErrNotFound when absent
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*BusinessDraft, error)

	// FindAllForUser returns every draft (any status) the user owns
	FindAllForUser(ctx context.Context, userID uuid.UUID) ([]BusinessDraft, error)

	// UpdateFields applies a partial update with a fresh updated_at stamp.
	// Absent-valued fields are stripped before the write; status and
	// payment details cannot be touched through this path.
	UpdateFields(ctx context.Context, userID, id uuid.UUID, fields map[string]any) error

	// Complete merges payment details and the completed status into an
	// existing draft; shared.ErrNotFound when the draft does not exist
	Complete(ctx context.Context, userID, id uuid.UUID, details PaymentDetails) error
}
