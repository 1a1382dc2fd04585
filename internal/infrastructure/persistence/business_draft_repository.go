package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bizreg/backend/internal/domain/registration"
	"github.com/bizreg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// draftColumns maps the external field names accepted by partial updates to
// their table columns. Status and payment details are deliberately missing:
// they only change through Complete.
var draftColumns = map[string]string{
	"country": "country",
	"package": "package",
	"company": "company",
	"owner":   "owners",
	"address": "address",
}

// GormBusinessDraftRepository implements BusinessDraftRepository using GORM
type GormBusinessDraftRepository struct {
	db *gorm.DB
}

// NewGormBusinessDraftRepository creates a new GormBusinessDraftRepository
func NewGormBusinessDraftRepository(db *gorm.DB) *GormBusinessDraftRepository {
	return &GormBusinessDraftRepository{db: db}
}

// Create persists a new draft. Timestamps are stamped here rather than
// trusted from the caller.
func (r *GormBusinessDraftRepository) Create(ctx context.Context, draft *registration.BusinessDraft) error {
	now := time.Now()
	draft.CreatedAt = now
	draft.UpdatedAt = now
	return r.db.WithContext(ctx).Create(draft).Error
}

// FindByIDForUser finds a draft by ID within the owning user's collection
func (r *GormBusinessDraftRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*registration.BusinessDraft, error) {
	var draft registration.BusinessDraft
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&draft).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &draft, nil
}

// FindAllForUser returns every draft the user owns, newest first
func (r *GormBusinessDraftRepository) FindAllForUser(ctx context.Context, userID uuid.UUID) ([]registration.BusinessDraft, error) {
	var drafts []registration.BusinessDraft
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&drafts).Error; err != nil {
		return nil, err
	}
	return drafts, nil
}

// UpdateFields applies a partial update to a draft. Absent-valued entries
// are stripped recursively before the write, unknown and protected field
// names are ignored, and updated_at is stamped server-side. Concurrent
// writers race last-write-wins; there is no version check.
func (r *GormBusinessDraftRepository) UpdateFields(ctx context.Context, userID, id uuid.UUID, fields map[string]any) error {
	updates := map[string]any{}
	for name, value := range registration.StripAbsent(fields) {
		column, ok := draftColumns[name]
		if !ok {
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", name, err)
		}
		updates[column] = raw
	}
	updates["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).
		Model(&registration.BusinessDraft{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Complete merges payment details into the draft and marks it completed.
// The transition only runs forward; repeating it rewrites the same state.
func (r *GormBusinessDraftRepository) Complete(ctx context.Context, userID, id uuid.UUID, details registration.PaymentDetails) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode payment details: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&registration.BusinessDraft{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(map[string]any{
			"payment_details": raw,
			"status":          registration.DraftStatusCompleted,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormBusinessDraftRepository implements BusinessDraftRepository
var _ registration.BusinessDraftRepository = (*GormBusinessDraftRepository)(nil)
