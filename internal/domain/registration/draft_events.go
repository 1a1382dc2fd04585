package registration

import (
	"github.com/bizreg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for BusinessDraft
const AggregateTypeBusinessDraft = "BusinessDraft"

// Event type constants for BusinessDraft
const (
	EventTypeBusinessDraftCreated  = "BusinessDraftCreated"
	EventTypeRegistrationCompleted = "RegistrationCompleted"
)

// BusinessDraftCreatedEvent is published when a new draft is created
type BusinessDraftCreatedEvent struct {
	shared.BaseDomainEvent
	DraftID uuid.UUID `json:"draft_id"`
	UserID  uuid.UUID `json:"user_id"`
}

// NewBusinessDraftCreatedEvent creates a new BusinessDraftCreatedEvent
func NewBusinessDraftCreatedEvent(draft *BusinessDraft) *BusinessDraftCreatedEvent {
	return &BusinessDraftCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBusinessDraftCreated, AggregateTypeBusinessDraft, draft.ID),
		DraftID:         draft.ID,
		UserID:          draft.UserID,
	}
}

// RegistrationCompletedEvent is published when payment finalizes a registration
type RegistrationCompletedEvent struct {
	shared.BaseDomainEvent
	DraftID     uuid.UUID `json:"draft_id"`
	UserID      uuid.UUID `json:"user_id"`
	ProviderRef string    `json:"provider_ref"`
}

// NewRegistrationCompletedEvent creates a new RegistrationCompletedEvent
func NewRegistrationCompletedEvent(draft *BusinessDraft) *RegistrationCompletedEvent {
	event := &RegistrationCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRegistrationCompleted, AggregateTypeBusinessDraft, draft.ID),
		DraftID:         draft.ID,
		UserID:          draft.UserID,
	}
	if draft.PaymentDetails != nil {
		event.ProviderRef = draft.PaymentDetails.ProviderRef
	}
	return event
}
