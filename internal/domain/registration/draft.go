package registration

import (
	"time"

	"github.com/bizreg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DraftStatus represents the lifecycle state of a business registration
type DraftStatus string

const (
	DraftStatusDraft     DraftStatus = "draft"
	DraftStatusCompleted DraftStatus = "completed"
)

// CountrySelection is the country chosen in the first wizard step
type CountrySelection struct {
	Name string `json:"name"`
}

// PackageSelection is the registration package chosen by the user
type PackageSelection struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// CompanyDetails holds the company information entered during registration
type CompanyDetails struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Industry string `json:"industry"`
}

// OwnerDocument references an uploaded identity document in object storage
type OwnerDocument struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Owner is one beneficial owner or shareholder of the business.
// The ID is generated client-side and is unique within the owner sequence.
// Ownership percentages are not summed or capped and IsCEO is not
// constrained to a single owner; both are accepted as entered.
type Owner struct {
	ID        string         `json:"id"`
	FullName  string         `json:"fullName"`
	Ownership float64        `json:"ownership"`
	IsCEO     *bool          `json:"isCEO,omitempty"`
	BirthDate *string        `json:"birthDate,omitempty"`
	Document  *OwnerDocument `json:"document,omitempty"`
}

// Address is the registered business address
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PaymentDetails records the payment that completed a registration.
// Immutable once attached to a draft. CreatedAt is the instant observed
// by the completing caller, not a server-assigned time, so the payment
// record is available without a second round trip.
type PaymentDetails struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Method      string          `json:"method"`
	Status      string          `json:"status"`
	ProviderRef string          `json:"providerRef"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// BusinessDraft is the aggregate built up across the wizard steps and
// persisted as one document per business under the owning user.
type BusinessDraft struct {
	shared.BaseAggregateRoot
	UserID         uuid.UUID         `gorm:"type:uuid;not null;index:idx_business_drafts_user" json:"userId"`
	Country        *CountrySelection `gorm:"type:jsonb;serializer:json" json:"country,omitempty"`
	Package        *PackageSelection `gorm:"type:jsonb;serializer:json" json:"package,omitempty"`
	Company        *CompanyDetails   `gorm:"type:jsonb;serializer:json" json:"company,omitempty"`
	Owners         []Owner           `gorm:"type:jsonb;serializer:json" json:"owner,omitempty"`
	Address        *Address          `gorm:"type:jsonb;serializer:json" json:"address,omitempty"`
	Status         DraftStatus       `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	PaymentDetails *PaymentDetails   `gorm:"type:jsonb;serializer:json" json:"paymentDetails,omitempty"`
}

// TableName returns the table name for GORM
func (BusinessDraft) TableName() string {
	return "business_drafts"
}

// NewBusinessDraft creates a draft owned by the given user
func NewBusinessDraft(userID uuid.UUID) *BusinessDraft {
	draft := &BusinessDraft{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Status:            DraftStatusDraft,
	}
	draft.AddDomainEvent(NewBusinessDraftCreatedEvent(draft))
	return draft
}

// IsCompleted reports whether the registration has been paid and finalized
func (d *BusinessDraft) IsCompleted() bool {
	return d.Status == DraftStatusCompleted
}

// Complete attaches payment details and moves the draft to completed.
// The transition only runs forward: a completed draft stays completed,
// and repeating the call with equal details is a no-op in effect.
func (d *BusinessDraft) Complete(details PaymentDetails) error {
	if details.ProviderRef == "" {
		return shared.NewDomainError("PAYMENT_REF_REQUIRED", "Payment details require a provider reference")
	}
	d.PaymentDetails = &details
	d.Status = DraftStatusCompleted
	d.UpdatedAt = time.Now()
	d.AddDomainEvent(NewRegistrationCompletedEvent(d))
	return nil
}
