package registration

import (
	"encoding/json"
	"time"

	"github.com/bizreg/backend/internal/domain/registration"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Draft DTOs
// =============================================================================

// CreateDraftRequest seeds a new business draft, typically from the
// accumulated wizard data. Every section is optional.
type CreateDraftRequest struct {
	Country *registration.CountrySelection `json:"country"`
	Package *registration.PackageSelection `json:"package"`
	Company *registration.CompanyDetails   `json:"company"`
	Owners  []registration.Owner           `json:"owner"`
	Address *registration.Address          `json:"address"`
}

// PaymentDetailsRequest carries the payment record that completes a
// registration. CreatedAt is the instant observed by the client at
// payment time, not a server stamp.
type PaymentDetailsRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"required,currency"`
	Method      string          `json:"method" binding:"required"`
	Status      string          `json:"status" binding:"required"`
	ProviderRef string          `json:"providerRef" binding:"required"`
	CreatedAt   time.Time       `json:"createdAt" binding:"required"`
}

// DraftResponse represents a business draft in API responses
type DraftResponse struct {
	ID             uuid.UUID                      `json:"id"`
	UserID         uuid.UUID                      `json:"userId"`
	Country        *registration.CountrySelection `json:"country,omitempty"`
	Package        *registration.PackageSelection `json:"package,omitempty"`
	Company        *registration.CompanyDetails   `json:"company,omitempty"`
	Owners         []registration.Owner           `json:"owner,omitempty"`
	Address        *registration.Address          `json:"address,omitempty"`
	Status         string                         `json:"status"`
	PaymentDetails *registration.PaymentDetails   `json:"paymentDetails,omitempty"`
	CreatedAt      time.Time                      `json:"createdAt"`
	UpdatedAt      time.Time                      `json:"updatedAt"`
}

// toDraftResponse maps a domain draft to its API shape
func toDraftResponse(draft *registration.BusinessDraft) *DraftResponse {
	return &DraftResponse{
		ID:             draft.ID,
		UserID:         draft.UserID,
		Country:        draft.Country,
		Package:        draft.Package,
		Company:        draft.Company,
		Owners:         draft.Owners,
		Address:        draft.Address,
		Status:         string(draft.Status),
		PaymentDetails: draft.PaymentDetails,
		CreatedAt:      draft.CreatedAt,
		UpdatedAt:      draft.UpdatedAt,
	}
}

// =============================================================================
// Owner document DTOs
// =============================================================================

// OwnerDocumentResponse describes an uploaded identity document
type OwnerDocumentResponse struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// DeleteOwnerDocumentRequest identifies a stored document by its public URL
type DeleteOwnerDocumentRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// =============================================================================
// Wizard DTOs
// =============================================================================

// AdvanceRequest carries the payload for the current wizard step. Data is
// decoded against the step the session is on; navigation steps send none.
type AdvanceRequest struct {
	Data json.RawMessage `json:"data"`
}

// EditRequest jumps the wizard back to a prior step
type EditRequest struct {
	Step int `json:"step" binding:"required"`
}

// WizardStateResponse is the wizard state returned after every transition
type WizardStateResponse struct {
	SessionID             string                 `json:"sessionId"`
	Step                  int                    `json:"step"`
	StepName              string                 `json:"stepName"`
	Data                  registration.DraftData `json:"data"`
	HasRegisteredBusiness bool                   `json:"hasRegisteredBusiness"`
	Exited                bool                   `json:"exited,omitempty"`
}

func toWizardStateResponse(w *registration.Wizard) *WizardStateResponse {
	return &WizardStateResponse{
		SessionID:             w.SessionID(),
		Step:                  int(w.Step),
		StepName:              w.Step.String(),
		Data:                  w.Data,
		HasRegisteredBusiness: w.HasRegisteredBusiness,
	}
}
