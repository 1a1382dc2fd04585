package registration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bizreg/backend/internal/domain/registration"
	"github.com/bizreg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// WizardService drives registration wizard sessions over the draft store
type WizardService struct {
	store registration.DraftStore
}

// NewWizardService creates a new WizardService
func NewWizardService(store registration.DraftStore) *WizardService {
	return &WizardService{
		store: store,
	}
}

// StartSession opens a fresh wizard session at the first step and persists
// its initial state
func (s *WizardService) StartSession(ctx context.Context) (*WizardStateResponse, error) {
	sessionID := uuid.NewString()
	w := registration.NewWizard(sessionID, s.store)

	if err := s.store.Save(ctx, sessionID, int(w.Step), &w.Data); err != nil {
		return nil, err
	}
	return toWizardStateResponse(w), nil
}

// GetState returns the current state of a session. An unknown session
// resolves to a fresh wizard at the first step.
func (s *WizardService) GetState(ctx context.Context, sessionID string) (*WizardStateResponse, error) {
	w, err := registration.ResumeWizard(ctx, sessionID, s.store)
	if err != nil {
		return nil, err
	}
	return toWizardStateResponse(w), nil
}

// Advance decodes the payload against the session's current step, merges
// it and moves forward
func (s *WizardService) Advance(ctx context.Context, sessionID string, raw json.RawMessage) (*WizardStateResponse, error) {
	w, err := registration.ResumeWizard(ctx, sessionID, s.store)
	if err != nil {
		return nil, err
	}

	data, err := decodeStepData(w.Step, raw)
	if err != nil {
		return nil, err
	}
	if err := w.Advance(ctx, data); err != nil {
		return nil, err
	}
	return toWizardStateResponse(w), nil
}

// Retreat moves the session one step back. Retreating from the first step
// does not change state; the response carries the exited flag instead.
func (s *WizardService) Retreat(ctx context.Context, sessionID string) (*WizardStateResponse, error) {
	w, err := registration.ResumeWizard(ctx, sessionID, s.store)
	if err != nil {
		return nil, err
	}

	if err := w.Retreat(ctx); err != nil {
		if errors.Is(err, registration.ErrExitWizard) {
			resp := toWizardStateResponse(w)
			resp.Exited = true
			return resp, nil
		}
		return nil, err
	}
	return toWizardStateResponse(w), nil
}

// Edit jumps the session back to a prior step without losing entered data
func (s *WizardService) Edit(ctx context.Context, sessionID string, step int) (*WizardStateResponse, error) {
	w, err := registration.ResumeWizard(ctx, sessionID, s.store)
	if err != nil {
		return nil, err
	}

	if err := w.Edit(ctx, registration.Step(step)); err != nil {
		return nil, err
	}
	return toWizardStateResponse(w), nil
}

// Complete finishes the session: the user is marked registered, the
// wizard lands on the final step and the session's stored state is purged
func (s *WizardService) Complete(ctx context.Context, sessionID string) (*WizardStateResponse, error) {
	w, err := registration.ResumeWizard(ctx, sessionID, s.store)
	if err != nil {
		return nil, err
	}

	if err := w.Complete(ctx); err != nil {
		return nil, err
	}
	return toWizardStateResponse(w), nil
}

// decodeStepData unmarshals a raw payload into the variant belonging to
// the given step. Navigation steps carry no payload and decode to nil.
func decodeStepData(step registration.Step, raw json.RawMessage) (registration.StepData, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	switch step {
	case registration.StepCountry:
		var data registration.CountryData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, invalidStepPayload(step, err)
		}
		return data, nil
	case registration.StepPackage:
		var data registration.PackageData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, invalidStepPayload(step, err)
		}
		return data, nil
	case registration.StepCompany:
		var data registration.CompanyData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, invalidStepPayload(step, err)
		}
		return data, nil
	case registration.StepOwners:
		var data registration.OwnersData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, invalidStepPayload(step, err)
		}
		return data, nil
	case registration.StepAddress:
		var data registration.AddressData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, invalidStepPayload(step, err)
		}
		return data, nil
	case registration.StepReview, registration.StepPayment:
		return nil, nil
	default:
		return nil, shared.NewDomainError("INVALID_STEP", fmt.Sprintf("Step %q accepts no payload", step))
	}
}

func invalidStepPayload(step registration.Step, err error) error {
	return shared.NewDomainError("INVALID_STEP_PAYLOAD",
		fmt.Sprintf("Malformed payload for step %q: %v", step, err))
}
