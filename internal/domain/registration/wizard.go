package registration

import (
	"context"
	"errors"
	"fmt"

	"github.com/bizreg/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Step identifies a position in the registration wizard
type Step int

const (
	StepCountry Step = iota + 1
	StepPackage
	StepCompany
	StepOwners
	StepAddress
	StepReview
	StepPayment
	StepComplete
)

// FirstStep and FinalStep bound the wizard sequence
const (
	FirstStep = StepCountry
	FinalStep = StepComplete
)

// ErrExitWizard signals that the user retreated past the first step and
// the caller should leave the wizard entirely instead of decrementing.
var ErrExitWizard = errors.New("exit wizard")

// Valid reports whether the step is within the wizard sequence
func (s Step) Valid() bool {
	return s >= FirstStep && s <= FinalStep
}

// String returns the step name
func (s Step) String() string {
	switch s {
	case StepCountry:
		return "country"
	case StepPackage:
		return "package"
	case StepCompany:
		return "company"
	case StepOwners:
		return "owners"
	case StepAddress:
		return "address"
	case StepReview:
		return "review"
	case StepPayment:
		return "payment"
	case StepComplete:
		return "complete"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// StepData is the closed set of per-step payloads merged into the draft.
// Each data-carrying step has exactly one variant; the review and payment
// steps are pure navigation and advance with a nil payload.
type StepData interface {
	step() Step
}

// CountryData is the payload for the country step
type CountryData struct {
	Name string `json:"name"`
}

func (CountryData) step() Step { return StepCountry }

// PackageData is the payload for the package step
type PackageData struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func (PackageData) step() Step { return StepPackage }

// CompanyData is the payload for the company step
type CompanyData struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Industry string `json:"industry"`
}

func (CompanyData) step() Step { return StepCompany }

// OwnersData replaces the entire owner sequence
type OwnersData []Owner

func (OwnersData) step() Step { return StepOwners }

// AddressData is the payload for the address step
type AddressData struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (AddressData) step() Step { return StepAddress }

// DraftData is the accumulated form state carried between wizard steps.
// Field shapes mirror the persisted BusinessDraft sections.
type DraftData struct {
	Country *CountrySelection `json:"country,omitempty"`
	Package *PackageSelection `json:"package,omitempty"`
	Company *CompanyDetails   `json:"company,omitempty"`
	Owners  []Owner           `json:"owner,omitempty"`
	Address *Address          `json:"address,omitempty"`
}

// Wizard drives the eight-step registration state machine. It owns its
// session's draft state exclusively and writes through the injected
// DraftStore after every mutation.
type Wizard struct {
	sessionID string
	store     DraftStore

	Step                  Step
	Data                  DraftData
	HasRegisteredBusiness bool
}

// NewWizard starts a fresh wizard at the first step
func NewWizard(sessionID string, store DraftStore) *Wizard {
	return &Wizard{
		sessionID: sessionID,
		store:     store,
		Step:      FirstStep,
	}
}

// ResumeWizard restores a wizard from the draft store, or starts a fresh
// one when the session has no persisted state.
func ResumeWizard(ctx context.Context, sessionID string, store DraftStore) (*Wizard, error) {
	step, data, err := store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	w := NewWizard(sessionID, store)
	if step != 0 && Step(step).Valid() {
		w.Step = Step(step)
		if data != nil {
			w.Data = *data
		}
	}
	return w, nil
}

// SessionID returns the owning session identifier
func (w *Wizard) SessionID() string {
	return w.sessionID
}

// Advance merges the step payload into the draft, persists the new state
// and moves one step forward. Payload content is not validated here; a
// malformed payload produces a partially populated draft that surfaces
// later at persistence or review time.
func (w *Wizard) Advance(ctx context.Context, data StepData) error {
	if w.Step >= FinalStep {
		return shared.NewDomainError("WIZARD_FINISHED", "Cannot advance past the final step")
	}
	if err := w.apply(data); err != nil {
		return err
	}
	w.Step++
	return w.persist(ctx)
}

// apply merges a step payload into the accumulated draft data. The switch
// is exhaustive over the StepData variants; adding a variant without a
// case here fails the mismatch check below.
func (w *Wizard) apply(data StepData) error {
	if data == nil {
		if w.Step == StepReview || w.Step == StepPayment {
			return nil
		}
		return shared.NewDomainError("STEP_DATA_REQUIRED", fmt.Sprintf("Step %q requires a payload", w.Step))
	}
	if data.step() != w.Step {
		return shared.NewDomainError("STEP_MISMATCH",
			fmt.Sprintf("Payload for step %q submitted at step %q", data.step(), w.Step))
	}

	switch v := data.(type) {
	case CountryData:
		w.Data.Country = &CountrySelection{Name: v.Name}
	case PackageData:
		w.Data.Package = &PackageSelection{Name: v.Name, Price: v.Price}
	case CompanyData:
		w.Data.Company = &CompanyDetails{Name: v.Name, Type: v.Type, Industry: v.Industry}
	case OwnersData:
		w.Data.Owners = []Owner(v)
	case AddressData:
		w.Data.Address = &Address{
			Street:     v.Street,
			City:       v.City,
			State:      v.State,
			PostalCode: v.PostalCode,
			Country:    v.Country,
		}
	default:
		return shared.NewDomainError("STEP_MISMATCH", fmt.Sprintf("Unknown step payload %T", data))
	}
	return nil
}

// Retreat moves one step back, or signals ErrExitWizard at the first step
func (w *Wizard) Retreat(ctx context.Context) error {
	if w.Step == FirstStep {
		return ErrExitWizard
	}
	w.Step--
	return w.persist(ctx)
}

// Edit jumps directly to a prior step without clearing data entered for
// other steps. Used from the review step.
func (w *Wizard) Edit(ctx context.Context, target Step) error {
	if !target.Valid() || target >= FinalStep {
		return shared.NewDomainError("INVALID_STEP", fmt.Sprintf("Cannot edit step %d", int(target)))
	}
	w.Step = target
	return w.persist(ctx)
}

// Complete finishes the wizard: marks the user as registered, forces the
// final step and purges the draft store. This is the only transition that
// clears persisted session state.
func (w *Wizard) Complete(ctx context.Context) error {
	w.HasRegisteredBusiness = true
	w.Step = FinalStep
	return w.store.Clear(ctx, w.sessionID)
}

func (w *Wizard) persist(ctx context.Context) error {
	return w.store.Save(ctx, w.sessionID, int(w.Step), &w.Data)
}
