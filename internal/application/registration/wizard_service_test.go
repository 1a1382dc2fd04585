package registration

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/bizreg/backend/internal/domain/registration"
	"github.com/bizreg/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDraftStore is an in-memory DraftStore for wizard service tests
type fakeDraftStore struct {
	steps map[string]int
	data  map[string]registration.DraftData
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{
		steps: make(map[string]int),
		data:  make(map[string]registration.DraftData),
	}
}

func (f *fakeDraftStore) Save(_ context.Context, sessionID string, step int, data *registration.DraftData) error {
	f.steps[sessionID] = step
	if data != nil {
		f.data[sessionID] = *data
	}
	return nil
}

func (f *fakeDraftStore) Load(_ context.Context, sessionID string) (int, *registration.DraftData, error) {
	step, ok := f.steps[sessionID]
	if !ok {
		return 0, nil, nil
	}
	data := f.data[sessionID]
	return step, &data, nil
}

func (f *fakeDraftStore) Clear(_ context.Context, sessionID string) error {
	delete(f.steps, sessionID)
	delete(f.data, sessionID)
	return nil
}

func TestWizardService_StartSession(t *testing.T) {
	store := newFakeDraftStore()
	service := NewWizardService(store)
	ctx := context.Background()

	state, err := service.StartSession(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, state.SessionID)
	assert.Equal(t, 1, state.Step)
	assert.Equal(t, "country", state.StepName)
	assert.Equal(t, 1, store.steps[state.SessionID])
}

func TestWizardService_GetState(t *testing.T) {
	store := newFakeDraftStore()
	service := NewWizardService(store)
	ctx := context.Background()

	t.Run("restores persisted session", func(t *testing.T) {
		store.steps["sess-1"] = 3
		store.data["sess-1"] = registration.DraftData{
			Country: &registration.CountrySelection{Name: "Estonia"},
		}

		state, err := service.GetState(ctx, "sess-1")
		require.NoError(t, err)
		assert.Equal(t, 3, state.Step)
		assert.Equal(t, "Estonia", state.Data.Country.Name)
	})

	t.Run("unknown session resolves to a fresh wizard", func(t *testing.T) {
		state, err := service.GetState(ctx, "never-seen")
		require.NoError(t, err)
		assert.Equal(t, 1, state.Step)
		assert.False(t, state.HasRegisteredBusiness)
	})
}

func TestWizardService_Advance(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes payload against current step", func(t *testing.T) {
		store := newFakeDraftStore()
		service := NewWizardService(store)

		start, err := service.StartSession(ctx)
		require.NoError(t, err)

		state, err := service.Advance(ctx, start.SessionID, json.RawMessage(`{"name":"Estonia"}`))
		require.NoError(t, err)
		assert.Equal(t, 2, state.Step)
		assert.Equal(t, "Estonia", state.Data.Country.Name)

		state, err = service.Advance(ctx, start.SessionID, json.RawMessage(`{"name":"Standard","price":"149.99"}`))
		require.NoError(t, err)
		assert.Equal(t, 3, state.Step)
		assert.Equal(t, "Standard", state.Data.Package.Name)
	})

	t.Run("owners payload replaces the sequence", func(t *testing.T) {
		store := newFakeDraftStore()
		service := NewWizardService(store)
		store.steps["sess-own"] = int(registration.StepOwners)

		state, err := service.Advance(ctx, "sess-own", json.RawMessage(
			`[{"id":"o-1","fullName":"Mari Tamm","ownership":100,"isCEO":true}]`))
		require.NoError(t, err)
		require.Len(t, state.Data.Owners, 1)
		assert.Equal(t, "Mari Tamm", state.Data.Owners[0].FullName)
	})

	t.Run("navigation steps advance without payload", func(t *testing.T) {
		store := newFakeDraftStore()
		service := NewWizardService(store)
		store.steps["sess-rev"] = int(registration.StepReview)

		state, err := service.Advance(ctx, "sess-rev", nil)
		require.NoError(t, err)
		assert.Equal(t, int(registration.StepPayment), state.Step)
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		store := newFakeDraftStore()
		service := NewWizardService(store)
		store.steps["sess-bad"] = int(registration.StepCountry)

		_, err := service.Advance(ctx, "sess-bad", json.RawMessage(`{"name":`))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STEP_PAYLOAD", domainErr.Code)
	})

	t.Run("rejects missing payload on data steps", func(t *testing.T) {
		store := newFakeDraftStore()
		service := NewWizardService(store)
		store.steps["sess-empty"] = int(registration.StepCompany)

		_, err := service.Advance(ctx, "sess-empty", nil)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "STEP_DATA_REQUIRED", domainErr.Code)
	})
}

func TestWizardService_Retreat(t *testing.T) {
	ctx := context.Background()

	t.Run("moves one step back", func(t *testing.T) {
		store := newFakeDraftStore()
		service := NewWizardService(store)
		store.steps["sess-1"] = 4

		state, err := service.Retreat(ctx, "sess-1")
		require.NoError(t, err)
		assert.Equal(t, 3, state.Step)
		assert.False(t, state.Exited)
	})

	t.Run("signals exit at the first step", func(t *testing.T) {
		store := newFakeDraftStore()
		service := NewWizardService(store)
		store.steps["sess-1"] = 1

		state, err := service.Retreat(ctx, "sess-1")
		require.NoError(t, err)
		assert.True(t, state.Exited)
		assert.Equal(t, 1, state.Step)
	})
}

func TestWizardService_Edit(t *testing.T) {
	ctx := context.Background()
	store := newFakeDraftStore()
	service := NewWizardService(store)

	store.steps["sess-1"] = int(registration.StepReview)
	store.data["sess-1"] = registration.DraftData{
		Company: &registration.CompanyDetails{Name: "Sol Lda"},
	}

	t.Run("jumps back preserving data", func(t *testing.T) {
		state, err := service.Edit(ctx, "sess-1", int(registration.StepCompany))
		require.NoError(t, err)
		assert.Equal(t, int(registration.StepCompany), state.Step)
		assert.Equal(t, "Sol Lda", state.Data.Company.Name)
	})

	t.Run("rejects the final step", func(t *testing.T) {
		_, err := service.Edit(ctx, "sess-1", int(registration.StepComplete))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STEP", domainErr.Code)
	})
}

func TestWizardService_Complete(t *testing.T) {
	ctx := context.Background()
	store := newFakeDraftStore()
	service := NewWizardService(store)

	store.steps["sess-1"] = int(registration.StepPayment)

	state, err := service.Complete(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, state.HasRegisteredBusiness)
	assert.Equal(t, int(registration.StepComplete), state.Step)

	// stored session state is purged
	_, ok := store.steps["sess-1"]
	assert.False(t, ok)
}
