package registration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bizreg/backend/internal/domain/registration"
	"github.com/bizreg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockBusinessDraftRepository is a mock implementation of BusinessDraftRepository
type MockBusinessDraftRepository struct {
	mock.Mock
}

func (m *MockBusinessDraftRepository) Create(ctx context.Context, draft *registration.BusinessDraft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *MockBusinessDraftRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*registration.BusinessDraft, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registration.BusinessDraft), args.Error(1)
}

func (m *MockBusinessDraftRepository) FindAllForUser(ctx context.Context, userID uuid.UUID) ([]registration.BusinessDraft, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]registration.BusinessDraft), args.Error(1)
}

func (m *MockBusinessDraftRepository) UpdateFields(ctx context.Context, userID, id uuid.UUID, fields map[string]any) error {
	args := m.Called(ctx, userID, id, fields)
	return args.Error(0)
}

func (m *MockBusinessDraftRepository) Complete(ctx context.Context, userID, id uuid.UUID, details registration.PaymentDetails) error {
	args := m.Called(ctx, userID, id, details)
	return args.Error(0)
}

// =============================================================================
// Tests
// =============================================================================

func TestDraftService_CreateDraft(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("creates draft with seeded sections", func(t *testing.T) {
		repo := new(MockBusinessDraftRepository)
		service := NewDraftService(repo)

		repo.On("Create", ctx, mock.MatchedBy(func(d *registration.BusinessDraft) bool {
			return d.UserID == userID && d.Country != nil && d.Country.Name == "Estonia"
		})).Return(nil)

		resp, err := service.CreateDraft(ctx, userID, CreateDraftRequest{
			Country: &registration.CountrySelection{Name: "Estonia"},
		})
		require.NoError(t, err)
		assert.Equal(t, userID, resp.UserID)
		assert.Equal(t, string(registration.DraftStatusDraft), resp.Status)
		assert.Equal(t, "Estonia", resp.Country.Name)
		repo.AssertExpectations(t)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		repo := new(MockBusinessDraftRepository)
		service := NewDraftService(repo)

		repo.On("Create", ctx, mock.Anything).Return(errors.New("connection lost"))

		_, err := service.CreateDraft(ctx, userID, CreateDraftRequest{})
		assert.Error(t, err)
	})
}

func TestDraftService_GetDraft(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("returns draft", func(t *testing.T) {
		repo := new(MockBusinessDraftRepository)
		service := NewDraftService(repo)

		draft := registration.NewBusinessDraft(userID)
		repo.On("FindByIDForUser", ctx, userID, draft.ID).Return(draft, nil)

		resp, err := service.GetDraft(ctx, userID, draft.ID)
		require.NoError(t, err)
		assert.Equal(t, draft.ID, resp.ID)
	})

	t.Run("surfaces not found", func(t *testing.T) {
		repo := new(MockBusinessDraftRepository)
		service := NewDraftService(repo)

		id := uuid.New()
		repo.On("FindByIDForUser", ctx, userID, id).Return(nil, shared.ErrNotFound)

		_, err := service.GetDraft(ctx, userID, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestDraftService_ListDrafts(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	repo := new(MockBusinessDraftRepository)
	service := NewDraftService(repo)

	drafts := []registration.BusinessDraft{
		*registration.NewBusinessDraft(userID),
		*registration.NewBusinessDraft(userID),
	}
	repo.On("FindAllForUser", ctx, userID).Return(drafts, nil)

	resp, err := service.ListDrafts(ctx, userID)
	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, drafts[0].ID, resp[0].ID)
}

func TestDraftService_UpdateDraft(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("applies partial update and returns fresh state", func(t *testing.T) {
		repo := new(MockBusinessDraftRepository)
		service := NewDraftService(repo)

		draft := registration.NewBusinessDraft(userID)
		updated := *draft
		updated.Country = &registration.CountrySelection{Name: "Portugal"}

		fields := map[string]any{"country": map[string]any{"name": "Portugal"}}

		repo.On("FindByIDForUser", ctx, userID, draft.ID).Return(draft, nil).Once()
		repo.On("UpdateFields", ctx, userID, draft.ID, fields).Return(nil)
		repo.On("FindByIDForUser", ctx, userID, draft.ID).Return(&updated, nil).Once()

		resp, err := service.UpdateDraft(ctx, userID, draft.ID, fields)
		require.NoError(t, err)
		assert.Equal(t, "Portugal", resp.Country.Name)
		repo.AssertExpectations(t)
	})

	t.Run("rejects updates to completed drafts", func(t *testing.T) {
		repo := new(MockBusinessDraftRepository)
		service := NewDraftService(repo)

		draft := registration.NewBusinessDraft(userID)
		require.NoError(t, draft.Complete(registration.PaymentDetails{ProviderRef: "cs_123"}))

		repo.On("FindByIDForUser", ctx, userID, draft.ID).Return(draft, nil)

		_, err := service.UpdateDraft(ctx, userID, draft.ID, map[string]any{
			"country": map[string]any{"name": "Portugal"},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DRAFT_COMPLETED", domainErr.Code)
		repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("surfaces not found", func(t *testing.T) {
		repo := new(MockBusinessDraftRepository)
		service := NewDraftService(repo)

		id := uuid.New()
		repo.On("FindByIDForUser", ctx, userID, id).Return(nil, shared.ErrNotFound)

		_, err := service.UpdateDraft(ctx, userID, id, map[string]any{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestDraftService_CompleteRegistration(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	paidAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	req := PaymentDetailsRequest{
		Amount:      decimal.NewFromFloat(149.99),
		Currency:    "usd",
		Method:      "card",
		Status:      "paid",
		ProviderRef: "cs_live_abc123",
		CreatedAt:   paidAt,
	}

	t.Run("completes with client-observed payment time", func(t *testing.T) {
		repo := new(MockBusinessDraftRepository)
		service := NewDraftService(repo)

		draft := registration.NewBusinessDraft(userID)
		completed := *draft
		require.NoError(t, completed.Complete(registration.PaymentDetails{
			ProviderRef: "cs_live_abc123",
			CreatedAt:   paidAt,
		}))

		repo.On("Complete", ctx, userID, draft.ID, mock.MatchedBy(func(d registration.PaymentDetails) bool {
			return d.ProviderRef == "cs_live_abc123" && d.CreatedAt.Equal(paidAt)
		})).Return(nil)
		repo.On("FindByIDForUser", ctx, userID, draft.ID).Return(&completed, nil)

		resp, err := service.CompleteRegistration(ctx, userID, draft.ID, req)
		require.NoError(t, err)
		assert.Equal(t, string(registration.DraftStatusCompleted), resp.Status)
		assert.True(t, resp.PaymentDetails.CreatedAt.Equal(paidAt))
		repo.AssertExpectations(t)
	})

	t.Run("surfaces missing draft", func(t *testing.T) {
		repo := new(MockBusinessDraftRepository)
		service := NewDraftService(repo)

		id := uuid.New()
		repo.On("Complete", ctx, userID, id, mock.Anything).Return(shared.ErrNotFound)

		_, err := service.CompleteRegistration(ctx, userID, id, req)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
