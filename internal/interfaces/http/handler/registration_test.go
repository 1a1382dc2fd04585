package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	registrationapp "github.com/bizreg/backend/internal/application/registration"
	"github.com/bizreg/backend/internal/domain/registration"
	"github.com/bizreg/backend/internal/domain/shared"
	"github.com/bizreg/backend/internal/interfaces/http/dto"
	"github.com/bizreg/backend/internal/interfaces/http/middleware"
)

// fakeDraftRepo is an in-memory BusinessDraftRepository for handler tests
type fakeDraftRepo struct {
	mu         sync.Mutex
	drafts     map[uuid.UUID]*registration.BusinessDraft
	lastFields map[string]any
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{drafts: make(map[uuid.UUID]*registration.BusinessDraft)}
}

func (r *fakeDraftRepo) Create(_ context.Context, draft *registration.BusinessDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	draft.CreatedAt = now
	draft.UpdatedAt = now
	r.drafts[draft.ID] = draft
	return nil
}

func (r *fakeDraftRepo) FindByIDForUser(_ context.Context, userID, id uuid.UUID) (*registration.BusinessDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	draft, ok := r.drafts[id]
	if !ok || draft.UserID != userID {
		return nil, shared.ErrNotFound
	}
	copied := *draft
	return &copied, nil
}

func (r *fakeDraftRepo) FindAllForUser(_ context.Context, userID uuid.UUID) ([]registration.BusinessDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []registration.BusinessDraft
	for _, draft := range r.drafts {
		if draft.UserID == userID {
			out = append(out, *draft)
		}
	}
	return out, nil
}

func (r *fakeDraftRepo) UpdateFields(_ context.Context, userID, id uuid.UUID, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	draft, ok := r.drafts[id]
	if !ok || draft.UserID != userID {
		return shared.ErrNotFound
	}

	stripped := registration.StripAbsent(fields)
	r.lastFields = stripped
	delete(stripped, "status")
	delete(stripped, "paymentDetails")

	// Re-hydrate the sections through their JSON tags, as the real
	// document write would.
	raw, err := json.Marshal(stripped)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, draft); err != nil {
		return err
	}
	draft.UpdatedAt = time.Now()
	return nil
}

func (r *fakeDraftRepo) Complete(_ context.Context, userID, id uuid.UUID, details registration.PaymentDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	draft, ok := r.drafts[id]
	if !ok || draft.UserID != userID {
		return shared.ErrNotFound
	}
	draft.Status = registration.DraftStatusCompleted
	draft.PaymentDetails = &details
	draft.UpdatedAt = time.Now()
	return nil
}

func newRegistrationTestRouter(repo *fakeDraftRepo) *gin.Engine {
	middleware.SetupValidator()
	handler := NewRegistrationHandler(registrationapp.NewDraftService(repo))
	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doJSON(router *gin.Engine, method, path, userID, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRegistrationHandler_CreateDraft(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newFakeDraftRepo()
	router := newRegistrationTestRouter(repo)
	userID := uuid.NewString()

	t.Run("creates a draft with the submitted sections", func(t *testing.T) {
		body := `{"country":{"name":"Estonia"},"package":{"name":"standard","price":"149.99"}}`
		w := doJSON(router, http.MethodPost, "/api/v1/users/"+userID+"/businesses", userID, body)

		require.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]any)
		assert.Equal(t, "draft", data["status"])
		assert.Equal(t, userID, data["userId"])
		assert.Equal(t, "Estonia", data["country"].(map[string]any)["name"])
	})

	t.Run("rejects access to another user's collection", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/users/"+uuid.NewString()+"/businesses", userID, `{}`)

		assert.Equal(t, http.StatusForbidden, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeForbidden, resp.Error.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/users/"+userID+"/businesses", "", `{}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects an invalid user id in the path", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/users/not-a-uuid/businesses", userID, `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRegistrationHandler_GetDraft(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newFakeDraftRepo()
	router := newRegistrationTestRouter(repo)
	userID := uuid.NewString()

	created := doJSON(router, http.MethodPost, "/api/v1/users/"+userID+"/businesses", userID, `{"country":{"name":"Latvia"}}`)
	require.Equal(t, http.StatusCreated, created.Code)
	draftID := decodeResponse(t, created).Data.(map[string]any)["id"].(string)

	t.Run("returns the draft", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/users/"+userID+"/businesses/"+draftID, userID, "")

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, draftID, resp.Data.(map[string]any)["id"])
	})

	t.Run("responds 404 for an unknown draft", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/users/"+userID+"/businesses/"+uuid.NewString(), userID, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})
}

func TestRegistrationHandler_UpdateDraft(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newFakeDraftRepo()
	router := newRegistrationTestRouter(repo)
	userID := uuid.NewString()

	created := doJSON(router, http.MethodPost, "/api/v1/users/"+userID+"/businesses", userID, `{"country":{"name":"Estonia"}}`)
	require.Equal(t, http.StatusCreated, created.Code)
	draftID := decodeResponse(t, created).Data.(map[string]any)["id"].(string)

	t.Run("applies a partial update", func(t *testing.T) {
		body := `{"company":{"name":"Acme OU","type":"llc","industry":"software"}}`
		w := doJSON(router, http.MethodPatch, "/api/v1/users/"+userID+"/businesses/"+draftID, userID, body)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "Acme OU", data["company"].(map[string]any)["name"])
		// Untouched sections survive
		assert.Equal(t, "Estonia", data["country"].(map[string]any)["name"])
	})

	t.Run("strips absent-valued fields before the write", func(t *testing.T) {
		body := `{"address":{"street":"Main 1","city":null}}`
		w := doJSON(router, http.MethodPatch, "/api/v1/users/"+userID+"/businesses/"+draftID, userID, body)

		require.Equal(t, http.StatusOK, w.Code)
		address, ok := repo.lastFields["address"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, address, "street")
		assert.NotContains(t, address, "city")
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		w := doJSON(router, http.MethodPatch, "/api/v1/users/"+userID+"/businesses/"+draftID, userID, `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("responds 404 for an unknown draft", func(t *testing.T) {
		w := doJSON(router, http.MethodPatch, "/api/v1/users/"+userID+"/businesses/"+uuid.NewString(), userID, `{"country":{"name":"x"}}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRegistrationHandler_CompleteRegistration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newFakeDraftRepo()
	router := newRegistrationTestRouter(repo)
	userID := uuid.NewString()

	created := doJSON(router, http.MethodPost, "/api/v1/users/"+userID+"/businesses", userID, `{"country":{"name":"Estonia"}}`)
	require.Equal(t, http.StatusCreated, created.Code)
	draftID := decodeResponse(t, created).Data.(map[string]any)["id"].(string)

	payment := `{"amount":"149.99","currency":"eur","method":"card","status":"paid","providerRef":"cs_test_123","createdAt":"2026-08-30T10:15:00Z"}`

	t.Run("records the payment and completes the draft", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/users/"+userID+"/businesses/"+draftID+"/complete", userID, payment)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "completed", data["status"])
		details := data["paymentDetails"].(map[string]any)
		assert.Equal(t, "cs_test_123", details["providerRef"])
		assert.Equal(t, "2026-08-30T10:15:00Z", details["createdAt"])
	})

	t.Run("rejects a further partial update once completed", func(t *testing.T) {
		w := doJSON(router, http.MethodPatch, "/api/v1/users/"+userID+"/businesses/"+draftID, userID, `{"country":{"name":"Latvia"}}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)
	})

	t.Run("rejects a payment with missing fields", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/users/"+userID+"/businesses/"+draftID+"/complete", userID, `{"amount":"1"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"ERR_VALIDATION"`)
		assert.Contains(t, w.Body.String(), `"currency"`)
		assert.Contains(t, w.Body.String(), "This field is required")
	})
}

func TestRegistrationHandler_ListDrafts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newFakeDraftRepo()
	router := newRegistrationTestRouter(repo)
	userID := uuid.NewString()

	for i := 0; i < 2; i++ {
		w := doJSON(router, http.MethodPost, "/api/v1/users/"+userID+"/businesses", userID, `{}`)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(router, http.MethodGet, "/api/v1/users/"+userID+"/businesses", userID, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Len(t, resp.Data.([]any), 2)
}
