package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- AuthenticateAgency Tests ---

func TestAuthenticateAgency(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)
	agencyID := uuid.New()

	var gotAgency uuid.UUID
	handler := AuthenticateAgency(mgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := AgencyIDFromContext(r.Context())
		require.NoError(t, err)
		gotAgency = id
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid bearer token passes", func(t *testing.T) {
		token, err := mgr.GenerateToken(uuid.New(), agencyID, "ops@agency.test", "viewer")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/campaigns", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, agencyID, gotAgency)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/campaigns", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-bearer header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/campaigns", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		other := NewJWTManager("other-secret", time.Hour)
		token, err := other.GenerateToken(uuid.New(), agencyID, "", "viewer")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/campaigns", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

// --- RequireRole Tests ---

func TestRequireRole(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)

	protected := AuthenticateAgency(mgr)(RequireRole("manager", "admin")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

	request := func(t *testing.T, role string) *httptest.ResponseRecorder {
		t.Helper()
		token, err := mgr.GenerateToken(uuid.New(), uuid.New(), "", role)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/sync/run", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		return rec
	}

	t.Run("manager is allowed", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, request(t, "manager").Code)
	})

	t.Run("admin is allowed", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, request(t, "admin").Code)
	})

	t.Run("viewer is forbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, request(t, "viewer").Code)
	})

	t.Run("no role claim is forbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, request(t, "").Code)
	})
}
