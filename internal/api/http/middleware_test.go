package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"awn-backend/internal/security"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func okHandler(t *testing.T, sawClaims **security.UserClaims) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sawClaims != nil {
			*sawClaims = claimsFrom(r)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tokens := security.NewTokenManager(testSecret)
	middleware := AuthMiddleware(tokens)

	t.Run("ValidToken", func(t *testing.T) {
		token, err := tokens.GenerateAccessToken("user-1", "user@example.com", []string{"user"})
		require.NoError(t, err)

		var claims *security.UserClaims
		req := httptest.NewRequest(http.MethodGet, "/api/v1/credits", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		middleware(okHandler(t, &claims)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, claims)
		assert.Equal(t, "user-1", claims.UserID)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/credits", nil)
		rec := httptest.NewRecorder()

		middleware(okHandler(t, nil)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/credits", nil)
		req.Header.Set("Authorization", "Token abc123")
		rec := httptest.NewRecorder()

		middleware(okHandler(t, nil)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/credits", nil)
		req.Header.Set("Authorization", "Bearer not-a-real-token")
		rec := httptest.NewRecorder()

		middleware(okHandler(t, nil)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("TokenSignedWithOtherSecret", func(t *testing.T) {
		other := security.NewTokenManager("ffffffffffffffffffffffffffffffff")
		token, err := other.GenerateAccessToken("user-1", "user@example.com", nil)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/credits", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		middleware(okHandler(t, nil)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	tokens := security.NewTokenManager(testSecret)
	middleware := AuthMiddleware(tokens)

	serve := func(t *testing.T, roles []string) *httptest.ResponseRecorder {
		t.Helper()
		token, err := tokens.GenerateAccessToken("user-1", "user@example.com", roles)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/coupons", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		middleware(RequireAdmin(okHandler(t, nil))).ServeHTTP(rec, req)
		return rec
	}

	t.Run("AdminAllowed", func(t *testing.T) {
		rec := serve(t, []string{security.RoleAdmin})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("NonAdminForbidden", func(t *testing.T) {
		rec := serve(t, []string{"user"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("NoClaimsForbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/coupons", nil)
		RequireAdmin(okHandler(t, nil)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/coupons/redeem", nil)
	req.RemoteAddr = "10.0.0.5:51234"
	assert.Equal(t, "10.0.0.5", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.5")
	assert.Equal(t, "203.0.113.7", clientIP(req))
}
