package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func runProtected(t *testing.T, authHeader string, mws ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	require.NoError(t, h(c))
	return rec, c
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	tok := signToken(t, testSecret, jwt.MapClaims{"sub": "user_1", "role": "admin"})
	rec, c := runProtected(t, "Bearer "+tok, JWTAuth(testSecret))

	assert.Equal(t, http.StatusOK, rec.Code)
	id, ok := UserID(c)
	assert.True(t, ok)
	assert.Equal(t, "user_1", id)
	assert.Equal(t, "admin", c.Get("role"))
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	rec, _ := runProtected(t, "", JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	tok := signToken(t, "some-other-secret", jwt.MapClaims{"sub": "user_1"})
	rec, _ := runProtected(t, "Bearer "+tok, JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsMissingSubject(t *testing.T) {
	tok := signToken(t, testSecret, jwt.MapClaims{"role": "admin"})
	rec, _ := runProtected(t, "Bearer "+tok, JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	adminTok := signToken(t, testSecret, jwt.MapClaims{"sub": "user_1", "role": RoleAdmin})
	rec, _ := runProtected(t, "Bearer "+adminTok, JWTAuth(testSecret), RequireRole(RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)

	plainTok := signToken(t, testSecret, jwt.MapClaims{"sub": "user_2"})
	rec, _ = runProtected(t, "Bearer "+plainTok, JWTAuth(testSecret), RequireRole(RoleAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
