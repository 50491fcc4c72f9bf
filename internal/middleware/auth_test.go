package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ticketya/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "auth-test-secret"

func signToken(t *testing.T, secret string, userID uuid.UUID, role model.Role) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, authClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := append([]gin.HandlerFunc{RequireAuth(testSecret)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		role, _ := CurrentRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.String(), "role": string(role)})
	})
	router.GET("/protected", handlers...)
	return router
}

func get(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_ValidToken(t *testing.T) {
	userID := uuid.New()
	token := signToken(t, testSecret, userID, model.RoleCustomer)

	w := get(authRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), "CUSTOMER")
}

func TestRequireAuth_MissingOrMalformed(t *testing.T) {
	router := authRouter()

	assert.Equal(t, http.StatusUnauthorized, get(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "Bearer not.a.jwt").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "Basic dXNlcjpwYXNz").Code)
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	token := signToken(t, "some-other-secret", uuid.New(), model.RoleCustomer)
	assert.Equal(t, http.StatusUnauthorized, get(authRouter(), "Bearer "+token).Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, authClaims{
		Role: string(model.RoleCustomer),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(authRouter(), "Bearer "+signed).Code)
}

func TestRequireRole(t *testing.T) {
	router := authRouter(RequireRole(model.RolePortero, model.RoleOrganizer))

	portero := signToken(t, testSecret, uuid.New(), model.RolePortero)
	assert.Equal(t, http.StatusOK, get(router, "Bearer "+portero).Code)

	customer := signToken(t, testSecret, uuid.New(), model.RoleCustomer)
	assert.Equal(t, http.StatusForbidden, get(router, "Bearer "+customer).Code)
}

func TestRequireRole_AdminBypass(t *testing.T) {
	router := authRouter(RequireRole(model.RolePortero))
	admin := signToken(t, testSecret, uuid.New(), model.RoleAdmin)
	assert.Equal(t, http.StatusOK, get(router, "Bearer "+admin).Code)
}
