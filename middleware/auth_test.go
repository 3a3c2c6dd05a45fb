package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shalom-hotel/models"
	"shalom-hotel/utils"
)

var testSecret = []byte("middleware-test-secret")

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/me", RequireAuth(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserIDFromContext(c), "admin": IsAdmin(c)})
	})
	r.GET("/admin", RequireAuth(testSecret), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doGet(t *testing.T, r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := newTestRouter()

	w := doGet(t, r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doGet(t, r, "/me", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doGet(t, r, "/me", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := utils.GenerateAuthToken(7, models.RoleUser, testSecret)
	require.NoError(t, err)
	w = doGet(t, r, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestRequireAdmin(t *testing.T) {
	r := newTestRouter()

	userToken, err := utils.GenerateAuthToken(7, models.RoleUser, testSecret)
	require.NoError(t, err)
	w := doGet(t, r, "/admin", "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken, err := utils.GenerateAuthToken(1, models.RoleAdmin, testSecret)
	require.NoError(t, err)
	w = doGet(t, r, "/admin", "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
