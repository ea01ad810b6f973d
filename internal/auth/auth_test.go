package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bilingual-blog-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testUser = &models.User{ID: "usr_1a2b3c4d", Username: "budi", Role: models.RoleAuthor}

func TestTokenManager_IssueVerify(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, err := m.Issue(testUser)
	require.NoError(t, err)

	id, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, &models.Identity{UserID: "usr_1a2b3c4d", Role: models.RoleAuthor, Username: "budi"}, id)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, err := m.Issue(testUser)
	require.NoError(t, err)

	_, err = NewTokenManager("other-secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenManager("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = expired.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func newTestRouter(m *TokenManager, guard gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Middleware(m, "auth_token"))
	r.GET("/who", guard, func(c *gin.Context) {
		id := IdentityFrom(c)
		if id == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, id.UserID)
	})
	return r
}

func TestMiddleware_TokenSources(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, err := m.Issue(testUser)
	require.NoError(t, err)
	r := newTestRouter(m, func(c *gin.Context) { c.Next() })

	tests := []struct {
		name    string
		prepare func(*http.Request)
		want    string
	}{
		{"no token", func(*http.Request) {}, "anonymous"},
		{"cookie", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: "auth_token", Value: token}) }, "usr_1a2b3c4d"},
		{"bearer header", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) }, "usr_1a2b3c4d"},
		{"invalid token is anonymous", func(req *http.Request) { req.Header.Set("Authorization", "Bearer junk") }, "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/who", nil)
			tt.prepare(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestRequireRole(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	r := newTestRouter(m, RequireRole(models.RoleAdmin, models.RoleAuthor))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/who", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	reader, err := m.Issue(&models.User{ID: "usr_reader", Role: models.RoleReader})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer "+reader)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	author, err := m.Issue(testUser)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer "+author)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	r := newTestRouter(m, RequireAuth())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/who", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"authentication required"}`, w.Body.String())
}
