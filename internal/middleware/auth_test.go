package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallhub/recall-service/internal/models"
	"github.com/recallhub/recall-service/internal/services"
	"github.com/recallhub/recall-service/internal/utils"
)

const testSecret = "middleware-test-secret"

// stubUserService serves a fixed set of users by id.
type stubUserService struct {
	users map[uint]*models.User
}

func (s *stubUserService) Register(ctx context.Context, req *services.RegisterRequest) (*services.AuthResponse, error) {
	return nil, nil
}

func (s *stubUserService) Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResponse, error) {
	return nil, nil
}

func (s *stubUserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUserService) ModeratorDashboard(ctx context.Context, actor *models.User) (*services.DashboardResponse, error) {
	return nil, nil
}

func signToken(t *testing.T, userID uint, role models.UserRole, secret string) string {
	t.Helper()
	claims := services.AuthClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newTestAuthenticator() *Authenticator {
	users := map[uint]*models.User{
		1: {ID: 1, Username: "contrib", Role: models.RoleContributor},
		2: {ID: 2, Username: "mod", Role: models.RoleModerator},
	}
	return NewAuthenticator(&stubUserService{users: users}, testSecret, utils.NewDefaultLogger())
}

func performRequest(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := newTestAuthenticator()

	router := gin.New()
	router.GET("/protected", auth.RequireAuth(), func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"user_id": user.ID})
	})

	t.Run("valid token loads the user", func(t *testing.T) {
		w := performRequest(router, signToken(t, 1, models.RoleContributor, testSecret))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":1`)
	})

	t.Run("missing token", func(t *testing.T) {
		w := performRequest(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with the wrong secret", func(t *testing.T) {
		w := performRequest(router, signToken(t, 1, models.RoleContributor, "other-secret"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token for a deleted user", func(t *testing.T) {
		w := performRequest(router, signToken(t, 42, models.RoleContributor, testSecret))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := newTestAuthenticator()

	router := gin.New()
	router.GET("/protected", auth.OptionalAuth(), func(c *gin.Context) {
		if user := CurrentUser(c); user != nil {
			c.JSON(http.StatusOK, gin.H{"user_id": user.ID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"anonymous": true})
	})

	t.Run("anonymous passes through", func(t *testing.T) {
		w := performRequest(router, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "anonymous")
	})

	t.Run("valid token identifies the user", func(t *testing.T) {
		w := performRequest(router, signToken(t, 2, models.RoleModerator, testSecret))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":2`)
	})

	t.Run("garbage token degrades to anonymous", func(t *testing.T) {
		w := performRequest(router, "not-a-jwt")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "anonymous")
	})
}

func TestRequireModerator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := newTestAuthenticator()

	router := gin.New()
	router.GET("/protected", auth.RequireAuth(), auth.RequireModerator(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("moderator passes", func(t *testing.T) {
		w := performRequest(router, signToken(t, 2, models.RoleModerator, testSecret))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("contributor is forbidden", func(t *testing.T) {
		// The role claim in the token does not matter; the stored role does.
		w := performRequest(router, signToken(t, 1, models.RoleModerator, testSecret))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
