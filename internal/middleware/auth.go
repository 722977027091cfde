package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/recallhub/recall-service/internal/models"
	"github.com/recallhub/recall-service/internal/services"
	"github.com/recallhub/recall-service/internal/utils"
)

const (
	// ContextUserKey holds the authenticated *models.User in the gin context.
	ContextUserKey = "current_user"
	// ContextUserIDKey holds the authenticated user id for request logging.
	ContextUserIDKey = "user_id"

	bearerPrefix = "Bearer "
)

// Authenticator validates bearer tokens and loads the current user.
type Authenticator struct {
	userService services.UserService
	jwtSecret   []byte
	logger      utils.Logger
}

func NewAuthenticator(userService services.UserService, jwtSecret string, logger utils.Logger) *Authenticator {
	return &Authenticator{
		userService: userService,
		jwtSecret:   []byte(jwtSecret),
		logger:      logger,
	}
}

// RequireAuth rejects requests without a valid bearer token.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := a.resolveUser(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)
		c.Next()
	}
}

// OptionalAuth loads the user when a valid token is present and continues
// anonymously otherwise. Listings use it so locked placeholders can be
// rendered for guests.
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := a.resolveUser(c); err == nil {
			c.Set(ContextUserKey, user)
			c.Set(ContextUserIDKey, user.ID)
		}
		c.Next()
	}
}

// RequireModerator rejects authenticated users without a moderating role.
// It must run after RequireAuth.
func (a *Authenticator) RequireModerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		if !user.Role.CanModerate() {
			a.logger.Warn("Moderator access denied", "user_id", user.ID, "role", user.Role)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "moderator role required"})
			return
		}
		c.Next()
	}
}

func (a *Authenticator) resolveUser(c *gin.Context) (*models.User, error) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, fmt.Errorf("missing bearer token")
	}
	tokenString := strings.TrimPrefix(header, bearerPrefix)

	claims := &services.AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid token subject: %w", err)
	}

	// The user row is the source of truth for role and ledger; the token
	// only identifies the caller.
	user, err := a.userService.GetByID(c.Request.Context(), uint(userID))
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CurrentUser returns the authenticated user from the gin context, nil for
// anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
