package middleware

import (
	"context"
	"errors"
	"net/http"

	"storyhub/internal/auth"
	"storyhub/internal/logger"
	"storyhub/internal/models"
	"storyhub/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const CheckUserKey = "user"

// UserGetter loads the account a session points at.
type UserGetter interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// LoadUser retrieves the user bound to the session and sets it on the context.
// A session pointing at a vanished user is treated as anonymous.
func LoadUser(users UserGetter, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := auth.SessionUserID(c); userID != "" {
			user, err := users.GetUser(c.Request.Context(), userID)
			switch {
			case err == nil:
				c.Set(CheckUserKey, user)
				c.Set(logger.UserIDKey, user.ID)
			case !errors.Is(err, store.ErrNotFound):
				log.WithError(err).WithField("user_id", userID).Warn("Failed to load session user")
			}
		}
		c.Next()
	}
}

// CurrentUser returns the logged-in user or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CheckUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// AuthRequired rejects anonymous requests with 401.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// AdminRequired rejects anonymous requests with 401 and non-admins with 403.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		c.Next()
	}
}
