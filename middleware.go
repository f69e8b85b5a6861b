package main

import (
	"net/http"

	"fintrack/apperrors"
	"fintrack/logging"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const (
	ctxUserKey  = "currentUser"
	ctxScopeKey = "scope"
)

// Scope is the per-request data visibility: every record (admin) or the
// records owned by one user. It is resolved once by jwtAuthMiddleware and is
// the single source of truth for whose data a handler may touch.
type Scope struct {
	All    bool
	UserID uint
}

// apply narrows a query to the scope. Admin scope passes the query through.
func (s Scope) apply(q *gorm.DB) *gorm.DB {
	if s.All {
		return q
	}
	return q.Where("user_id = ?", s.UserID)
}

func resolveScope(user models.User) Scope {
	if user.IsAdmin() {
		return Scope{All: true}
	}
	return Scope{UserID: user.ID}
}

// jwtAuthMiddleware verifies the bearer token, loads the account it names and
// stages the user plus resolved scope for downstream handlers.
func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			abortWith(c, apperrors.Unauthenticated("missing or invalid Authorization header"))
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			abortWith(c, apperrors.Unauthenticated("invalid token"))
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWith(c, apperrors.Unauthenticated("invalid claims"))
			return
		}
		uid, ok := claims["uid"].(float64)
		if !ok || uid <= 0 {
			abortWith(c, apperrors.Unauthenticated("invalid claims"))
			return
		}
		var user models.User
		if err := db.First(&user, uint(uid)).Error; err != nil {
			abortWith(c, apperrors.Unauthenticated("account no longer exists"))
			return
		}
		c.Set(ctxUserKey, user)
		c.Set(ctxScopeKey, resolveScope(user))
		c.Next()
	}
}

// requireAdmin rejects non-admin callers. Must run after jwtAuthMiddleware.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			abortWith(c, apperrors.Unauthenticated("not authenticated"))
			return
		}
		if !user.IsAdmin() {
			abortWith(c, apperrors.Forbidden("admin privileges required"))
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

func requestScope(c *gin.Context) Scope {
	v, ok := c.Get(ctxScopeKey)
	if !ok {
		// unauthenticated paths never reach here; fall back to an empty scope
		return Scope{}
	}
	return v.(Scope)
}

// fail converts an error into its JSON response. Internal errors are logged
// with full detail and answered with a generic message.
func fail(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if apperrors.Internal(err) {
		logging.L().WithField("path", c.FullPath()).Errorf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	msg := err.Error()
	if e, ok := apperrors.As(err); ok {
		msg = e.Message
	}
	c.JSON(status, gin.H{"error": msg})
}

func abortWith(c *gin.Context, err error) {
	fail(c, err)
	c.Abort()
}
