package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/smartmart-backend/internal/app/model"
	"github.com/ikkim/smartmart-backend/internal/app/service"
	apperrors "github.com/ikkim/smartmart-backend/internal/errors"
)

// Context keys for the authenticated user
const (
	UserKey    = "user"
	UserIDKey  = "user_id"
	SessionKey = "session"
)

// AuthGuard admits authenticated users only. OptionalAuthenticate loads
// the user when a valid session exists and never rejects.
type AuthGuard interface {
	Authenticate() gin.HandlerFunc
	OptionalAuthenticate() gin.HandlerFunc
}

// StaffGuard admits staff only. It runs after AuthGuard.Authenticate.
type StaffGuard interface {
	RequireStaff() gin.HandlerFunc
}

// SessionResolver maps a session cookie value to its user.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*model.User, *service.Session, error)
}

type AuthMiddleware struct {
	sessions   SessionResolver
	cookieName string
	loginPath  string
	homePath   string
}

var (
	_ AuthGuard  = (*AuthMiddleware)(nil)
	_ StaffGuard = (*AuthMiddleware)(nil)
)

func NewAuthMiddleware(sessions SessionResolver, cookieName, loginPath, homePath string) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		cookieName: cookieName,
		loginPath:  loginPath,
		homePath:   homePath,
	}
}

// resolve loads the session user into the context. It returns
// service.ErrUnauthorized when there is no usable session.
func (m *AuthMiddleware) resolve(c *gin.Context) (*model.User, error) {
	token, err := c.Cookie(m.cookieName)
	if err != nil || token == "" {
		return nil, service.ErrUnauthorized
	}

	user, session, err := m.sessions.Resolve(c.Request.Context(), token)
	if err != nil {
		return nil, err
	}

	c.Set(UserKey, user)
	c.Set(UserIDKey, user.ID)
	c.Set(SessionKey, session)
	return user, nil
}

// Authenticate redirects to the login page when there is no valid session
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		user, err := m.resolve(c)
		if err != nil {
			if !errors.Is(err, service.ErrUnauthorized) {
				log.Error("Session lookup failed", err, map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				apperrors.Respond(c, http.StatusServiceUnavailable, apperrors.InternalSessionStore,
					"The service is temporarily unavailable, please try again", nil)
				c.Abort()
				return
			}

			log.Debug("Unauthenticated request redirected to login", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			target := m.loginPath
			if c.Request.Method == http.MethodGet {
				target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			}
			c.Redirect(http.StatusSeeOther, target)
			c.Abort()
			return
		}

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": user.ID,
		})
		c.Next()
	}
}

// OptionalAuthenticate sets the user when the session is valid and
// continues as a guest otherwise
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := m.resolve(c); err != nil && !errors.Is(err, service.ErrUnauthorized) {
			GetLoggerFromContext(c).Warn("Session lookup failed - continuing as guest", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
		}
		c.Next()
	}
}

// RequireStaff redirects non-staff users to the home page. The staff flag
// comes from the user row loaded by Authenticate on this request.
func (m *AuthMiddleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		user, ok := GetUser(c)
		if !ok {
			log.Warn("Staff check without authenticated user", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			c.Redirect(http.StatusSeeOther, m.loginPath)
			c.Abort()
			return
		}

		if !user.IsStaff {
			log.Warn("Non-staff user denied catalog access", map[string]interface{}{
				"user_id": user.ID,
				"path":    c.Request.URL.Path,
			})
			c.Redirect(http.StatusSeeOther, m.homePath)
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUser extracts the authenticated user from context
func GetUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetSession extracts the current session from context
func GetSession(c *gin.Context) (*service.Session, bool) {
	v, exists := c.Get(SessionKey)
	if !exists {
		return nil, false
	}
	session, ok := v.(*service.Session)
	return session, ok
}
