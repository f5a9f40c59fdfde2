// Package middleware provides HTTP middleware for the service.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bizops/backend/internal/application/identity"
	"github.com/bizops/backend/internal/infrastructure/auth"
	"github.com/bizops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth context keys
const (
	SessionClaimsKey = "session_claims"
	SessionUserIDKey = "user_id"
	AuthHeaderKey    = "Authorization"
	BearerPrefix     = "Bearer "
	// AccessTokenQueryKey lets EventSource clients authenticate the stream
	// endpoint, since browsers cannot attach headers there.
	AccessTokenQueryKey = "access_token"
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	// JWTService validates bearer tokens issued by the identity provider.
	JWTService *auth.JWTService
	// SkipPaths are paths that don't require authentication.
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication.
	SkipPathPrefixes []string
	// Logger for middleware logging.
	Logger *zap.Logger
}

// DefaultAuthConfig returns the default auth middleware configuration.
func DefaultAuthConfig(jwtService *auth.JWTService) AuthConfig {
	return AuthConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/api/v1/health",
		},
	}
}

// Auth creates authentication middleware with the default configuration.
func Auth(jwtService *auth.JWTService) gin.HandlerFunc {
	return AuthWithConfig(DefaultAuthConfig(jwtService))
}

// AuthWithConfig creates authentication middleware. On success the resolved
// session is placed on the request context, where services read it through
// the session provider.
func AuthWithConfig(cfg AuthConfig) gin.HandlerFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		tokenString, errMessage := extractToken(c)
		if tokenString == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, errMessage)
			return
		}

		claims, err := cfg.JWTService.Validate(tokenString)
		if err != nil {
			code := dto.ErrCodeTokenInvalid
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrCodeTokenExpired
			}
			logger.Debug("token rejected", zap.String("path", path), zap.Error(err))
			abortUnauthorized(c, code, "Invalid or expired token")
			return
		}

		userID, err := claims.UserUUID()
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Token subject is not a valid user id")
			return
		}

		session := &identity.Session{UserID: userID, Email: claims.Email}
		c.Set(SessionClaimsKey, claims)
		c.Set(SessionUserIDKey, userID.String())
		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), session))
		c.Next()
	}
}

// extractToken pulls the bearer token from the Authorization header, falling
// back to the access_token query parameter.
func extractToken(c *gin.Context) (string, string) {
	authHeader := c.GetHeader(AuthHeaderKey)
	if authHeader != "" {
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			return "", "Invalid authorization header format"
		}
		return strings.TrimPrefix(authHeader, BearerPrefix), ""
	}
	if token := c.Query(AccessTokenQueryKey); token != "" {
		return token, ""
	}
	return "", "Missing authorization header"
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}
