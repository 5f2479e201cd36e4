package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/OttoDev-System/intellicor-saas/pkg/logger"
	"github.com/OttoDev-System/intellicor-saas/pkg/response"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")
)

// Context keys for session information
const (
	ContextKeyUserID         = "user_id"
	ContextKeyEmail          = "email"
	ContextKeyName           = "name"
	ContextKeyRole           = "role"
	ContextKeyOrganizationID = "organization_id"
	ContextKeyTokenID        = "token_id"
	ContextKeyTokenExpiry    = "token_expiry"
)

// Claims is the payload of a session token
type Claims struct {
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	OrganizationID string `json:"organization_id"`
	jwt.RegisteredClaims
}

// RevocationChecker reports whether a token id was revoked by logout
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// JWTConfig holds configuration for JWT middleware
type JWTConfig struct {
	Secret string
	// CookieName is read when no Authorization header is present
	CookieName string
	SkipPaths  []string
	Revocation RevocationChecker
	// Optional populates the context when a valid token exists but never aborts
	Optional bool
	// Logger defaults to the global logger
	Logger *logger.Logger
}

// ParseToken validates a signed token and returns its claims
func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// JWTMiddleware creates a new JWT validation middleware
func JWTMiddleware(config *JWTConfig) gin.HandlerFunc {
	log := config.Logger
	if log == nil {
		log = logger.Get()
	}

	return func(c *gin.Context) {
		for _, path := range config.SkipPaths {
			if c.Request.URL.Path == path {
				c.Next()
				return
			}
		}

		reject := func(code, message string) {
			if config.Optional {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(code, message))
		}

		tokenString, err := extractToken(c, config.CookieName)
		if err != nil {
			reject(response.ErrCodeUnauthorized, err.Error())
			return
		}

		claims, err := ParseToken(tokenString, config.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				reject(response.ErrCodeTokenExpired, "Access token has expired")
				return
			}
			reject(response.ErrCodeInvalidToken, "Invalid access token")
			return
		}

		if config.Revocation != nil && claims.ID != "" {
			revoked, err := config.Revocation.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				// fail open
				log.WithContext(c.Request.Context()).Warn("revocation check failed, accepting token",
					zap.String("token_id", claims.ID),
					zap.String("user_id", claims.UserID),
					zap.Error(err),
				)
			} else if revoked {
				reject(response.ErrCodeInvalidToken, "Session has ended")
				return
			}
		}

		setClaims(c, claims)
		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) (string, error) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			return "", errors.New("invalid authorization header format")
		}
		token := authHeader[len(bearerPrefix):]
		if token == "" {
			return "", errors.New("token is empty")
		}
		return token, nil
	}

	if cookieName != "" {
		if token, err := c.Cookie(cookieName); err == nil && token != "" {
			return token, nil
		}
	}
	return "", errors.New("authorization is required")
}

func setClaims(c *gin.Context, claims *Claims) {
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyEmail, claims.Email)
	c.Set(ContextKeyName, claims.Name)
	c.Set(ContextKeyRole, claims.Role)
	c.Set(ContextKeyOrganizationID, claims.OrganizationID)
	c.Set(ContextKeyTokenID, claims.ID)
	if claims.ExpiresAt != nil {
		c.Set(ContextKeyTokenExpiry, claims.ExpiresAt.Time)
	}
}

// RequireRole creates a middleware that checks if user has required role
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized("User not authenticated"))
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, response.Forbidden("Insufficient permissions"))
	}
}

func getString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetUserID extracts user ID from gin context
func GetUserID(c *gin.Context) (string, bool) { return getString(c, ContextKeyUserID) }

// GetEmail extracts email from gin context
func GetEmail(c *gin.Context) (string, bool) { return getString(c, ContextKeyEmail) }

// GetName extracts the display name from gin context
func GetName(c *gin.Context) (string, bool) { return getString(c, ContextKeyName) }

// GetRole extracts role from gin context
func GetRole(c *gin.Context) (string, bool) { return getString(c, ContextKeyRole) }

// GetOrganizationID extracts organization ID from gin context
func GetOrganizationID(c *gin.Context) (string, bool) {
	return getString(c, ContextKeyOrganizationID)
}

// GetTokenID extracts the jti of the current session
func GetTokenID(c *gin.Context) (string, bool) { return getString(c, ContextKeyTokenID) }

// GetTokenExpiry extracts the expiry of the current session
func GetTokenExpiry(c *gin.Context) (time.Time, bool) {
	v, exists := c.Get(ContextKeyTokenExpiry)
	if !exists {
		return time.Time{}, false
	}
	t, ok := v.(time.Time)
	return t, ok
}
