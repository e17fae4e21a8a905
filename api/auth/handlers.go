package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/mask-editor-api/internal/services/auth"
)

// Context keys set by the middleware
const (
	ContextClaims = "claims"
	ContextUserID = "user_id"
)

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
}

// Handler manages auth endpoints and middleware
type Handler struct {
	validator TokenValidator
}

// NewHandler creates a new auth handler
func NewHandler(validator TokenValidator) *Handler {
	return &Handler{validator: validator}
}

// Me returns current user info from the bearer token
// @Summary Get current user
// @Description Get current user information from the bearer token
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} auth.UserInfo
// @Failure 401 {object} types.ErrorResponse
// @Router /api/v1/me [get]
func (h *Handler) Me(c *gin.Context) {
	claims, ok := Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, auth.GetUserInfo(claims))
}

// AuthMiddleware requires a valid bearer token
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims, err := h.validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied - insufficient permissions"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			}
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware validates a token if present but doesn't require it
func (h *Handler) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := h.validator.ValidateToken(c.Request.Context(), token); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RequirePermission creates middleware that requires any of the given permissions
func (h *Handler) RequirePermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		if !claims.HasAnyPermission(permissions...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":                "Insufficient permissions",
				"required_permissions": permissions,
			})
			return
		}

		c.Next()
	}
}

// Claims returns the validated claims stored on the request, if any
func Claims(c *gin.Context) (*auth.Claims, bool) {
	v, exists := c.Get(ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok && claims != nil
}

// UserID returns the authenticated subject, or "" for anonymous requests
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(ContextClaims, claims)
	c.Set(ContextUserID, claims.Sub)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" {
		return "", false
	}
	return token, true
}
