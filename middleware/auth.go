package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"restaurant-pos/models"
	"restaurant-pos/services"
)

const (
	ctxStaffID = "staffID"
	ctxEmail   = "email"
	ctxRole    = "role"
)

// TokenParser validates a bearer token
type TokenParser interface {
	ParseToken(token string) (*services.Claims, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

func setClaims(c *gin.Context, claims *services.Claims) {
	c.Set(ctxStaffID, claims.StaffID)
	c.Set(ctxEmail, claims.Email)
	c.Set(ctxRole, string(claims.Role))
}

// AuthRequired validates the JWT and injects claims into context
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			return
		}
		claims, err := parser.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth records the caller when a valid token is sent and lets
// anonymous requests through
func OptionalAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, ok := bearerToken(c); ok {
			if claims, err := parser.ParseToken(tokenStr); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.StaffRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerRole := GetRole(c)
		if callerRole == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role not found in context"})
			return
		}
		for _, r := range roles {
			if callerRole == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required role(s): " + rolesString(roles),
		})
	}
}

// Staff guards a staff-only route. With enforcement off it only picks up
// the caller's identity when a token is present.
func Staff(enforce bool, parser TokenParser, roles ...models.StaffRole) []gin.HandlerFunc {
	if !enforce {
		return []gin.HandlerFunc{OptionalAuth(parser)}
	}
	return []gin.HandlerFunc{AuthRequired(parser), RoleRequired(roles...)}
}

func rolesString(roles []models.StaffRole) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// GetRole extracts caller role from context, empty when anonymous
func GetRole(c *gin.Context) models.StaffRole {
	return models.StaffRole(c.GetString(ctxRole))
}

// Actor names the caller for audit history: the staff email, or fallback
// for anonymous requests
func Actor(c *gin.Context, fallback string) string {
	if email := c.GetString(ctxEmail); email != "" {
		return email
	}
	return fallback
}
