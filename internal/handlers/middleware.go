package handlers

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleStudent = "Student"
	RoleFaculty = "TPO/Faculty"
	RoleAdmin   = "Admin"

	ctxUserID = "user_id"
	ctxRole   = "role"
)

type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// ParseToken validates an HS256 token signed with secret.
func ParseToken(tokenString, secret string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token is required")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	return claims, nil
}

// AuthRequired identifies the caller from a bearer token when a secret is
// configured, otherwise from the X-User-ID and X-User-Role headers set by
// the gateway.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if secret != "" && strings.HasPrefix(header, "Bearer ") {
			claims, err := ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
			if err != nil || claims.UserID == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxRole, claims.Role)
			c.Next()
			return
		}

		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User ID is required"})
			return
		}
		c.Set(ctxUserID, userID)
		c.Set(ctxRole, c.GetHeader("X-User-Role"))
		c.Next()
	}
}

// TestTakersOnly rejects callers whose role is known and is not Student.
func TestTakersOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role := c.GetString(ctxRole); role != "" && role != RoleStudent {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "only students can take tests"})
			return
		}
		c.Next()
	}
}

// RequireRole admits only the listed roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(roles, c.GetString(ctxRole)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
