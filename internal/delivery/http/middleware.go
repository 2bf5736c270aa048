package http

import (
	"net/http"
	"strings"

	"intellilearn-backend/internal/domain"
	"intellilearn-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthMiddleware validates the Bearer token and, when roles are given,
// requires the caller to hold one of them.
func AuthMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid auth header format"})
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token subject"})
			return
		}

		if len(roles) > 0 {
			allowed := false
			for _, r := range roles {
				if r == claims.Role {
					allowed = true
					break
				}
			}
			if !allowed {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Forbidden access"})
				return
			}
		}

		c.Set("user_id", userID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// actor builds the authenticated principal from the context set by
// AuthMiddleware.
func actor(c *gin.Context) domain.Actor {
	userID, _ := c.Get("user_id")
	role, _ := c.Get("role")
	a := domain.Actor{}
	if id, ok := userID.(primitive.ObjectID); ok {
		a.ID = id
	}
	if r, ok := role.(string); ok {
		a.Role = domain.Role(r)
	}
	return a
}
