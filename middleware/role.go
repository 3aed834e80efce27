package middleware

import (
	"net/http"

	"plantco/models"
	"plantco/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through only if the authenticated principal
// holds one of roles. It must run after JWTAuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Insufficient authorization"})
			return
		}
		if !allowed[p.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{
				Message: "Access denied for role " + string(p.Role),
				Kind:    string(utils.KindForbidden),
				Code:    utils.CodeForbidden,
			})
			return
		}
		c.Next()
	}
}
