package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rxlens/catalog/internal/utils"
)

// AdminChecker reports whether a user holds the admin role record.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// RequireAdmin must run after Auth. Admin status comes from the persisted
// role records, not from token claims, so a fresh grant takes effect at once.
func RequireAdmin(roles AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get("user_id")
		userID, _ := v.(string)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "unauthorized",
			})
			return
		}

		ok, err := roles.IsAdmin(c.Request.Context(), userID)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(utils.HTTPStatus(err), apiError{
				Code:    utils.CodeOf(err),
				Message: "failed to check role",
			})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, apiError{
				Code:    utils.CodeForbidden,
				Message: "forbidden",
			})
			return
		}

		c.Set("role", "admin")
		c.Next()
	}
}
