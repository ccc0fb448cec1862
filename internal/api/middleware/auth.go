package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rxlens/catalog/internal/identity"
	"github.com/rxlens/catalog/internal/utils"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

// Auth resolves the caller's session through the identity platform and
// stores the user id in the gin context under "user_id".
func Auth(v identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
				Code:    utils.CodeMisconfigured,
				Message: "identity verifier is not configured",
			})
			return
		}

		user, err := v.Verify(c.Request.Context(), c.GetHeader("Authorization"))
		if errors.Is(err, identity.ErrNotConfigured) {
			_ = c.Error(utils.E(utils.CodeMisconfigured, "Auth", "identity verifier is not configured", err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
				Code:    utils.CodeMisconfigured,
				Message: "identity verifier is not configured",
			})
			return
		}
		if err != nil || user == nil {
			msg := "invalid token"
			if errors.Is(err, identity.ErrMissingBearer) {
				msg = "missing bearer token"
			}
			if err != nil {
				_ = c.Error(err)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: msg,
			})
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Next()
	}
}
