package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rxlens/catalog/internal/utils"
)

// APIError is the body of every non-2xx catalog and role response.
type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

// writeError records err on the gin context for the request logger and
// answers with the caller-safe part only. Wrapped causes never reach the body.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(utils.HTTPStatus(err), APIError{
		Code:    utils.CodeOf(err),
		Message: utils.MessageOf(err),
	})
}

// requireUserID reads the id stored by middleware.Auth.
func requireUserID(c *gin.Context) (string, bool) {
	if id := c.GetString("user_id"); id != "" {
		return id, true
	}
	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}
