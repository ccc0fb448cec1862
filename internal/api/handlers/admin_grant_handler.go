package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rxlens/catalog/internal/services"
	"github.com/rxlens/catalog/internal/utils"
	"github.com/sirupsen/logrus"
)

type AdminGrantHandler struct {
	svc services.RoleService
	log *logrus.Logger
}

func NewAdminGrantHandler(svc services.RoleService, log *logrus.Logger) *AdminGrantHandler {
	return &AdminGrantHandler{svc: svc, log: log}
}

type GrantAdminRequest struct {
	Token string `json:"token"`
}

type GrantAdminResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Grant upserts the admin role for the caller when the bootstrap token
// matches. The token is never logged or echoed back.
func (h *AdminGrantHandler) Grant(c *gin.Context) {
	var req GrantAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// an unreadable body carries no token
		req.Token = ""
	}

	user, err := h.svc.GrantAdmin(c.Request.Context(), services.GrantRequest{
		Token:         req.Token,
		Authorization: c.GetHeader("Authorization"),
		IP:            c.ClientIP(),
		RequestID:     c.GetString("request_id"),
	})
	if err != nil {
		_ = c.Error(err)
		switch utils.CodeOf(err) {
		case utils.CodeMisconfigured:
			h.log.WithError(err).WithField("error_code", utils.CodeMisconfigured).
				Error("grant-admin: server misconfigured (operator error)")
		case utils.CodeUpstream:
			h.log.WithError(err).WithField("error_code", utils.CodeUpstream).
				Error("grant-admin upsert error")
		}
		c.JSON(utils.HTTPStatus(err), GrantAdminResponse{Success: false, Message: utils.MessageOf(err)})
		return
	}

	c.Set("user_id", user.ID)
	c.JSON(http.StatusOK, GrantAdminResponse{Success: true})
}
