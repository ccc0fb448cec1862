package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rxlens/catalog/internal/services"
)

type RoleHandler struct {
	roles services.RoleService
	audit services.AuditService
}

func NewRoleHandler(roles services.RoleService, audit services.AuditService) *RoleHandler {
	return &RoleHandler{roles: roles, audit: audit}
}

type RoleStatusResponse struct {
	UserID  string `json:"userId"`
	IsAdmin bool   `json:"isAdmin"`
}

// Me answers the has_role check the admin gate runs after sign-in.
func (h *RoleHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	isAdmin, err := h.roles.IsAdmin(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, RoleStatusResponse{UserID: userID, IsAdmin: isAdmin})
}

func (h *RoleHandler) GrantAudit(c *gin.Context) {
	out, err := h.audit.ListByUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
