package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rxlens/catalog/internal/services"
	"github.com/rxlens/catalog/internal/utils"
	"github.com/sirupsen/logrus"
)

type SignatureHandler struct {
	svc services.SignatureService
	log *logrus.Logger
}

func NewSignatureHandler(svc services.SignatureService, log *logrus.Logger) *SignatureHandler {
	return &SignatureHandler{svc: svc, log: log}
}

type SignatureRequest struct {
	Folder string `json:"folder"`
}

type signatureError struct {
	Error string `json:"error"`
}

// Issue returns a signed upload credential. A missing or malformed body
// falls back to the default folder instead of failing.
func (h *SignatureHandler) Issue(c *gin.Context) {
	var req SignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Folder = ""
	}

	out, err := h.svc.Issue(c.Request.Context(), req.Folder)
	if err != nil {
		_ = c.Error(err)
		if utils.IsCode(err, utils.CodeMisconfigured) {
			h.log.WithError(err).WithField("error_code", utils.CodeMisconfigured).
				Error("cloudinary secrets are missing")
			c.JSON(http.StatusInternalServerError, signatureError{Error: utils.MessageOf(err)})
			return
		}
		h.log.WithError(err).Error("cloudinary-signature error")
		c.JSON(http.StatusInternalServerError, signatureError{Error: "Internal error"})
		return
	}

	c.JSON(http.StatusOK, out)
}
