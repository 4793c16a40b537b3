package handlers

import (
	"context"
	"errors"
	"net/http"

	"vexstorm/models"
	"vexstorm/services/contact"
	"vexstorm/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ContactService interface {
	Submit(ctx context.Context, req models.ContactRequest) error
}

type ContactHandler struct {
	Service ContactService
}

func NewContactHandler(svc ContactService) *ContactHandler {
	return &ContactHandler{Service: svc}
}

// SubmitContactHandler handles POST /contact.
func (h *ContactHandler) SubmitContactHandler(c *gin.Context) {
	logger := getLogger(c)
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, msg := bindError(err)
		utils.JSONError(c, status, msg)
		return
	}

	if err := h.Service.Submit(c.Request.Context(), req); err != nil {
		var verr *contact.ValidationError
		if errors.As(err, &verr) {
			utils.JSONError(c, http.StatusBadRequest, verr.Message)
			return
		}
		logger.Error("Contact submission failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to submit inquiry")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Inquiry received. We will be in touch soon."})
}
