package handlers

import (
	"context"
	"net/http"

	"vexstorm/models"
	"vexstorm/services/registration"
	"vexstorm/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RegistrationService interface {
	Submit(ctx context.Context, req models.RegistrationRequest) (*models.RegistrationResult, error)
}

type RegistrationHandler struct {
	Service RegistrationService
}

func NewRegistrationHandler(svc RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{Service: svc}
}

// ManualRegisterHandler handles POST /manual-register.
func (h *RegistrationHandler) ManualRegisterHandler(c *gin.Context) {
	logger := getLogger(c)
	var req models.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, msg := bindError(err)
		utils.JSONFailure(c, status, msg)
		return
	}

	result, err := h.Service.Submit(c.Request.Context(), req)
	if err != nil {
		if rej, ok := registration.AsRejection(err); ok {
			utils.JSONFailure(c, http.StatusBadRequest, rej.Message)
			return
		}
		logger.Error("Registration failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "registration failed, please try again")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "registrationId": result.RegistrationID})
}
