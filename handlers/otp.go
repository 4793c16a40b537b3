package handlers

import (
	"context"
	"net/http"

	"vexstorm/services/otp"
	"vexstorm/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OTPService is the verification-code unit used by the OTP endpoints.
type OTPService interface {
	RequestCode(ctx context.Context, email, name string) error
	VerifyCode(ctx context.Context, email, code string) error
}

type OTPHandler struct {
	Service OTPService
}

func NewOTPHandler(svc OTPService) *OTPHandler {
	return &OTPHandler{Service: svc}
}

// SendOTPHandler handles POST /send-otp.
func (h *OTPHandler) SendOTPHandler(c *gin.Context) {
	logger := getLogger(c)
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		status, msg := bindError(err)
		utils.JSONError(c, status, msg)
		return
	}

	if err := h.Service.RequestCode(c.Request.Context(), req.Email, req.Name); err != nil {
		if otp.IsRejection(err) {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("Failed to send verification code", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to send verification email")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "OTP sent"})
}

// VerifyOTPHandler handles POST /verify-otp.
func (h *OTPHandler) VerifyOTPHandler(c *gin.Context) {
	logger := getLogger(c)
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		status, msg := bindError(err)
		utils.JSONError(c, status, msg)
		return
	}

	if err := h.Service.VerifyCode(c.Request.Context(), req.Email, req.OTP); err != nil {
		if otp.IsRejection(err) {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("Failed to verify code", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "verification failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "verified": true})
}
