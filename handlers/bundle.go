package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	HealthHandler gin.HandlerFunc

	// OTP endpoints
	SendOTPHandler   gin.HandlerFunc
	VerifyOTPHandler gin.HandlerFunc

	// Registration endpoints
	ManualRegisterHandler gin.HandlerFunc

	// Contact endpoints
	ContactHandler gin.HandlerFunc
}
