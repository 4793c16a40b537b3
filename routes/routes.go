package routes

import (
	"net/http"
	"slices"
	"time"

	"vexstorm/config"
	"vexstorm/handlers"
	"vexstorm/middleware"
	"vexstorm/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Limiters are the per-group request caps.
type Limiters struct {
	General  *middleware.RateLimiter
	Auth     *middleware.RateLimiter
	Register *middleware.RateLimiter
	OTP      *middleware.RateLimiter
}

func NewLimiters(cfg config.Config) Limiters {
	return Limiters{
		General: middleware.NewRateLimiter(middleware.RateLimitRule{
			Name: "general", Limit: cfg.GeneralRateLimit, Window: cfg.GeneralRateWindow,
			Message: "Too many requests, please try again later.",
		}),
		Auth: middleware.NewRateLimiter(middleware.RateLimitRule{
			Name: "auth", Limit: cfg.AuthRateLimit, Window: cfg.AuthRateWindow,
			Message: "Too many attempts. Please wait a while.",
		}),
		Register: middleware.NewRateLimiter(middleware.RateLimitRule{
			Name: "register", Limit: cfg.RegisterRateLimit, Window: cfg.RegisterRateWindow,
			Message: "Registration limit exceeded for this device/network.",
		}),
		OTP: middleware.NewRateLimiter(middleware.RateLimitRule{
			Name: "otp", Limit: cfg.OTPRateLimit, Window: cfg.OTPRateWindow,
			Message: "Too many OTP requests. Please try again later.",
		}),
	}
}

func corsConfig(origins []string) cors.Config {
	allowAll := slices.Contains(origins, "*")
	return cors.Config{
		// File pages send the literal "null" origin.
		AllowOriginFunc: func(origin string) bool {
			return allowAll || origin == "null" || slices.Contains(origins, origin)
		},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterOTPRoutes registers the email verification endpoints.
func RegisterOTPRoutes(r *gin.Engine, hb *handlers.HandlerBundle, lim Limiters) {
	r.POST("/send-otp", lim.OTP.Middleware(), hb.SendOTPHandler)
	r.POST("/verify-otp", lim.Auth.Middleware(), hb.VerifyOTPHandler)
}

// RegisterSubmissionRoutes registers the registration and contact forms.
func RegisterSubmissionRoutes(r *gin.Engine, hb *handlers.HandlerBundle, lim Limiters) {
	r.POST("/manual-register", lim.Register.Middleware(), hb.ManualRegisterHandler)
	r.POST("/contact", lim.Auth.Middleware(), hb.ContactHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, cfg config.Config, logger *zap.Logger) {
	lim := NewLimiters(cfg)

	r.Use(utils.ErrorHandler(logger))
	r.Use(middleware.ResolveClientIP(cfg.TrustedProxyHops))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.SecurityHeaders(cfg.Env == "production"))
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	r.Use(lim.General.Middleware())
	r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	RegisterHealthRoute(r, hb)
	RegisterOTPRoutes(r, hb, lim)
	RegisterSubmissionRoutes(r, hb, lim)

	r.NoRoute(func(c *gin.Context) {
		utils.JSONError(c, http.StatusNotFound, "route not found")
	})
}

// NewRouter builds the engine and wraps it with path normalization, which
// must run before gin picks a route.
func NewRouter(hb *handlers.HandlerBundle, cfg config.Config, logger *zap.Logger) http.Handler {
	r := gin.New()
	RegisterRoutes(r, hb, cfg, logger)
	return middleware.NormalizePath(r, cfg.PathPrefixes)
}
