package delivery

import (
	"bazaar/domain"
	"bazaar/dto"
	"bazaar/middleware"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type OTPHandler struct {
	otpUC domain.OTPUseCase
}

func NewOTPHandler(r *gin.Engine, otpUC domain.OTPUseCase, authGuard gin.HandlerFunc) {
	handler := &OTPHandler{otpUC: otpUC}

	// Every OTP endpoint requires a valid base token; role eligibility
	// is the engine's decision.
	grp := r.Group("/api/otp")
	grp.Use(authGuard)
	{
		grp.POST("/generate-otp", handler.Generate)
		grp.POST("/verify-otp", handler.Verify)
		grp.POST("/resend-otp", handler.Resend)
	}
}

func (h *OTPHandler) Generate(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	email := c.GetString(middleware.CtxEmail)
	role := c.GetString(middleware.CtxRole)

	issue, err := h.otpUC.RequestChallenge(c.Request.Context(), userID, email, role)
	if err != nil {
		h.respondIssueError(c, err)
		return
	}

	h.respondIssued(c, issue)
}

func (h *OTPHandler) Resend(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	email := c.GetString(middleware.CtxEmail)
	role := c.GetString(middleware.CtxRole)

	issue, err := h.otpUC.ResendChallenge(c.Request.Context(), userID, email, role)
	if err != nil {
		h.respondIssueError(c, err)
		return
	}

	h.respondIssued(c, issue)
}

func (h *OTPHandler) Verify(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Please provide a valid 6-digit OTP",
		})
		return
	}

	userID := c.GetString(middleware.CtxUserID)
	email := c.GetString(middleware.CtxEmail)
	role := c.GetString(middleware.CtxRole)

	result, err := h.otpUC.VerifyChallenge(c.Request.Context(), userID, email, role, req.OTPCode)
	if err != nil {
		var invalidCode *domain.InvalidCodeError
		switch {
		case errors.Is(err, domain.ErrOTPInvalidFormat):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Please provide a valid 6-digit OTP",
			})
		case errors.Is(err, domain.ErrNoChallenge):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "No OTP found. Please request a new one.",
			})
		case errors.Is(err, domain.ErrOTPExpired):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "OTP has expired. Please request a new one.",
			})
		case errors.Is(err, domain.ErrAttemptsExhausted):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Too many failed attempts. Please request a new OTP.",
			})
		case errors.As(err, &invalidCode):
			c.JSON(http.StatusBadRequest, gin.H{
				"message":           "Invalid OTP code",
				"attemptsRemaining": invalidCode.AttemptsRemaining,
			})
		default:
			log.Error().Err(err).Str("userId", userID).Msg("verify otp failed")
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Failed to verify OTP",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "OTP verified successfully",
		"sellerToken": result.SellerToken,
		"verified":    true,
	})
}

func (h *OTPHandler) respondIssued(c *gin.Context, issue *domain.OTPIssue) {
	resp := gin.H{
		"message": "OTP sent to your email address",
		"email":   issue.Email,
	}
	if issue.DevelopmentOTP != "" {
		resp["developmentOTP"] = issue.DevelopmentOTP
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OTPHandler) respondIssueError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRoleNotEligible):
		c.JSON(http.StatusForbidden, gin.H{
			"message": "Only sellers can request OTP verification",
		})
	case errors.Is(err, domain.ErrOTPRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"message": "Too many OTP requests. Please try again in an hour.",
		})
	case errors.Is(err, domain.ErrOTPCooldown):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"message": "Please wait 2 minutes before requesting a new OTP",
		})
	default:
		log.Error().Err(err).Msg("generate otp failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to generate OTP",
		})
	}
}
