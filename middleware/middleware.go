package middleware

import (
	"bazaar/domain"
	"bazaar/utils"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by the guards for downstream handlers.
const (
	CtxUserID      = "userId"
	CtxEmail       = "email"
	CtxRole        = "role"
	CtxOTPVerified = "otpVerified"
	CtxSessionType = "sessionType"
)

func bearerToken(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// AuthRequired validates the bearer token and attaches the decoded
// identity to the request context.
func AuthRequired(tokens *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := tokens.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// SellerElevatedRequired validates the bearer token and additionally
// requires a SELLER role with a completed OTP elevation. The elevation
// failure carries requiresOTP so clients can distinguish "go do the
// OTP flow" from a plain authorization failure.
func SellerElevatedRequired(tokens *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := tokens.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		if claims.Role != domain.RoleSeller {
			c.JSON(http.StatusForbidden, gin.H{
				"message": "Seller access required",
			})
			c.Abort()
			return
		}

		if !claims.OTPVerified || claims.SessionType != domain.SessionTypeSeller {
			c.JSON(http.StatusForbidden, gin.H{
				"message":     "OTP verification required for seller dashboard access",
				"requiresOTP": true,
			})
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxOTPVerified, claims.OTPVerified)
		c.Set(CtxSessionType, claims.SessionType)
		c.Next()
	}
}
