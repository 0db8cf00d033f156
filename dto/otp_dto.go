package dto

type VerifyOTPRequest struct {
	OTPCode string `json:"otpCode" binding:"required,otpcode"`
}
