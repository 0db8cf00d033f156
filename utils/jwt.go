package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the single error VerifyToken reports. Signature
// mismatch, expiry and malformed input are deliberately not
// distinguished so callers cannot be used as an oracle.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the payload carried by every bazaar token. OTPVerified and
// SessionType are set only on elevated seller-session tokens.
type Claims struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	OTPVerified bool   `json:"otpVerified,omitempty"`
	SessionType string `json:"sessionType,omitempty"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
}

func NewJWTManager(secretKey string, duration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: duration,
	}
}

// GenerateToken signs a base session token for the given identity.
func (j *JWTManager) GenerateToken(userID, email, role string) (string, error) {
	return j.sign(&Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
	})
}

// GenerateSellerToken signs an elevated seller-session token. The
// elevation flags are what SellerElevatedRequired checks on product
// mutations.
func (j *JWTManager) GenerateSellerToken(userID, email, role, sessionType string) (string, error) {
	return j.sign(&Claims{
		UserID:      userID,
		Email:       email,
		Role:        role,
		OTPVerified: true,
		SessionType: sessionType,
	})
}

func (j *JWTManager) sign(claims *Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// VerifyToken parses and validates a token, returning its claims.
func (j *JWTManager) VerifyToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return j.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || claims.Role == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
