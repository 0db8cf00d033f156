package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost trades hashing speed for brute-force resistance on stored
// passwords.
const bcryptCost = 12

func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares in constant time via bcrypt.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// HashOTP digests a code for at-rest comparison. A fast hash is fine
// here: codes expire in minutes and verification is attempt-limited.
func HashOTP(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func VerifyOTP(code, digest string) bool {
	return HashOTP(code) == digest
}

// GenerateOTPCode returns a uniformly random 6-digit code in
// [100000, 999999]. Codes never start with zero.
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(100000+n.Int64(), 10), nil
}
