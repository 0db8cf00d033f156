package utils

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-password", hash)

	assert.True(t, CheckPassword(hash, "s3cret-password"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
}

func TestHashOTPDeterministic(t *testing.T) {
	digest := HashOTP("483920")
	assert.Equal(t, digest, HashOTP("483920"))
	assert.Len(t, digest, 64) // sha256 hex

	assert.True(t, VerifyOTP("483920", digest))
	assert.False(t, VerifyOTP("000000", digest))
}

func TestGenerateOTPCodeRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateOTPCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		// Leading-zero codes are excluded by the generator.
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}
