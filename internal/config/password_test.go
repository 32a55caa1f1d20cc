package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPasswordConfig(t *testing.T) *PasswordConfig {
	t.Helper()
	// Minimum allowed cost keeps the bcrypt work factor cheap in tests.
	return &PasswordConfig{BcryptCost: 10}
}

func TestNewPasswordConfig_Defaults(t *testing.T) {
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("PASSWORD_PEPPER", "")

	cfg, err := NewPasswordConfig()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Empty(t, cfg.Pepper)
}

func TestNewPasswordConfig_CostOutOfRange(t *testing.T) {
	t.Setenv("BCRYPT_COST", "9")
	_, err := NewPasswordConfig()
	assert.Error(t, err)

	t.Setenv("BCRYPT_COST", "15")
	_, err = NewPasswordConfig()
	assert.Error(t, err)
}

func TestHashPassword_ProducesVerifiableHash(t *testing.T) {
	cfg := testPasswordConfig(t)

	hash, err := cfg.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2"))

	assert.True(t, cfg.VerifyPassword("correct horse battery staple", hash))
	assert.False(t, cfg.VerifyPassword("wrong password", hash))
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	cfg := testPasswordConfig(t)

	first, err := cfg.HashPassword("same input")
	require.NoError(t, err)
	second, err := cfg.HashPassword("same input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyPassword_PepperMismatch(t *testing.T) {
	peppered := &PasswordConfig{BcryptCost: 10, Pepper: "global-secret"}
	plain := testPasswordConfig(t)

	hash, err := peppered.HashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, peppered.VerifyPassword("hunter2", hash))
	assert.False(t, plain.VerifyPassword("hunter2", hash))
}

func TestVerifyPassword_GarbageHash(t *testing.T) {
	cfg := testPasswordConfig(t)
	assert.False(t, cfg.VerifyPassword("whatever", "not-a-bcrypt-hash"))
}
