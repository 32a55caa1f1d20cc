package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequest_Valid(t *testing.T) {
	req := RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "supersecret"}
	require.NoError(t, req.Validate())
}

func TestRegisterRequest_MissingEmail(t *testing.T) {
	req := RegisterRequest{Name: "Ana", Password: "supersecret"}
	assert.Error(t, req.Validate())
}

func TestRegisterRequest_ShortPassword(t *testing.T) {
	req := RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "short"}
	assert.Error(t, req.Validate())
}

func TestLoginRequest_InvalidEmail(t *testing.T) {
	req := LoginRequest{Email: "not-an-email", Password: "whatever"}
	assert.Error(t, req.Validate())
}

func TestLoginRequest_Valid(t *testing.T) {
	req := LoginRequest{Email: "ana@example.com", Password: "whatever"}
	require.NoError(t, req.Validate())
}
