package services

import (
	"testing"

	"propman-http-service/config"
	"propman-http-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAndExtract(t *testing.T) {
	svc := NewJWTService(newTestConfig())

	token, err := svc.GenerateToken(42, models.RoleManager)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, models.RoleManager, claims.Role)
	assert.Equal(t, "propman-http-service", claims.Issuer)
}

func TestJWTService_RejectsTamperedToken(t *testing.T) {
	svc := NewJWTService(newTestConfig())

	token, err := svc.GenerateToken(42, models.RoleManager)
	require.NoError(t, err)

	_, err = svc.ExtractClaims(token + "x")
	assert.Error(t, err)

	_, err = svc.ExtractClaims("not-a-token")
	assert.Error(t, err)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	svc := NewJWTService(newTestConfig())
	other := NewJWTService(&config.Config{JWTSecretKey: "another-secret"})

	token, err := svc.GenerateToken(7, models.RoleTenant)
	require.NoError(t, err)

	_, err = other.ExtractClaims(token)
	assert.Error(t, err)
}
