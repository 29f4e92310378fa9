package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateYParse(t *testing.T) {
	token, err := jwt.Generate(secret, "u-1", "owner-a", "admin", "ventas-api", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "owner-a", claims.OwnerID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "ventas-api", claims.Issuer)
}

func TestParse_Rechazos(t *testing.T) {
	token, err := jwt.Generate(secret, "u-1", "owner-a", "admin", "ventas-api", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secret", token)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	expired, err := jwt.Generate(secret, "u-1", "owner-a", "admin", "ventas-api", -1)
	require.NoError(t, err)
	_, err = jwt.Parse(secret, expired)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	noOwner, err := jwt.Generate(secret, "u-1", "", "admin", "ventas-api", 5)
	require.NoError(t, err)
	_, err = jwt.Parse(secret, noOwner)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, err = jwt.Generate("", "u-1", "owner-a", "admin", "ventas-api", 5)
	assert.Error(t, err)
}
