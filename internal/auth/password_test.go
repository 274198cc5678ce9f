package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashSecret_RoundTrip(t *testing.T) {
	hash, err := HashSecret("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, CompareSecret(hash, "s3cret"))
	assert.ErrorIs(t, CompareSecret(hash, "wrong"), bcrypt.ErrMismatchedHashAndPassword)
}

func TestHashSecret_InvalidCostFallsBack(t *testing.T) {
	hash, err := HashSecret("s3cret", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
