package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identity "github.com/moodymap/go-identity"
)

func TestHasherHashAndCompare(t *testing.T) {
	ctx := context.Background()
	hasher := identity.NewHasher(4, 0)

	hash, err := hasher.HashPassword(ctx, "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "secret123", hash)

	require.NoError(t, hasher.ComparePasswordAndHash(ctx, "secret123", hash))

	err = hasher.ComparePasswordAndHash(ctx, "wrong", hash)
	require.ErrorIs(t, err, identity.ErrMismatchedHashAndPassword)
}

func TestHasherRejectsEmptyPassword(t *testing.T) {
	hasher := identity.NewHasher(4, 0)

	_, err := hasher.HashPassword(context.Background(), "")
	require.ErrorIs(t, err, identity.ErrNoEmptyPassword)
}

func TestHasherSaltsEveryHash(t *testing.T) {
	ctx := context.Background()
	hasher := identity.NewHasher(4, 0)

	first, err := hasher.HashPassword(ctx, "secret123")
	require.NoError(t, err)

	second, err := hasher.HashPassword(ctx, "secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestRandomPasswordHashIsUnpredictable(t *testing.T) {
	ctx := context.Background()
	hasher := identity.NewHasher(4, 0)

	first, err := hasher.RandomPasswordHash(ctx)
	require.NoError(t, err)

	second, err := hasher.RandomPasswordHash(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHasherHonorsCanceledContext(t *testing.T) {
	hasher := identity.NewHasher(4, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := hasher.HashPassword(ctx, "secret123")
	require.Error(t, err)
}
