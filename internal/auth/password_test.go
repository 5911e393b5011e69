package auth_test

import (
	"testing"

	"backend/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	first, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	second, err := auth.HashPassword("s3cret")
	require.NoError(t, err)

	// bcrypt salts every hash, so identical inputs never collide.
	assert.NotEqual(t, first, second)
	assert.NotEqual(t, "s3cret", first)

	assert.True(t, auth.CheckPasswordHash("s3cret", first))
	assert.True(t, auth.CheckPasswordHash("s3cret", second))
	assert.False(t, auth.CheckPasswordHash("wrong", first))
	assert.False(t, auth.CheckPasswordHash("", first))
}
