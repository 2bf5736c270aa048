package utils_test

import (
	"strings"
	"testing"

	"intellilearn-backend/pkg/utils"

	"github.com/stretchr/testify/assert"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := utils.HashPassword("password123")
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, utils.CheckPasswordHash("password123", hash))
	assert.False(t, utils.CheckPasswordHash("wrong", hash))
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := utils.GenerateJWT("64f1a2b3c4d5e6f7a8b9c0d1", "instructor")
	assert.NoError(t, err)

	claims, err := utils.ValidateJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, "64f1a2b3c4d5e6f7a8b9c0d1", claims.UserID)
	assert.Equal(t, "instructor", claims.Role)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	_, err := utils.ValidateJWT("not.a.token")
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	slug := utils.Slugify("Advanced Go: Concurrency & Channels!")

	assert.True(t, strings.HasPrefix(slug, "advanced-go-concurrency-channels-"))
	assert.Equal(t, strings.ToLower(slug), slug)
	// Random suffix keeps two courses with the same title apart.
	assert.NotEqual(t, slug, utils.Slugify("Advanced Go: Concurrency & Channels!"))
}
