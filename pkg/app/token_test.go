package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenGenerateAndParse(t *testing.T) {
	tm := NewTokenManager(TokenConfig{
		SecretKey: "test-secret",
		Expiry:    time.Hour,
	})

	token, err := tm.Generate(7, "alice", "127.0.0.1")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	user, err := tm.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), user.UID)
	assert.Equal(t, "alice", user.Username)
}

func TestTokenWrongKey(t *testing.T) {
	tm := NewTokenManager(TokenConfig{SecretKey: "key-a"})

	token, err := tm.Generate(1, "bob", "")
	assert.NoError(t, err)

	_, err = ParseTokenWithKey(token, "key-b")
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager(TokenConfig{
		SecretKey: "test-secret",
		Expiry:    -time.Minute,
	})

	token, err := tm.Generate(1, "carol", "")
	assert.NoError(t, err)

	_, err = tm.Parse(token)
	assert.Error(t, err)
}
