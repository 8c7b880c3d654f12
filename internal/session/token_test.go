package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	now := time.Now()

	tok, exp, err := tokens.Sign("game-1", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	id, err := tokens.GameID(tok)
	require.NoError(t, err)
	assert.Equal(t, "game-1", id)
}

func TestRejectsOtherSecret(t *testing.T) {
	tok, _, err := NewTokens("one", time.Hour).Sign("game-1", time.Now())
	require.NoError(t, err)

	_, err = NewTokens("two", time.Hour).GameID(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRejectsExpired(t *testing.T) {
	tokens := NewTokens("test-secret", time.Minute)
	tok, _, err := tokens.Sign("game-1", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = tokens.GameID(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRejectsGarbageAndEmptyGame(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	_, err := tokens.GameID("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	tok, _, err := tokens.Sign("", time.Now())
	require.NoError(t, err)
	_, err = tokens.GameID(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRejectsNoneAlgorithm(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{GameID: "game-1"})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokens("test-secret", time.Hour).GameID(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDefaultTTL(t *testing.T) {
	now := time.Now()
	_, exp, err := NewTokens("s", 0).Sign("g", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), exp)
}
