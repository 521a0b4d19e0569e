package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-session-testing"

func TestNewSessionToken(t *testing.T) {
	token, sessionID, err := NewSessionToken(testSecret, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = uuid.Parse(sessionID)
	assert.NoError(t, err)

	claims, err := ParseSessionToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID())
	assert.True(t, claims.IssuedAt.Before(claims.ExpiresAt.Time))
}

func TestParseSessionToken(t *testing.T) {
	sessionID := uuid.NewString()
	valid, err := SignSessionToken(sessionID, testSecret, time.Hour)
	require.NoError(t, err)

	notUUID, err := SignSessionToken("cart-1", testSecret, time.Hour)
	require.NoError(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sessionID,
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	foreignToken, err := foreign.SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{name: "Valid token", token: valid, secret: testSecret},
		{name: "Wrong secret", token: valid, secret: "wrong-secret", wantErr: ErrInvalidToken},
		{name: "Malformed token", token: "invalid.token.format", secret: testSecret, wantErr: ErrInvalidToken},
		{name: "Empty token", token: "", secret: testSecret, wantErr: ErrInvalidToken},
		{name: "Subject is not a uuid", token: notUUID, secret: testSecret, wantErr: ErrInvalidToken},
		{name: "Other issuer", token: foreignToken, secret: testSecret, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ParseSessionToken(tt.token, tt.secret)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, sessionID, claims.SessionID())
		})
	}
}

func TestExpiredSessionToken(t *testing.T) {
	token, err := SignSessionToken(uuid.NewString(), testSecret, -time.Minute)
	require.NoError(t, err)

	claims, err := ParseSessionToken(token, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}
