package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-session-testing"

func TestGenerateSessionToken(t *testing.T) {
	tests := []struct {
		name      string
		userID    uint
		sessionID string
		expiry    time.Duration
	}{
		{
			name:      "Regular user",
			userID:    1,
			sessionID: "3f1c2d5e-0000-4000-8000-000000000001",
			expiry:    time.Hour,
		},
		{
			name:      "Long lived session",
			userID:    2,
			sessionID: "3f1c2d5e-0000-4000-8000-000000000002",
			expiry:    14 * 24 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateSessionToken(tt.userID, tt.sessionID, testSecret, tt.expiry)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := ValidateToken(token, testSecret)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.sessionID, claims.ID)
			assert.True(t, claims.IssuedAt.Before(claims.ExpiresAt.Time))
		})
	}
}

func TestValidateToken(t *testing.T) {
	token, err := GenerateSessionToken(123, "session-123", testSecret, 15*time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{
			name:    "Valid token",
			token:   token,
			secret:  testSecret,
			wantErr: nil,
		},
		{
			name:    "Invalid secret",
			token:   token,
			secret:  "wrong-secret",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Invalid token format",
			token:   "invalid.token.format",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Empty token",
			token:   "",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				require.NotNil(t, claims)
				assert.Equal(t, uint(123), claims.UserID)
				assert.Equal(t, "session-123", claims.ID)
				assert.Equal(t, "123", claims.Subject)
			}
		})
	}
}

func TestExpiredToken(t *testing.T) {
	token, err := GenerateSessionToken(1, "session-1", testSecret, -time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestTokenWithoutSessionID(t *testing.T) {
	token, err := GenerateSessionToken(1, "", testSecret, time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
