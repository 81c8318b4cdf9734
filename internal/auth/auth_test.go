package auth

import (
	"testing"
	"time"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenManager(t *testing.T) {
	user := &domain.User{ID: "u1", AccountID: "acc-1", Role: domain.RoleAdmin}

	t.Run("выпуск и проверка токена", func(t *testing.T) {
		m := NewTokenManager("secret", time.Hour)

		token, expiresAt, err := m.GenerateToken(user)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

		claims, err := m.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		assert.Equal(t, "acc-1", claims.AccountID)
		assert.Equal(t, domain.RoleAdmin, claims.Role)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("ошибка: чужой секрет", func(t *testing.T) {
		token, _, err := NewTokenManager("secret", time.Hour).GenerateToken(user)
		require.NoError(t, err)

		_, err = NewTokenManager("other", time.Hour).ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("ошибка: истекший токен", func(t *testing.T) {
		m := NewTokenManager("secret", time.Minute)
		m.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, _, err := m.GenerateToken(user)
		require.NoError(t, err)

		_, err = NewTokenManager("secret", time.Minute).ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("ошибка: мусор вместо токена", func(t *testing.T) {
		_, err := NewTokenManager("secret", time.Hour).ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", hash)

	assert.True(t, VerifyPassword("Secret123", hash))
	assert.False(t, VerifyPassword("secret123", hash))
}

func TestSimulatePasswordCheck(t *testing.T) {
	hash, err := HashPassword("Secret123")
	require.NoError(t, err)

	realCost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	dummyCost, err := bcrypt.Cost(dummyHash())
	require.NoError(t, err)
	assert.Equal(t, realCost, dummyCost, "проверка для неизвестного email стоит столько же")

	assert.NotPanics(t, func() { SimulatePasswordCheck("Secret123") })
	assert.False(t, VerifyPassword("leadpipe-unknown", string(dummyHash())))
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid", password: "Secret123", wantErr: false},
		{name: "too short", password: "Se1", wantErr: true},
		{name: "no upper", password: "secret123", wantErr: true},
		{name: "no lower", password: "SECRET123", wantErr: true},
		{name: "no digit", password: "SecretPass", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
