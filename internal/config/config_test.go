package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("STAGE_COLOR_DEBOUNCE", "")

	cfg := Load()

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, time.Second, cfg.Pipeline.ColorDebounce)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("STAGE_COLOR_DEBOUNCE", "250ms")
	t.Setenv("HTTP_SECURE_COOKIES", "true")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 250*time.Millisecond, cfg.Pipeline.ColorDebounce)
	assert.True(t, cfg.Server.SecureCookies)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("DB_MAX_IDLE_CONNS", "many")
	t.Setenv("JWT_TTL", "forever")

	cfg := Load()

	assert.Equal(t, 2, cfg.Database.MaxIdleConns)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
}

func TestValidate_JWTSecret(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		secret  string
		wantErr bool
	}{
		{name: "production без секрета", env: "production", secret: "", wantErr: true},
		{name: "production с секретом по умолчанию", env: "production", secret: DefaultJWTSecret, wantErr: true},
		{name: "production с заданным секретом", env: "production", secret: "s3cr3t-from-vault"},
		{name: "разработка с секретом по умолчанию", env: "development", secret: DefaultJWTSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Env: tt.env, Auth: AuthConfig{JWTSecret: tt.secret}}
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInsecureJWTSecret)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoad_ProductionWithoutSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	cfg := Load()

	assert.Equal(t, DefaultJWTSecret, cfg.Auth.JWTSecret)
	assert.ErrorIs(t, cfg.Validate(), ErrInsecureJWTSecret)
}
