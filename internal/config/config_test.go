package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "MzItYnl0ZS1zZWNyZXQtZm9yLXRlc3Rpbmctb25seSEh"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_SECONDS", "")
	t.Setenv("AUTH_REFRESH_TOKEN_TTL_SECONDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, 86400, cfg.Auth.AccessTokenTTLSeconds)
	assert.Equal(t, 604800, cfg.Auth.RefreshTokenTTLSeconds)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL())
}

func TestLoad_OverridesLifetimes(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_SECONDS", "60")
	t.Setenv("AUTH_REFRESH_TOKEN_TTL_SECONDS", "3600")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.Auth.AccessTTL())
	assert.Equal(t, time.Hour, cfg.Auth.RefreshTTL())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")
}

func TestValidate_NonPositiveLifetimes(t *testing.T) {
	cfg := &Config{
		App:  AppConfig{Port: "8080"},
		Auth: AuthConfig{JWTSecret: testSecret, AccessTokenTTLSeconds: 0, RefreshTokenTTLSeconds: -1},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_ACCESS_TOKEN_TTL_SECONDS")
	assert.Contains(t, err.Error(), "AUTH_REFRESH_TOKEN_TTL_SECONDS")
}

func TestRedisConfig_ClientCacheTTL(t *testing.T) {
	assert.Equal(t, time.Duration(0), RedisConfig{}.ClientCacheTTL())
	assert.Equal(t, 5*time.Minute, RedisConfig{ClientCacheTTLSeconds: 300}.ClientCacheTTL())
}

func TestAppConfig_Addr(t *testing.T) {
	a := AppConfig{Host: "127.0.0.1", Port: "9090"}
	assert.Equal(t, "127.0.0.1:9090", a.Addr())
	assert.Equal(t, time.Duration(0), a.RequestTimeout())
}
