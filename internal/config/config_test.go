// ABOUTME: Tests for configuration loading and validation
// ABOUTME: Covers env var expansion, duration parsing, and required field checks

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orderd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Complete(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: ":8080"
database:
  path: /tmp/orderd.db
auth:
  jwt_secret: supersecret
  token_ttl: 12h
factory:
  url: https://pizza-factory.example.com
  api_key: factory-key
  timeout: 5s
metrics:
  enabled: true
  path: /metrics
rate_limit:
  enabled: true
  login_per_second: 2
  login_burst: 10
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, "/tmp/orderd.db", cfg.Database.Path)
	assert.Equal(t, "supersecret", cfg.Auth.JWTSecret)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5*time.Second, cfg.Factory.Timeout)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 2.0, cfg.RateLimit.LoginPerSecond)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("ORDERD_TEST_SECRET", "from-env")
	path := writeConfig(t, `
server:
  http_addr: ":8080"
database:
  path: /tmp/orderd.db
auth:
  jwt_secret: ${ORDERD_TEST_SECRET}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}

func TestLoad_MissingSecret(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: ":8080"
database:
  path: /tmp/orderd.db
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "auth.jwt_secret is required")
}

func TestLoad_MissingAddr(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/orderd.db
auth:
  jwt_secret: supersecret
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "server.http_addr is required")
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: ":8080"
database:
  path: /tmp/orderd.db
auth:
  jwt_secret: supersecret
  token_ttl: not-a-duration
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing token_ttl")
}

func TestLoad_FileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidRateLimit(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: ":8080"
database:
  path: /tmp/orderd.db
auth:
  jwt_secret: supersecret
rate_limit:
  enabled: true
  login_per_second: 0
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "login_per_second")
}
