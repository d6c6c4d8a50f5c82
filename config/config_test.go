package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickyhof/MyDB/db"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mydb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Empty(t, cfg.Server.HTTPAddr)
	assert.Equal(t, DefaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, DefaultNameClaim, cfg.Auth.NameClaim)
	assert.Equal(t, DefaultEmailClaim, cfg.Auth.EmailClaim)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, db.DefaultStatementCacheSize, cfg.Cache.Statements)
}

func TestLoadFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
server:
  addr: ":4000"
  http_addr: ":8080"
  shutdown_timeout: 10s
auth:
  enabled: true
  jwt_secret: secret
  issuer: mydb
log:
  level: debug
  format: json
s3:
  region: eu-west-1
cache:
  statements: 16
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.Server.Addr)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, "secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "mydb", cfg.Auth.Issuer)
	assert.Equal(t, DefaultNameClaim, cfg.Auth.NameClaim)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "eu-west-1", cfg.S3.Region)
	assert.Equal(t, 16, cfg.Cache.Statements)
}

func TestLoadFindsFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mydb.yml"), []byte("server:\n  addr: \":5000\"\n"), 0o600))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Server.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadPrecedence(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
server:
  addr: ":4000"
  http_addr: ":8080"
log:
  level: debug
`)
	t.Setenv("MYDB_SERVER_ADDR", ":4100")
	t.Setenv("MYDB_LOG_LEVEL", "warn")
	t.Setenv("MYDB_SERVER_HTTP_ADDR", ":8181")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{"--addr", ":4200"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	// flag beats env beats file
	assert.Equal(t, ":4200", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, ":8181", cfg.Server.HTTPAddr)
}

func TestLoadUnchangedFlagsKeepLowerLayers(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, "log:\n  format: json\ncache:\n  statements: 7\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{"--auth", "--jwt-secret", "s3cr3t"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 7, cfg.Cache.Statements)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, "s3cr3t", cfg.Auth.JWTSecret)
}

func TestLoadInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, "auth:\n  enabled: true\n")

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.jwt_secret is required")
}

func validConfig() Config {
	return Config{
		Server: ServerConfig{Addr: DefaultAddr},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing addr", func(c *Config) { c.Server.Addr = "" }, "server.addr is required"},
		{"tls cert without key", func(c *Config) { c.Server.TLSCert = "cert.pem" }, "must be set together"},
		{"negative timeout", func(c *Config) { c.Server.ShutdownTimeout = -time.Second }, "shutdown_timeout"},
		{"auth without secret", func(c *Config) { c.Auth.Enabled = true }, "jwt_secret"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, `unknown log level "loud"`},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, `unknown log format "xml"`},
		{"half s3 credentials", func(c *Config) { c.S3.AccessKey = "AKIA" }, "s3.access_key"},
		{"negative cache", func(c *Config) { c.Cache.Statements = -1 }, "cache.statements"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := Config{Log: LogConfig{Level: "loud", Format: "xml"}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.addr is required")
	assert.Contains(t, err.Error(), "unknown log level")
	assert.Contains(t, err.Error(), "unknown log format")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)

	buf.Reset()
	LogConfig{Level: "debug", Format: "text"}.NewLogger(&buf).Debug("details")
	assert.Contains(t, buf.String(), "msg=details")
}
