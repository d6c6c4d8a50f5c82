// Package config loads MyDB server and CLI settings.
//
// Values are layered, lowest to highest: built-in defaults, a YAML file,
// MYDB_* environment variables, then command-line flags.
package config

import (
	"time"

	"github.com/nickyhof/MyDB/db"
)

// Config holds all configuration options.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Auth   AuthConfig   `koanf:"auth"`
	Log    LogConfig    `koanf:"log"`
	S3     db.S3Config  `koanf:"s3"`
	Cache  CacheConfig  `koanf:"cache"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	HTTPAddr        string        `koanf:"http_addr"` // empty disables the HTTP API
	TLSCert         string        `koanf:"tls_cert"`
	TLSKey          string        `koanf:"tls_key"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// AuthConfig configures JWT authentication of server connections.
type AuthConfig struct {
	Enabled    bool   `koanf:"enabled"`
	JWTSecret  string `koanf:"jwt_secret"` // HS256/384/512 shared secret
	Issuer     string `koanf:"issuer"`
	Audience   string `koanf:"audience"`
	NameClaim  string `koanf:"name_claim"`
	EmailClaim string `koanf:"email_claim"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // text or json
}

type CacheConfig struct {
	Statements int `koanf:"statements"` // prepared statements kept per session
}

const (
	DefaultAddr            = ":3306"
	DefaultShutdownTimeout = 5 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultNameClaim       = "name"
	DefaultEmailClaim      = "email"
)

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.addr":             DefaultAddr,
		"server.http_addr":        "",
		"server.shutdown_timeout": DefaultShutdownTimeout.String(),
		"auth.enabled":            false,
		"auth.name_claim":         DefaultNameClaim,
		"auth.email_claim":        DefaultEmailClaim,
		"log.level":               DefaultLogLevel,
		"log.format":              DefaultLogFormat,
		"cache.statements":        db.DefaultStatementCacheSize,
	}
}
