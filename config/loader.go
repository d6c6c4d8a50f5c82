package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable the loader reads.
// MYDB_SERVER_HTTP_ADDR maps to server.http_addr.
const EnvPrefix = "MYDB_"

// configFileNames are looked up in the working directory when no file is
// given explicitly.
var configFileNames = []string{"mydb.yaml", "mydb.yml"}

// flagKeys maps flag names registered by RegisterFlags to config keys.
var flagKeys = map[string]string{
	"addr":             "server.addr",
	"http-addr":        "server.http_addr",
	"tls-cert":         "server.tls_cert",
	"tls-key":          "server.tls_key",
	"shutdown-timeout": "server.shutdown_timeout",
	"auth":             "auth.enabled",
	"jwt-secret":       "auth.jwt_secret",
	"jwt-issuer":       "auth.issuer",
	"jwt-audience":     "auth.audience",
	"log-level":        "log.level",
	"log-format":       "log.format",
	"s3-region":        "s3.region",
	"s3-endpoint":      "s3.endpoint",
	"cache-size":       "cache.statements",
}

// RegisterFlags adds the flags Load understands to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("addr", DefaultAddr, "TCP address to listen on")
	flags.String("http-addr", "", "HTTP API address (disabled if empty)")
	flags.String("tls-cert", "", "TLS certificate file")
	flags.String("tls-key", "", "TLS private key file")
	flags.Duration("shutdown-timeout", DefaultShutdownTimeout, "Graceful shutdown timeout")
	flags.Bool("auth", false, "Require AUTH JWT before other commands")
	flags.String("jwt-secret", "", "Shared secret for HS256 JWT validation")
	flags.String("jwt-issuer", "", "Expected JWT issuer")
	flags.String("jwt-audience", "", "Expected JWT audience")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")
	flags.String("log-format", DefaultLogFormat, "Log format (text, json)")
	flags.String("s3-region", "", "S3 region for s3:// sources")
	flags.String("s3-endpoint", "", "Custom S3-compatible endpoint")
	flags.Int("cache-size", 0, "Prepared statements cached per session")
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// envKey turns MYDB_SECTION_SOME_KEY into section.some_key.
func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// Load reads configuration from defaults, cfgFile (or a mydb.yaml found in
// the working directory), the environment and flags. Only flags that were
// set on the command line override lower layers. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
