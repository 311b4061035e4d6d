package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// configFileVar names an optional YAML file whose keys mirror the lower-cased
// environment variable names (e.g. api_base_url). Environment variables win.
const configFileVar = "CONFIG_FILE"

type Config interface {
	EnvConfig
	CorsConfig
	GatewayConfig
	SecurityConfig
	SearchConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetEnv() string
	GetBaseURL() string
	GetLogLevel() string
	GetTraceStdout() bool
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Gateway
	Security
	Search
}

// New loads the configuration from the optional config file and the environment.
func New() (Config, error) {
	k, err := load()
	if err != nil {
		return nil, err
	}
	return mainConfig{
		EnvVars:  EnvVars{k: k},
		Cors:     Cors{k: k},
		Gateway:  Gateway{k: k},
		Security: Security{k: k},
		Search:   Search{k: k},
	}, nil
}

func load() (*koanf.Koanf, error) {
	k := koanf.New(".")

	if path := os.Getenv(configFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("[config load] failed to load config file %s: %w", path, err)
		}
	}

	// API_BASE_URL -> api_base_url, empty variables are skipped
	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		if value == "" {
			return "", nil
		}
		return strings.ToLower(key), value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("[config load] failed to load environment variables: %w", err)
	}
	return k, nil
}

func stringValue(k *koanf.Koanf, key, defaultValue string) string {
	if k == nil {
		return defaultValue
	}
	if value := k.String(key); value != "" {
		return value
	}
	return defaultValue
}

func boolValue(k *koanf.Koanf, key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(stringValue(k, key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func intValue(k *koanf.Koanf, key string, defaultValue int) int {
	value, err := strconv.Atoi(stringValue(k, key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func durationValue(k *koanf.Koanf, key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(stringValue(k, key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}
