package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/v2"
)

const (
	portKey        = "port"
	appNameKey     = "app_name"
	folderKey      = "folder"
	baseURLKey     = "base_url"
	envKey         = "env"
	logLevelKey    = "log_level"
	traceStdoutKey = "trace_stdout"
)

type EnvVars struct {
	k *koanf.Koanf
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := stringValue(e.k, portKey, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return stringValue(e.k, appNameKey, "Route Finder")
}

func (e EnvVars) GetDataFolder() string {
	return stringValue(e.k, folderKey, "./data")
}

func (e EnvVars) GetEnv() string {
	return stringValue(e.k, envKey, "DEV")
}

// GetBaseURL returns the public URL of this web front end (e.g., "https://maps.example.com")
func (e EnvVars) GetBaseURL() string {
	return stringValue(e.k, baseURLKey, "http://localhost:8080")
}

func (e EnvVars) GetLogLevel() string {
	return stringValue(e.k, logLevelKey, "info")
}

// GetTraceStdout enables the stdout span exporter.
func (e EnvVars) GetTraceStdout() bool {
	return boolValue(e.k, traceStdoutKey, false)
}
