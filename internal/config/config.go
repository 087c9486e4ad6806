package config

import (
	"os"
	"time"

	"modelcatalog/internal/core"
	"modelcatalog/internal/util"
)

// ServerConfig server configuration
type ServerConfig struct {
	Port                string
	GinMode             string
	ClientAPIKeys       []string
	EndpointsConfigPath string
	DefaultModelsPath   string
	HTTPClientSettings  HTTPClientSettings
	Storage             core.StorageInterface
	Logger              core.Logger
}

// HTTPClientSettings HTTP client configuration
type HTTPClientSettings struct {
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
	IdleConnTimeout     time.Duration
	TLSHandshakeTimeout time.Duration
	RequestTimeout      time.Duration
}

// DefaultHTTPClientSettings default HTTP client settings
func DefaultHTTPClientSettings() HTTPClientSettings {
	return HTTPClientSettings{
		MaxIdleConns:        core.HTTPMaxIdleConns,
		MaxIdleConnsPerHost: core.HTTPMaxIdleConnsPerHost,
		MaxConnsPerHost:     core.HTTPMaxConnsPerHost,
		IdleConnTimeout:     core.HTTPIdleConnTimeout,
		TLSHandshakeTimeout: core.HTTPTLSHandshakeTimeout,
		RequestTimeout:      core.FetchRequestTimeout,
	}
}

// LoadServerConfigFromEnv loads server config from environment variables
func LoadServerConfigFromEnv(logger core.Logger) (ServerConfig, error) {
	clientAPIKeys := util.ParseEnvList(os.Getenv("CLIENT_API_KEYS"))
	if len(clientAPIKeys) == 0 {
		logger.Warn("CLIENT_API_KEYS environment variable is empty")
	} else {
		logger.Info("Loaded %d client API keys", len(clientAPIKeys))
	}

	config := ServerConfig{
		Port:                util.GetEnvWithDefault("PORT", core.DefaultPort),
		GinMode:             util.GetEnvWithDefault("GIN_MODE", core.DefaultGinMode),
		ClientAPIKeys:       clientAPIKeys,
		EndpointsConfigPath: util.GetEnvWithDefault("ENDPOINTS_CONFIG", core.DefaultEndpointsConfigPath),
		DefaultModelsPath:   util.GetEnvWithDefault("DEFAULT_MODELS_CONFIG", core.DefaultModelsPath),
		HTTPClientSettings:  DefaultHTTPClientSettings(),
	}

	return config, nil
}
