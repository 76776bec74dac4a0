package api

import (
	"github.com/code-payments/instruction-server/pkg/config"
	"github.com/code-payments/instruction-server/pkg/config/env"
	"github.com/code-payments/instruction-server/pkg/config/memory"
	"github.com/code-payments/instruction-server/pkg/config/wrapper"
)

const (
	envConfigPrefix = "API_SERVICE_"

	MaxRequestBodySizeConfigEnvName = envConfigPrefix + "MAX_REQUEST_BODY_SIZE"
	defaultMaxRequestBodySize       = 64 * 1024

	EnableDoubleSlashRoutesConfigEnvName = envConfigPrefix + "ENABLE_DOUBLE_SLASH_ROUTES"
	defaultEnableDoubleSlashRoutes       = true
)

type conf struct {
	maxRequestBodySize      config.Uint64
	enableDoubleSlashRoutes config.Bool
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			maxRequestBodySize:      env.NewUint64Config(MaxRequestBodySizeConfigEnvName, defaultMaxRequestBodySize),
			enableDoubleSlashRoutes: env.NewBoolConfig(EnableDoubleSlashRoutesConfigEnvName, defaultEnableDoubleSlashRoutes),
		}
	}
}

type testOverrides struct {
	maxRequestBodySize      uint64
	disableDoubleSlashRoute bool
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		maxRequestBodySize := uint64(defaultMaxRequestBodySize)
		if overrides.maxRequestBodySize > 0 {
			maxRequestBodySize = overrides.maxRequestBodySize
		}

		return &conf{
			maxRequestBodySize:      wrapper.NewUint64Config(memory.NewConfig(maxRequestBodySize), defaultMaxRequestBodySize),
			enableDoubleSlashRoutes: wrapper.NewBoolConfig(memory.NewConfig(!overrides.disableDoubleSlashRoute), defaultEnableDoubleSlashRoutes),
		}
	}
}
