package app

import (
	"time"

	"github.com/spf13/viper"
)

// Config is the application specific configuration.
// It is passed to the App.Init function, and is optional.
type Config map[string]interface{}

// BaseConfig contains the base configuration for services, as well as the
// application itself.
type BaseConfig struct {
	LogLevel string `mapstructure:"log_level"`

	AppName string `mapstructure:"app_name"`

	ListenAddress      string `mapstructure:"listen_address"`
	DebugListenAddress string `mapstructure:"debug_listen_address"`

	// TLSCertificate is an optional URL that specifies a TLS certificate to be
	// used for the HTTP server.
	//
	// Only the file scheme is supported. If no scheme is specified, file is used.
	TLSCertificate string `mapstructure:"tls_certificate"`
	// TLSKey is an optional URL that specifies a TLS Private Key to be used for the
	// HTTP server.
	//
	// Only the file scheme is supported. If no scheme is specified, file is used.
	TLSKey string `mapstructure:"tls_private_key"`

	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`

	ShutdownGracePeriod time.Duration `mapstructure:"shutdown_grace_period"`

	EnablePprof  bool `mapstructure:"enable_pprof"`
	EnableExpvar bool `mapstructure:"enable_expvar"`

	// Ballast for improving Go GC performance. Note that capacity will be
	// limited to 50% of the total memory.
	// https://blog.twitch.tv/en/2019/04/10/go-memory-ballast-how-i-learnt-to-stop-worrying-and-love-the-heap/
	EnableBallast   bool    `mapstructure:"enable_ballast"`
	BallastCapacity float32 `mapstructure:"ballast_capacity"`

	// Periodically terminate the application when there's a memory leak
	EnableMemoryLeakCron   bool   `mapstructure:"enable_memory_leak_cron"`
	MemoryLeakCronSchedule string `mapstructure:"memory_leak_cron_schedule"`

	// Metrics configuration across many providers
	NewRelicLicenseKey string `mapstructure:"new_relic_license_key"`

	// Arbitrary configuration that the service can define / implement.
	//
	// Users should use mapstructure.Decode for ServiceConfig.
	AppConfig Config `mapstructure:"app"`
}

var defaultConfig = BaseConfig{
	LogLevel: "info",

	AppName: "instruction-server",

	ListenAddress:      ":8080",
	DebugListenAddress: "localhost:8123",

	ReadTimeout:  10 * time.Second,
	WriteTimeout: 10 * time.Second,
	IdleTimeout:  60 * time.Second,

	ShutdownGracePeriod: 30 * time.Second,

	EnablePprof:  false,
	EnableExpvar: false,

	EnableBallast:   true,
	BallastCapacity: 0.1,

	EnableMemoryLeakCron:   false,
	MemoryLeakCronSchedule: "0 5 * * *",
}

var envBindings = map[string]string{
	"log_level": "LOG_LEVEL",

	"app_name": "APP_NAME",

	"listen_address":       "LISTEN_ADDRESS",
	"debug_listen_address": "DEBUG_LISTEN_ADDRESS",

	"tls_certificate": "TLS_CERTIFICATE",
	"tls_private_key": "TLS_PRIVATE_KEY",

	"read_timeout":  "READ_TIMEOUT",
	"write_timeout": "WRITE_TIMEOUT",
	"idle_timeout":  "IDLE_TIMEOUT",

	"shutdown_grace_period": "SHUTDOWN_GRACE_PERIOD",

	"enable_pprof":  "ENABLE_PPROF",
	"enable_expvar": "ENABLE_EXPVAR",

	"enable_ballast":   "ENABLE_BALLAST",
	"ballast_capacity": "BALLAST_CAPACITY",

	"enable_memory_leak_cron":   "ENABLE_MEMORY_LEAK_CRON",
	"memory_leak_cron_schedule": "MEMORY_LEAK_CRON_SCHEDULE",

	"new_relic_license_key": "NEW_RELIC_LICENSE_KEY",
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	return v
}
