package app

import (
	"os"

	"github.com/gorilla/mux"
)

// Option configures the environment run by Run().
type Option func(o *opts)

type opts struct {
	configPath  string
	middlewares []mux.MiddlewareFunc
	signals     <-chan os.Signal
}

// WithConfigPath sets the YAML config file. A missing file is not an error,
// in which case only environment variables and defaults apply.
func WithConfigPath(path string) Option {
	return func(o *opts) {
		o.configPath = path
	}
}

// WithMiddleware configures the app's HTTP router to use the provided middleware.
//
// Middleware is evaluated in addition order, and configured middleware is executed after
// the app's default middleware.
func WithMiddleware(middlewares ...mux.MiddlewareFunc) Option {
	return func(o *opts) {
		o.middlewares = append(o.middlewares, middlewares...)
	}
}

// WithSignalChan replaces the process signal channel that triggers shutdown.
func WithSignalChan(signals <-chan os.Signal) Option {
	return func(o *opts) {
		o.signals = signals
	}
}
