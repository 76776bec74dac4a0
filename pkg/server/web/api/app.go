package api

import (
	"sync"

	"github.com/gorilla/mux"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/code-payments/instruction-server/pkg/app"
)

// App runs the api Server under app.Run.
type App struct {
	configProvider ConfigProvider

	server *Server

	stopOnce   sync.Once
	shutdownCh chan struct{}
}

func NewApp(configProvider ConfigProvider) *App {
	return &App{
		configProvider: configProvider,
		shutdownCh:     make(chan struct{}),
	}
}

// Init implements app.App.Init
func (a *App) Init(_ app.Config, _ *newrelic.Application) error {
	a.server = NewApiServer(a.configProvider)
	return nil
}

// RegisterWithHTTP implements app.App.RegisterWithHTTP
func (a *App) RegisterWithHTTP(router *mux.Router) {
	a.server.RegisterWithRouter(router)
}

// ShutdownChan implements app.App.ShutdownChan
func (a *App) ShutdownChan() <-chan struct{} {
	return a.shutdownCh
}

// Stop implements app.App.Stop
func (a *App) Stop() {
	a.stopOnce.Do(func() {
		close(a.shutdownCh)
	})
}
