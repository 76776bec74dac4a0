package api

import (
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/instruction-server/pkg/app"
)

func TestApp(t *testing.T) {
	var _ app.App = (*App)(nil)

	a := NewApp(withManualTestOverrides(&testOverrides{}))
	require.NoError(t, a.Init(nil, nil))

	router := mux.NewRouter()
	a.RegisterWithHTTP(router)

	env := testEnv{router: router}
	var view healthView
	env.do(t, http.MethodGet, healthPath, nil).requireSuccess(t, &view)
	assert.Equal(t, "ok", view.Status)

	select {
	case <-a.ShutdownChan():
		t.Fatal("unexpected shutdown")
	default:
	}

	a.Stop()
	a.Stop()

	_, ok := <-a.ShutdownChan()
	assert.False(t, ok)
}
