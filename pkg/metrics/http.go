package metrics

import (
	"net/http"

	"github.com/newrelic/go-agent/v3/newrelic"
)

const (
	httpResponseStatusCodeLevelAttributeKey = "http.response.statusCodeLevel"
	httpRequestRouteAttributeKey            = "http.request.route"

	infoLevel    = "info"
	warningLevel = "warning"
	errorLevel   = "error"
)

// NewRelicHTTPMiddleware starts a web transaction per request and injects the
// application into the request context for downstream metrics and events.
func NewRelicHTTPMiddleware(app *newrelic.Application) func(http.Handler) http.Handler {
	if app == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			txn := app.StartTransaction(r.Method + " " + r.URL.Path)
			defer txn.End()

			txn.SetWebRequestHTTP(r)
			txn.AddAttribute(httpRequestRouteAttributeKey, r.URL.Path)

			recorder := &statusRecorder{ResponseWriter: txn.SetWebResponse(w), status: http.StatusOK}

			ctx := NewContext(r.Context(), app)
			ctx = newrelic.NewContext(ctx, txn)

			next.ServeHTTP(recorder, r.WithContext(ctx))

			txn.AddAttribute(httpResponseStatusCodeLevelAttributeKey, statusCodeLevel(recorder.status))
		})
	}
}

func statusCodeLevel(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return errorLevel
	case status >= http.StatusBadRequest:
		return warningLevel
	default:
		return infoLevel
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
