package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const requestIdHeaderName = "X-Request-Id"

type requestIdContextKey struct{}

// RequestIdFromContext returns the id assigned by RequestIdMiddleware, or an
// empty string.
func RequestIdFromContext(ctx context.Context) string {
	requestId, _ := ctx.Value(requestIdContextKey{}).(string)
	return requestId
}

// RequestIdMiddleware assigns every request an id. A well formed id supplied
// by the caller is reused.
func RequestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := r.Header.Get(requestIdHeaderName)
		if _, err := uuid.Parse(requestId); err != nil {
			requestId = uuid.New().String()
		}

		w.Header().Set(requestIdHeaderName, requestId)

		ctx := context.WithValue(r.Context(), requestIdContextKey{}, requestId)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware logs the method, path, status and duration of every
// request. Bodies are never logged.
func LoggingMiddleware(next http.Handler) http.Handler {
	log := logrus.StandardLogger().WithField("type", "api/middleware")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		log.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      recorder.status,
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  RequestIdFromContext(r.Context()),
		}).Debug("handled request")
	})
}

// RecoveryMiddleware turns a panic in a handler into a 500 envelope.
func RecoveryMiddleware(next http.Handler) http.Handler {
	log := logrus.StandardLogger().WithField("type", "api/middleware")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if recovered := recover(); recovered != nil {
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				log.WithFields(logrus.Fields{
					"path":       r.URL.Path,
					"request_id": RequestIdFromContext(r.Context()),
				}).WithError(errors.Errorf("panic: %v", recovered)).Error("recovered from handler panic")

				if recorder.wroteHeader {
					return
				}

				body := NewGenericApiFailureResponseBody(errInternalServer)
				if err := writeResponse(w, http.StatusInternalServerError, body); err != nil {
					log.WithError(err).Info("failed to write body")
				}
			}
		}()

		next.ServeHTTP(recorder, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}
