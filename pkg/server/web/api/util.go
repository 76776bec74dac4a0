package api

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/code-payments/instruction-server/pkg/solana"
)

const (
	successJsonKey = "success"
	dataJsonKey    = "data"
	errorJsonKey   = "error"

	contentTypeHeaderName      = "content-type"
	jsonContentTypeHeaderValue = "application/json"
)

var errInternalServer = errors.New("internal server error")

// GenericApiResponseBody is the envelope for every response. The success,
// data and error keys are always present.
type GenericApiResponseBody map[string]any

func NewGenericApiSuccessResponseBody(data any) GenericApiResponseBody {
	return map[string]any{
		successJsonKey: true,
		dataJsonKey:    data,
		errorJsonKey:   nil,
	}
}

func NewGenericApiFailureResponseBody(err error) GenericApiResponseBody {
	return map[string]any{
		successJsonKey: false,
		dataJsonKey:    nil,
		errorJsonKey:   err.Error(),
	}
}

func (b *GenericApiResponseBody) ToString() string {
	marshalled, err := json.Marshal(b)
	if err != nil {
		marshalled, _ = json.Marshal(NewGenericApiFailureResponseBody(errInternalServer))
	}
	return string(marshalled)
}

// HandleErrorInWebContext maps an error to the status code and the error that
// is safe to show to the caller. Only invalid input and construction errors
// carry their text through.
func HandleErrorInWebContext(err error) (int, error) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch solana.KindOf(err) {
	case solana.ErrorKindInvalidInput, solana.ErrorKindConstruction:
		return http.StatusBadRequest, err
	default:
		return http.StatusInternalServerError, errInternalServer
	}
}

func writeResponse(w http.ResponseWriter, statusCode int, body GenericApiResponseBody) error {
	w.Header().Set(contentTypeHeaderName, jsonContentTypeHeaderValue)
	w.WriteHeader(statusCode)
	_, err := w.Write([]byte(body.ToString()))
	return err
}
