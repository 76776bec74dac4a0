package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/instruction-server/pkg/instruction"
	"github.com/code-payments/instruction-server/pkg/metrics"
	"github.com/code-payments/instruction-server/pkg/signer"
	"github.com/code-payments/instruction-server/pkg/solana"
)

const (
	keypairPath       = "/keypair"
	createTokenPath   = "/token/create"
	mintTokenPath     = "/token/mint"
	sendSolPath       = "/send/sol"
	sendTokenPath     = "/send/token"
	signMessagePath   = "/message/sign"
	verifyMessagePath = "/message/verify"
	healthPath        = "/health"

	metricsStructName   = "api.server"
	requestCountMetric  = "Api/RequestCount"
	requestTimingMetric = "Api/RequestDuration"
	instructionEvent    = "InstructionBuilt"
)

var (
	errPostExpected = solana.NewInvalidInputError("http post expected")
	errGetExpected  = solana.NewInvalidInputError("http get expected")
	errNotFound     = solana.NewInvalidInputError("route not found")
)

// handlerFunc produces the data of a successful response or an error.
type handlerFunc func(ctx context.Context, w http.ResponseWriter, r *http.Request) (any, error)

type Server struct {
	log  *logrus.Entry
	conf *conf
}

func NewApiServer(configProvider ConfigProvider) *Server {
	return &Server{
		log:  logrus.StandardLogger().WithField("type", "api/server"),
		conf: configProvider(),
	}
}

func (s *Server) handle(path, method string, handler handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()

		log := s.log.WithFields(logrus.Fields{
			"path":       path,
			"request_id": RequestIdFromContext(ctx),
		})

		statusCode, body := func() (int, GenericApiResponseBody) {
			if r.Method != method {
				if method == http.MethodGet {
					return http.StatusBadRequest, NewGenericApiFailureResponseBody(errGetExpected)
				}
				return http.StatusBadRequest, NewGenericApiFailureResponseBody(errPostExpected)
			}
			if handler == nil {
				return http.StatusNotFound, NewGenericApiFailureResponseBody(errNotFound)
			}

			data, err := handler(ctx, w, r)
			if err != nil {
				statusCode, safeErr := HandleErrorInWebContext(err)
				if statusCode >= http.StatusInternalServerError {
					log.WithError(err).Warn("failure handling request")
				} else {
					log.WithError(err).Debug("rejected request")
				}
				return statusCode, NewGenericApiFailureResponseBody(safeErr)
			}

			return http.StatusOK, NewGenericApiSuccessResponseBody(data)
		}()

		metrics.RecordCount(ctx, requestCountMetric, 1)
		metrics.RecordDuration(ctx, requestTimingMetric, time.Since(start))

		if err := writeResponse(w, statusCode, body); err != nil {
			log.WithError(err).Info("failed to write body")
		}
	}
}

func (s *Server) generateKeypair(ctx context.Context, _ http.ResponseWriter, _ *http.Request) (any, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "generateKeypair")
	defer tracer.End()

	keypair, err := signer.GenerateKeypair()
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	return newKeypairView(keypair), nil
}

func (s *Server) createToken(ctx context.Context, w http.ResponseWriter, r *http.Request) (any, error) {
	var req createTokenRequest
	if err := decodeJsonBody(w, r, s.conf.maxRequestBodySize.Get(ctx), &req); err != nil {
		return nil, err
	}
	return s.buildInstruction(ctx, instruction.KindInitializeMint, req.toParams())
}

func (s *Server) mintToken(ctx context.Context, w http.ResponseWriter, r *http.Request) (any, error) {
	var req mintTokenRequest
	if err := decodeJsonBody(w, r, s.conf.maxRequestBodySize.Get(ctx), &req); err != nil {
		return nil, err
	}
	return s.buildInstruction(ctx, instruction.KindMintTo, req.toParams())
}

func (s *Server) sendSol(ctx context.Context, w http.ResponseWriter, r *http.Request) (any, error) {
	var req sendSolRequest
	if err := decodeJsonBody(w, r, s.conf.maxRequestBodySize.Get(ctx), &req); err != nil {
		return nil, err
	}
	return s.buildInstruction(ctx, instruction.KindTransferNative, req.toParams())
}

func (s *Server) sendToken(ctx context.Context, w http.ResponseWriter, r *http.Request) (any, error) {
	var req sendTokenRequest
	if err := decodeJsonBody(w, r, s.conf.maxRequestBodySize.Get(ctx), &req); err != nil {
		return nil, err
	}
	return s.buildInstruction(ctx, instruction.KindTransferToken, req.toParams())
}

func (s *Server) buildInstruction(ctx context.Context, kind instruction.Kind, params instruction.Params) (any, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "buildInstruction")
	tracer.AddAttribute("kind", kind.String())
	defer tracer.End()

	built, err := instruction.Build(kind, params)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	metrics.RecordEvent(ctx, instructionEvent, map[string]interface{}{
		"kind":    kind.String(),
		"program": built.Program.ToBase58(),
	})

	return newInstructionView(built), nil
}

func (s *Server) signMessage(ctx context.Context, w http.ResponseWriter, r *http.Request) (any, error) {
	var req signMessageRequest
	if err := decodeJsonBody(w, r, s.conf.maxRequestBodySize.Get(ctx), &req); err != nil {
		return nil, err
	}

	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "signMessage")
	defer tracer.End()

	if len(req.Message) == 0 {
		return nil, solana.NewInvalidInputError("missing message")
	}

	keypair, err := signer.NewKeypairFromBase58(req.Secret)
	if err != nil {
		return nil, err
	}
	defer keypair.Wipe()

	signed, err := keypair.Sign([]byte(req.Message))
	if err != nil {
		return nil, err
	}

	return newSignedMessageView(signed), nil
}

func (s *Server) verifyMessage(ctx context.Context, w http.ResponseWriter, r *http.Request) (any, error) {
	var req verifyMessageRequest
	if err := decodeJsonBody(w, r, s.conf.maxRequestBodySize.Get(ctx), &req); err != nil {
		return nil, err
	}

	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "verifyMessage")
	defer tracer.End()

	if len(req.Message) == 0 {
		return nil, solana.NewInvalidInputError("missing message")
	}

	pubkey, err := solana.NewAddressFromString(req.Pubkey)
	if err != nil {
		return nil, errors.Wrap(err, "invalid pubkey")
	}

	signature, err := solana.NewSignatureFromBase64(req.Signature)
	if err != nil {
		return nil, errors.Wrap(err, "invalid signature")
	}

	return &verifiedMessageView{
		Valid:   signer.Verify([]byte(req.Message), signature, pubkey),
		Message: req.Message,
		Pubkey:  pubkey.ToBase58(),
	}, nil
}

func (s *Server) health(_ context.Context, _ http.ResponseWriter, _ *http.Request) (any, error) {
	return &healthView{Status: "ok"}, nil
}

// GetHandlers returns every route served by the api, keyed by path.
func (s *Server) GetHandlers() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		keypairPath:       s.handle(keypairPath, http.MethodPost, s.generateKeypair),
		createTokenPath:   s.handle(createTokenPath, http.MethodPost, s.createToken),
		mintTokenPath:     s.handle(mintTokenPath, http.MethodPost, s.mintToken),
		sendSolPath:       s.handle(sendSolPath, http.MethodPost, s.sendSol),
		sendTokenPath:     s.handle(sendTokenPath, http.MethodPost, s.sendToken),
		signMessagePath:   s.handle(signMessagePath, http.MethodPost, s.signMessage),
		verifyMessagePath: s.handle(verifyMessagePath, http.MethodPost, s.verifyMessage),
		healthPath:        s.handle(healthPath, http.MethodGet, s.health),
	}
}

// RegisterWithRouter mounts the handlers and the enveloped not found handler.
// Doubled slash aliases are added for every route except health when enabled.
func (s *Server) RegisterWithRouter(router *mux.Router) {
	router.SkipClean(true)

	enableDoubleSlashRoutes := s.conf.enableDoubleSlashRoutes.Get(context.Background())
	for path, handler := range s.GetHandlers() {
		router.HandleFunc(path, handler)

		if enableDoubleSlashRoutes && path != healthPath {
			router.HandleFunc("/"+path, handler)
		}
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handle(r.URL.Path, r.Method, nil)(w, r)
	})
}
