package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"uni-assistant/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/schema"
)

const (
	internalErrorMessage = "Internal server error"
	maxRequestBodyBytes  = 1 << 20
)

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string {
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

func CodedError(code int, err error) error {
	return &codedError{err: err, code: code}
}

func CodedErrorf(code int, format string, args ...any) error {
	return &codedError{err: fmt.Errorf(format, args...), code: code}
}

func ParseRequest[T any](r *http.Request) (T, error) {
	var data T
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes)).Decode(&data); err != nil {
		slog.Error("error parsing request body", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, "unable to parse request body")
	}
	return data, nil
}

var queryDecoder = func() *schema.Decoder {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return decoder
}()

func ParseRequestQueryParams[T any](r *http.Request) (T, error) {
	var data T
	if err := r.ParseForm(); err != nil {
		slog.Error("error parsing form", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, "unable to parse request query params")
	}

	err := queryDecoder.Decode(&data, r.Form)
	if err != nil {
		slog.Error("error decoding query params", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, "unable to parse request query params")
	}

	return data, nil
}

type statusResponse struct {
	code int
	body any
}

// WithStatus makes a handler respond with code instead of 200.
func WithStatus(code int, body any) any {
	return statusResponse{code: code, body: body}
}

func RestHandler(handler func(r *http.Request) (any, error)) http.HandlerFunc {
	return RestWriterHandler(func(_ http.ResponseWriter, r *http.Request) (any, error) {
		return handler(r)
	})
}

// RestWriterHandler is RestHandler for handlers that need to set response
// headers such as cookies before the body is written.
func RestWriterHandler(handler func(w http.ResponseWriter, r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := handler(w, r)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		code := http.StatusOK
		if sr, ok := res.(statusResponse); ok {
			code, res = sr.code, sr.body
		}

		if res == nil {
			res = struct{}{}
		}

		writeJson(w, code, res)
	}
}

// WriteError writes err as a JSON error body. Internal errors are logged and
// replaced with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	var cerr *codedError
	if errors.As(err, &cerr) {
		code = cerr.code
	} else {
		slog.Error("recieved non coded error from endpoint", "path", r.URL.Path, "error", err)
	}

	message := err.Error()
	if code == http.StatusInternalServerError {
		if cerr != nil {
			slog.Error("internal server error received in endpoint", "path", r.URL.Path, "error", err)
		}
		message = internalErrorMessage
	}

	writeJson(w, code, api.ErrorResponse{Error: message})
}

func WriteJsonResponse(w http.ResponseWriter, data interface{}) {
	writeJson(w, http.StatusOK, data)
}

func writeJson(w http.ResponseWriter, code int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("error serializing response body", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"` + internalErrorMessage + `"}`)) //nolint:errcheck
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(append(body, '\n')); err != nil {
		slog.Error("error writing response body", "error", err)
	}
}

// URLParamUUID parses a uuid path parameter. Malformed ids cannot name an
// existing resource, so they are reported as not found.
func URLParamUUID(r *http.Request, key string) (uuid.UUID, error) {
	param := chi.URLParam(r, key)

	id, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, CodedErrorf(http.StatusNotFound, "invalid uuid '%v' url parameter provided: %w", key, err)
	}

	return id, nil
}
