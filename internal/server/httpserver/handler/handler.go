package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

// ErrorResponse is the payload written for every failed request.
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Stacktrace string `json:"stacktrace,omitempty"`
}

// Responder writes JSON responses.
type Responder struct {
	logger *slog.Logger
	debug  bool
}

// NewResponder creates a Responder. With debug set, error payloads carry
// the full error chain including stack traces.
func NewResponder(logger *slog.Logger, debug bool) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{logger: logger, debug: debug}
}

// WriteJSON writes data as the response body.
func (rs *Responder) WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.logger.Error("failed to encode response", "error", err)
	}
}

// WriteError converts err into an ErrorResponse. Errors that are not
// domain errors are reported as domain.ErrInternalServer.
func (rs *Responder) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	de, ok := domain.AsDomainError(err)
	if !ok {
		de = domain.ErrInternalServer
	}
	status := errorCodeToHTTPStatus(de.Code)

	if status >= http.StatusInternalServerError {
		rs.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", de.Code,
			"error", err,
		)
	}

	resp := ErrorResponse{
		StatusCode: status,
		Code:       de.Code,
		Message:    de.Message,
		Details:    de.Details,
	}
	if rs.debug {
		resp.Stacktrace = stacktrace(err)
	}

	w.Header().Set("X-Error-Code", de.Code)
	rs.WriteJSON(w, status, resp)
}

// stacktrace renders the error chain down to the first error that formats
// itself, which for github.com/pkg/errors values includes the stack.
func stacktrace(err error) string {
	var b strings.Builder
	for e := err; e != nil; e = errors.Unwrap(e) {
		if _, ok := e.(fmt.Formatter); ok {
			fmt.Fprintf(&b, "%+v", e)
			break
		}
		b.WriteString(e.Error())
		b.WriteByte('\n')
	}
	return b.String()
}

// errorCodeToHTTPStatus maps an error code to its HTTP status. The first
// three digits of the numeric suffix are the status: RG-RES-4091 is 409.
// Anything that does not parse as a 4xx or 5xx status is a 500.
func errorCodeToHTTPStatus(code string) int {
	idx := strings.LastIndex(code, "-")
	if idx < 0 || len(code)-idx-1 != 4 {
		return http.StatusInternalServerError
	}
	n, err := strconv.Atoi(code[idx+1:])
	if err != nil {
		return http.StatusInternalServerError
	}
	status := n / 10
	if status < 400 || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}
