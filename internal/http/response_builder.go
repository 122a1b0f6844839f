// Package http exposes the finance tracker as a JSON API.
//
// This file implements the builder used by every handler to write the
// response envelope and to map domain errors to status codes.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/store"
)

// envelope is the body of every successful response.
type envelope struct {
	Title   string           `json:"title,omitempty"`
	Display *DisplaySettings `json:"display,omitempty"`
	Data    any              `json:"data"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	title      string
	display    *DisplaySettings
	data       any
}

// NewJSONResponse creates a builder with a 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Display attaches the settings used to format amounts and sets the screen
// title when titles are enabled.
func (b *JSONResponseBuilder) Display(d DisplaySettings, title string) *JSONResponseBuilder {
	b.display = &d
	b.title = d.title(title)
	return b
}

func (b *JSONResponseBuilder) Data(v any) *JSONResponseBuilder {
	b.data = v
	return b
}

// Write sends the built response to w.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.statusCode == http.StatusNoContent {
		w.WriteHeader(b.statusCode)
		return
	}
	writeJSON(w, b.statusCode, envelope{Title: b.title, Display: b.display, Data: b.data})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// badRequestError marks input that could not be parsed.
type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

func badRequest(msg string) error { return &badRequestError{msg: msg} }

var validationErrors = []error{
	core.ErrInvalidAmount,
	core.ErrInvalidDate,
	core.ErrInvalidInterval,
	core.ErrEmptyCategory,
	core.ErrNoteTooLong,
	core.ErrEmptyTitle,
	core.ErrInvalidColor,
}

// statusFor maps an error to its HTTP status: bad input is 400, a missing
// record 404, anything else 500.
func statusFor(err error) int {
	var br *badRequestError
	if errors.As(err, &br) {
		return http.StatusBadRequest
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusBadRequest
		}
	}
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// ErrorResponse writes err with the mapped status. Internal errors are
// logged and their text is not sent to the client.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		msg = "internal error"
	}
	writeError(w, r, status, msg)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorBody{Error: errorDetail{
		Message:   msg,
		RequestID: trace.GetRequestID(r.Context()),
	}})
}
