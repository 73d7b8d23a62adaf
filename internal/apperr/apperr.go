// Package apperr defines the machine-readable error kinds returned to clients and the
// helpers that keep diagnostic excerpts bounded.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a stable, machine-readable error code.
type Kind string

const (
	NoAudioFile         Kind = "no_audio_file"
	NoText              Kind = "no_text"
	InvalidJSON         Kind = "invalid_json"
	PayloadTooLarge     Kind = "payload_too_large"
	TranscriptionFailed Kind = "transcription_failed"
	PiperNotFound       Kind = "piper_not_found"
	PiperNotExecutable  Kind = "piper_not_executable"
	ModelNotFound       Kind = "model_not_found"
	EspeakDataNotFound  Kind = "espeak_data_not_found"
	PiperFailed         Kind = "piper_failed"
	TTSException        Kind = "tts_exception"
	EngineFailed        Kind = "engine_failed"
	Internal            Kind = "internal_error"
)

// Error is an error that knows how it should be reported over HTTP.
type Error struct {
	Kind   Kind
	Status int
	Detail string
	Path   string
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Client builds a 400 error.
func Client(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Status: http.StatusBadRequest, Detail: detail}
}

// TooLarge builds a 413 error for a request body over limit bytes.
func TooLarge(limit int64) *Error {
	return &Error{
		Kind:   PayloadTooLarge,
		Status: http.StatusRequestEntityTooLarge,
		Detail: fmt.Sprintf("request body exceeds %d bytes", limit),
	}
}

// Server builds a 500 error wrapping cause. Detail defaults to the cause's message.
func Server(kind Kind, cause error) *Error {
	e := &Error{Kind: kind, Status: http.StatusInternalServerError, Err: cause}
	if cause != nil {
		e.Detail = cause.Error()
	}
	return e
}

// Missing builds a 500 error for a misconfigured backend path.
func Missing(kind Kind, path string) *Error {
	return &Error{
		Kind:   kind,
		Status: http.StatusInternalServerError,
		Path:   path,
		Err:    fmt.Errorf("%s: %s", kind, path),
	}
}

// From extracts an *Error from err, wrapping anything else as internal_error.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Server(Internal, err)
}

// Head returns at most n runes from the start of s.
func Head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Tail returns at most n runes from the end of s.
func Tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
