// Package relayerr defines the errors the relay can produce and how each one
// is presented to the caller.
package relayerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Caller-visible messages. Diagnostic detail never appears in these.
const (
	MsgMissingKey     = "API key not found on server."
	MsgFailed         = "Failed to get AI suggestions."
	MsgBadRequest     = "Invalid request body."
	MsgMethodNotAllow = "Method not allowed."
)

// Kind identifies a relay error variant.
type Kind int

const (
	// KindUnknown is any error not produced by this package.
	KindUnknown Kind = iota

	// KindConfiguration means the API key was missing at request time.
	KindConfiguration

	// KindUpstream means the outbound call failed or returned no candidate.
	KindUpstream

	// KindParse means the upstream text did not decode as suggestions.
	KindParse

	// KindRequest means the inbound request body was unusable.
	KindRequest
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindUpstream:
		return "upstream"
	case KindParse:
		return "parse"
	case KindRequest:
		return "request"
	default:
		return "unknown"
	}
}

// ConfigurationError is returned when no API key is configured.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("API key not found: %s is not set", e.Key)
}

// UpstreamError is returned when the generative API call fails.
// Status is 0 for transport failures and timeouts.
type UpstreamError struct {
	Status int
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("upstream call failed: %v", e.Err)
	default:
		return "upstream call failed: " + e.Body
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ParseError is returned when upstream content cannot be decoded.
type ParseError struct {
	// Text is the raw content that failed to parse.
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse upstream content: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RequestError is returned when the inbound body cannot be decoded.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid request: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Classify returns the variant of err.
func Classify(err error) Kind {
	var (
		cfgErr   *ConfigurationError
		upErr    *UpstreamError
		parseErr *ParseError
		reqErr   *RequestError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &cfgErr):
		return KindConfiguration
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &upErr):
		return KindUpstream
	case errors.As(err, &reqErr):
		return KindRequest
	default:
		return KindUnknown
	}
}

// StatusCode maps err to the HTTP status sent to the caller.
func StatusCode(err error) int {
	switch Classify(err) {
	case KindRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage maps err to the message sent to the caller.
func PublicMessage(err error) string {
	switch Classify(err) {
	case KindConfiguration:
		return MsgMissingKey
	case KindRequest:
		return MsgBadRequest
	default:
		return MsgFailed
	}
}

// LogAttrs returns key/value pairs describing err for server-side logs.
func LogAttrs(err error) []any {
	attrs := []any{"kind", Classify(err).String(), "error", err.Error()}
	var upErr *UpstreamError
	if errors.As(err, &upErr) && upErr.Status != 0 {
		attrs = append(attrs, "upstream_status", upErr.Status, "upstream_body", upErr.Body)
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		attrs = append(attrs, "content", parseErr.Text)
	}
	return attrs
}
