package stub

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ValidationError represents a validation failure with context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// validHTTPMethods are the allowed HTTP methods.
var validHTTPMethods = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"DELETE":  true,
	"PATCH":   true,
	"HEAD":    true,
	"OPTIONS": true,
}

// headerNameRegex validates HTTP header names (RFC 7230).
var headerNameRegex = regexp.MustCompile(`^[A-Za-z0-9!#$%&'*+\-.^_\x60|~]+$`)

// Validate checks the endpoint declaration and normalizes the method to
// upper case. A declaration with an empty response sequence is invalid.
func (e *Endpoint) Validate() error {
	if e.Method == "" {
		return &ValidationError{Field: "method", Message: "method is required"}
	}
	method := strings.ToUpper(e.Method)
	if !validHTTPMethods[method] {
		return &ValidationError{
			Field:   "method",
			Message: fmt.Sprintf("invalid HTTP method: %s", e.Method),
		}
	}
	e.Method = method

	if e.Path == "" {
		return &ValidationError{Field: "path", Message: "path is required"}
	}
	if !strings.HasPrefix(e.Path, "/") {
		return &ValidationError{Field: "path", Message: "path must start with /"}
	}

	if len(e.Responses) == 0 {
		return &ValidationError{
			Field:   "responses",
			Message: "at least one response is required",
		}
	}

	for i, resp := range e.Responses {
		if resp == nil {
			return &ValidationError{
				Field:   fmt.Sprintf("responses[%d]", i),
				Message: "response must not be null",
			}
		}
		if err := resp.Validate(); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				return &ValidationError{
					Field:   fmt.Sprintf("responses[%d].%s", i, verr.Field),
					Message: verr.Message,
				}
			}
			return err
		}
	}

	return nil
}

// Validate checks a single response variant.
func (r *Response) Validate() error {
	if r.Status < 100 || r.Status > 599 {
		return &ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("status must be between 100-599, got %d", r.Status),
		}
	}

	if r.Delay != nil && *r.Delay < 0 {
		return &ValidationError{Field: "delay", Message: "delay must be >= 0"}
	}

	for _, h := range r.Headers {
		if !headerNameRegex.MatchString(h.Name) {
			return &ValidationError{
				Field:   "headers",
				Message: fmt.Sprintf("invalid header name: %s", h.Name),
			}
		}
	}

	// At most one payload field may be populated, and a declared kind must
	// match the populated field.
	populated := 0
	var populatedKind BodyKind
	if r.Text != "" {
		populated++
		populatedKind = BodyText
	}
	if len(r.Bytes) > 0 {
		populated++
		populatedKind = BodyBytes
	}
	if r.JSON != nil {
		populated++
		populatedKind = BodyJSON
	}
	if r.File != "" {
		populated++
		populatedKind = BodyFile
	}
	if populated > 1 {
		return &ValidationError{
			Field:   "kind",
			Message: "only one of text, bytes, json, or file may be set",
		}
	}

	switch r.Kind {
	case "", BodyEmpty, BodyText, BodyBytes, BodyJSON, BodyFile:
	default:
		return &ValidationError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown body kind: %s", r.Kind),
		}
	}
	if r.Kind != "" && r.Kind != BodyEmpty && populated == 1 && populatedKind != r.Kind {
		return &ValidationError{
			Field:   "kind",
			Message: fmt.Sprintf("kind is %s but the %s payload is set", r.Kind, populatedKind),
		}
	}
	if r.Kind == BodyEmpty && populated != 0 {
		return &ValidationError{
			Field:   "kind",
			Message: "empty responses must not carry a payload",
		}
	}

	return nil
}
