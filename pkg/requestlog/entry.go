package requestlog

import "time"

// Entry captures the details of a served request for debugging and inspection.
type Entry struct {
	// ID is a unique identifier for the log entry.
	ID string `json:"id"`

	// Timestamp is when the request was received.
	Timestamp time.Time `json:"timestamp"`

	// Method is the HTTP method.
	Method string `json:"method"`

	// Path is the request URL path.
	Path string `json:"path"`

	// QueryString is the raw query string.
	QueryString string `json:"queryString,omitempty"`

	// Headers are the request headers (multi-value).
	Headers map[string][]string `json:"headers,omitempty"`

	// RemoteAddr is the client address.
	RemoteAddr string `json:"remoteAddr"`

	// Body is the request body content (truncated if > 10KB).
	Body string `json:"body,omitempty"`

	// BodySize is the original body size in bytes.
	BodySize int `json:"bodySize,omitempty"`

	// EndpointID is the ID of the endpoint that matched (empty if no match).
	EndpointID string `json:"endpointId,omitempty"`

	// HitNumber is the 1-based hit count of the matched endpoint at the time
	// of this request (0 if no match).
	HitNumber uint64 `json:"hitNumber,omitempty"`

	// ResponseStatus is the status code returned.
	ResponseStatus int `json:"responseStatus"`

	// DurationMs is the request processing time in milliseconds, including
	// any configured response delay.
	DurationMs int `json:"durationMs"`
}
