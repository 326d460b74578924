package stub

import "fmt"

// BodyKind identifies how a response body is produced.
type BodyKind string

const (
	BodyEmpty BodyKind = "empty"
	BodyText  BodyKind = "text"
	BodyBytes BodyKind = "bytes"
	BodyJSON  BodyKind = "json"
	BodyFile  BodyKind = "file"
)

// Header is a single response header name/value pair. Response headers are a
// slice rather than a map so declaration order and duplicate names survive
// all the way to the wire.
type Header struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Headers is an ordered multi-value header list.
type Headers []Header

// Get returns the first value for the given name (case-insensitive), or ""
// if the name is not present.
func (h Headers) Get(name string) string {
	for _, hdr := range h {
		if equalFold(hdr.Name, name) {
			return hdr.Value
		}
	}
	return ""
}

// Has reports whether a header with the given name (case-insensitive) is present.
func (h Headers) Has(name string) bool {
	for _, hdr := range h {
		if equalFold(hdr.Name, name) {
			return true
		}
	}
	return false
}

// WithoutContentType returns a copy of the list with every Content-Type
// entry removed. Used by the engine when a declared body could not be
// produced and the declared media type would mislead the client.
func (h Headers) WithoutContentType() Headers {
	out := make(Headers, 0, len(h))
	for _, hdr := range h {
		if equalFold(hdr.Name, "Content-Type") {
			continue
		}
		out = append(out, hdr)
	}
	return out
}

// Identity uniquely names a declared endpoint by method and path. It is
// comparable and is the key the hit tracker counts under.
type Identity struct {
	Method string `json:"method" yaml:"method"`
	Path   string `json:"path" yaml:"path"`
}

// String returns the identity in "METHOD /path" form.
func (id Identity) String() string {
	return id.Method + " " + id.Path
}

// Response describes one entry in an endpoint's response sequence: an HTTP
// status, ordered headers, an optional per-response delay, and a body
// variant. Exactly one of the kind-specific payload fields is meaningful;
// Kind selects which (and is inferred from the populated field when empty).
type Response struct {
	// Status is the HTTP status code to return.
	Status int `json:"status" yaml:"status"`

	// Headers are returned in declaration order; duplicates are allowed.
	Headers Headers `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Delay is the wait before the response is produced, in seconds.
	// When nil, the server-wide default delay applies.
	Delay *float64 `json:"delay,omitempty" yaml:"delay,omitempty"`

	// Kind selects the body variant. Optional in config files: when empty
	// it is inferred from whichever payload field is set.
	Kind BodyKind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Text is the body for the text kind (written UTF-8).
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Bytes is the body for the bytes kind, verbatim. Encoded as base64 in
	// JSON and as !!binary in YAML.
	Bytes []byte `json:"bytes,omitempty" yaml:"bytes,omitempty"`

	// JSON is the body for the json kind; serialized by the engine's encoder.
	JSON any `json:"json,omitempty" yaml:"json,omitempty"`

	// File is the path whose raw content becomes the body for the file kind.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// EffectiveKind returns the declared Kind, or infers it from the populated
// payload field when Kind is empty. A response with no payload field is empty.
func (r *Response) EffectiveKind() BodyKind {
	if r.Kind != "" {
		return r.Kind
	}
	switch {
	case r.Text != "":
		return BodyText
	case len(r.Bytes) > 0:
		return BodyBytes
	case r.JSON != nil:
		return BodyJSON
	case r.File != "":
		return BodyFile
	default:
		return BodyEmpty
	}
}

// Endpoint declares a mock endpoint: a method + path pattern and its ordered,
// non-empty response sequence. The path may use the transport router's
// path-parameter syntax (e.g. "/users/{id}"), which passes through verbatim.
type Endpoint struct {
	// ID is a unique identifier for the endpoint. Assigned at load time
	// when the config file does not provide one.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Name is an optional human-readable label.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Method is the HTTP method to match (normalized to upper case).
	Method string `json:"method" yaml:"method"`

	// Path is the URL path pattern to match.
	Path string `json:"path" yaml:"path"`

	// Responses is consumed in order, one per hit; the last entry repeats
	// once the sequence is exhausted. Must not be empty.
	Responses []*Response `json:"responses" yaml:"responses"`
}

// Identity returns the endpoint's (method, path) identity.
func (e *Endpoint) Identity() Identity {
	return Identity{Method: e.Method, Path: e.Path}
}

// String returns a short display form for logs and errors.
func (e *Endpoint) String() string {
	if e.Name != "" {
		return fmt.Sprintf("%s (%s %s)", e.Name, e.Method, e.Path)
	}
	return e.Method + " " + e.Path
}

// equalFold is an ASCII-only case-insensitive comparison, sufficient for
// HTTP header names.
func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
