package engine

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/getstubd/stubd/pkg/logging"
	"github.com/getstubd/stubd/pkg/stub"
)

// Encoder serializes a structured value into bytes. The default is
// json.Marshal; tests and embedders may substitute their own.
type Encoder func(v any) ([]byte, error)

// MaterializedResponse is the concrete status/headers/body triple the
// materializer produces for the transport to write.
type MaterializedResponse struct {
	Status  int
	Headers stub.Headers
	Body    []byte
}

// Materializer turns a selected response variant into a concrete HTTP
// response. It waits the effective delay first (the wait models network
// latency and happens unconditionally, error paths included), then
// produces the body according to the variant's kind. Kind-specific
// failures never propagate: a JSON encoding failure is substituted with a
// 500 and a missing file with a 404, in both cases with an empty body and
// the declared Content-Type stripped so the client is not misled about a
// payload that was never produced. All other declared headers survive.
type Materializer struct {
	defaultDelay time.Duration
	files        FileReader
	encode       Encoder
	log          *slog.Logger
}

// MaterializerOption customizes a Materializer.
type MaterializerOption func(*Materializer)

// WithFileReader sets the file-read capability for the file body kind.
func WithFileReader(fr FileReader) MaterializerOption {
	return func(m *Materializer) {
		if fr != nil {
			m.files = fr
		}
	}
}

// WithEncoder sets the serialization strategy for the json body kind.
func WithEncoder(enc Encoder) MaterializerOption {
	return func(m *Materializer) {
		if enc != nil {
			m.encode = enc
		}
	}
}

// WithMaterializerLogger sets the operational logger.
func WithMaterializerLogger(log *slog.Logger) MaterializerOption {
	return func(m *Materializer) {
		if log != nil {
			m.log = log
		}
	}
}

// NewMaterializer creates a Materializer with the given process-wide
// default delay, applied whenever a response does not declare its own.
func NewMaterializer(defaultDelay time.Duration, opts ...MaterializerOption) *Materializer {
	m := &Materializer{
		defaultDelay: defaultDelay,
		files:        NewOSFileReader(""),
		encode:       json.Marshal,
		log:          logging.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Materialize produces the concrete response for the given variant.
// It blocks for the effective delay before returning.
func (m *Materializer) Materialize(resp *stub.Response) *MaterializedResponse {
	if d := m.effectiveDelay(resp); d > 0 {
		time.Sleep(d)
	}

	switch kind := resp.EffectiveKind(); kind {
	case stub.BodyEmpty:
		return &MaterializedResponse{Status: resp.Status, Headers: resp.Headers}

	case stub.BodyText:
		return &MaterializedResponse{
			Status:  resp.Status,
			Headers: resp.Headers,
			Body:    []byte(resp.Text),
		}

	case stub.BodyBytes:
		return &MaterializedResponse{
			Status:  resp.Status,
			Headers: resp.Headers,
			Body:    resp.Bytes,
		}

	case stub.BodyJSON:
		body, err := m.encode(resp.JSON)
		if err != nil {
			m.log.Error("failed to encode json body", "error", err)
			return &MaterializedResponse{
				Status:  http.StatusInternalServerError,
				Headers: resp.Headers.WithoutContentType(),
			}
		}
		return &MaterializedResponse{
			Status:  resp.Status,
			Headers: resp.Headers,
			Body:    body,
		}

	case stub.BodyFile:
		data, err := m.files.ReadFile(resp.File)
		if err != nil {
			m.log.Error("failed to read body file", "file", resp.File, "error", err)
			return &MaterializedResponse{
				Status:  http.StatusNotFound,
				Headers: resp.Headers.WithoutContentType(),
			}
		}
		return &MaterializedResponse{
			Status:  resp.Status,
			Headers: resp.Headers,
			Body:    data,
		}

	default:
		// Unreachable for validated configs; treat like empty.
		m.log.Warn("unknown body kind", "kind", kind)
		return &MaterializedResponse{Status: resp.Status, Headers: resp.Headers}
	}
}

// effectiveDelay returns the response's own delay when declared, otherwise
// the process-wide default.
func (m *Materializer) effectiveDelay(resp *stub.Response) time.Duration {
	if resp.Delay != nil {
		return time.Duration(*resp.Delay * float64(time.Second))
	}
	return m.defaultDelay
}

// DefaultDelay returns the process-wide default delay.
func (m *Materializer) DefaultDelay() time.Duration {
	return m.defaultDelay
}
