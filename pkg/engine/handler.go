// Core HTTP request handler for the stub engine.

package engine

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"strconv"
	"time"

	"github.com/getstubd/stubd/internal/tracker"
	"github.com/getstubd/stubd/pkg/httputil"
	"github.com/getstubd/stubd/pkg/logging"
	"github.com/getstubd/stubd/pkg/requestlog"
	"github.com/getstubd/stubd/pkg/stub"
	"github.com/getstubd/stubd/pkg/util"
)

// HitHeader carries the 1-based hit count of the matched endpoint on every
// stubbed response, for client-side debugging of retry sequences.
const HitHeader = "X-Stubd-Hit"

// RequestLogger defines the interface for recording served requests.
type RequestLogger interface {
	requestlog.Store
}

// Handler routes incoming requests to their declared endpoint and serves
// the next response in the endpoint's sequence. It implements http.Handler.
type Handler struct {
	mux       *http.ServeMux
	endpoints map[stub.Identity]*stub.Endpoint
	tracker   *tracker.HitTracker
	mat       *Materializer
	logger    RequestLogger
	log       *slog.Logger
}

// NewHandler builds a Handler for the given declarations. Each endpoint is
// registered on the router as a "METHOD /path" pattern; the declarations
// must already be validated and free of duplicate identities. Registration
// fails when two path patterns conflict in the router's pattern grammar.
func NewHandler(endpoints []*stub.Endpoint, trk *tracker.HitTracker, mat *Materializer) (*Handler, error) {
	h := &Handler{
		mux:       http.NewServeMux(),
		endpoints: make(map[stub.Identity]*stub.Endpoint, len(endpoints)),
		tracker:   trk,
		mat:       mat,
		log:       logging.Nop(),
	}

	for _, ep := range endpoints {
		ep := ep
		id := ep.Identity()
		if _, exists := h.endpoints[id]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEndpoint, id)
		}
		h.endpoints[id] = ep

		pattern := id.Method + " " + id.Path
		if err := h.register(pattern, func(w http.ResponseWriter, r *http.Request) {
			h.serveEndpoint(w, r, ep)
		}); err != nil {
			return nil, err
		}
	}

	// Health endpoints take priority over declared routes via the reserved
	// prefix; the catch-all serves the structured 404 for everything else.
	h.mux.HandleFunc("/__stubd/health", h.handleHealth)
	h.mux.HandleFunc("/__stubd/ready", h.handleReady)
	h.mux.HandleFunc("/", h.handleNoMatch)

	return h, nil
}

// register adds a pattern to the router, converting the router's pattern
// conflict panic into a configuration error.
func (h *Handler) register(pattern string, fn http.HandlerFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cannot register route %q: %v", pattern, r)
		}
	}()
	h.mux.HandleFunc(pattern, fn)
	return nil
}

// SetLogger sets the request logger for the handler.
func (h *Handler) SetLogger(logger RequestLogger) {
	h.logger = logger
}

// SetOperationalLogger sets the operational logger for error/warning messages.
func (h *Handler) SetOperationalLogger(log *slog.Logger) {
	if log != nil {
		h.log = log
	} else {
		h.log = logging.Nop()
	}
}

// Endpoint returns the declaration for the given identity, or nil.
func (h *Handler) Endpoint(id stub.Identity) *stub.Endpoint {
	return h.endpoints[id]
}

// EndpointCount returns the number of registered endpoints.
func (h *Handler) EndpointCount() int {
	return len(h.endpoints)
}

// ServeHTTP implements the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// serveEndpoint serves one request against a matched endpoint: it draws
// the next hit from the tracker, materializes the selected response
// (including the delay wait), and writes it back.
func (h *Handler) serveEndpoint(w http.ResponseWriter, r *http.Request, ep *stub.Endpoint) {
	startTime := time.Now()

	resp, hit := NextResponse(h.tracker, ep)

	h.log.Debug("request matched",
		"method", r.Method,
		"path", r.URL.Path,
		"endpoint", ep.String(),
		"hit", hit,
	)

	result := h.mat.Materialize(resp)

	// Add (not Set) so declared duplicates and ordering are preserved.
	for _, hdr := range result.Headers {
		w.Header().Add(hdr.Name, hdr.Value)
	}
	w.Header().Set(HitHeader, strconv.FormatUint(hit, 10))
	w.WriteHeader(result.Status)
	if len(result.Body) > 0 {
		_, _ = w.Write(result.Body)
	}

	h.logRequest(startTime, r, ep.ID, hit, result.Status)
}

// handleNoMatch serves the structured 404 for requests no declaration matches.
func (h *Handler) handleNoMatch(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	h.log.Debug("no endpoint matched", "method", r.Method, "path", r.URL.Path)

	httputil.WriteJSON(w, http.StatusNotFound, map[string]any{
		"error":   "no_match",
		"message": "No endpoint matched the request",
		"method":  r.Method,
		"path":    r.URL.Path,
	})

	h.logRequest(startTime, r, "", 0, http.StatusNotFound)
}

// handleHealth responds to liveness probes.
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, map[string]string{"status": "ok"})
}

// handleReady responds to readiness probes.
func (h *Handler) handleReady(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, map[string]any{
		"status":    "ready",
		"endpoints": len(h.endpoints),
	})
}

// logRequest records a served request in the request history.
func (h *Handler) logRequest(startTime time.Time, r *http.Request, endpointID string, hit uint64, statusCode int) {
	if h.logger == nil {
		return
	}

	headers := make(map[string][]string, len(r.Header))
	maps.Copy(headers, r.Header)

	body, bodySize := readRequestBody(r)

	h.logger.Log(&requestlog.Entry{
		Timestamp:      startTime,
		Method:         r.Method,
		Path:           r.URL.Path,
		QueryString:    r.URL.RawQuery,
		Headers:        headers,
		RemoteAddr:     r.RemoteAddr,
		Body:           body,
		BodySize:       bodySize,
		EndpointID:     endpointID,
		HitNumber:      hit,
		ResponseStatus: statusCode,
		DurationMs:     int(time.Since(startTime).Milliseconds()),
	})
}

// readRequestBody drains the request body for the history entry. Bodies are
// never needed for matching, so this runs after the response is written.
func readRequestBody(r *http.Request) (string, int) {
	if r.Body == nil {
		return "", 0
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, util.MaxLogBodySize+1))
	if err != nil || len(data) == 0 {
		return "", 0
	}
	size := len(data)
	if r.ContentLength > int64(size) {
		size = int(r.ContentLength)
	}
	return util.TruncateBody(string(data), 0), size
}
