package requestlog

// Logger is the minimal interface for recording request entries.
type Logger interface {
	Log(entry *Entry)
}

// Store defines the interface for request history storage. Store embeds
// Logger, so any Store implementation can be used where Logger is expected.
type Store interface {
	Logger

	// Get retrieves a log entry by ID.
	Get(id string) *Entry

	// List returns all log entries, newest first, optionally filtered.
	List(filter *Filter) []*Entry

	// Clear removes all log entries.
	Clear()

	// Count returns the number of log entries.
	Count() int
}

// Filter defines criteria for filtering request logs.
type Filter struct {
	// Method filters by HTTP method.
	Method string

	// Path filters by path prefix.
	Path string

	// EndpointID filters by matched endpoint ID.
	EndpointID string

	// StatusCode filters by response status code.
	StatusCode int

	// Limit is the maximum number of entries to return.
	Limit int

	// Offset is the number of entries to skip.
	Offset int
}
