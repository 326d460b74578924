package config

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/getstubd/stubd/pkg/stub"
)

// Config defines the mock server runtime settings.
type Config struct {
	// Host is the interface to bind ("" = all interfaces).
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
	// Port is the port for the HTTP server.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`
	// DefaultDelay is the process-wide default response delay in seconds,
	// applied when a response does not declare its own. Set once at
	// configuration time; immutable while running.
	DefaultDelay float64 `json:"delay,omitempty" yaml:"delay,omitempty"`
	// ReadTimeout is the HTTP read timeout in seconds.
	ReadTimeout int `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	// WriteTimeout is the HTTP write timeout in seconds.
	WriteTimeout int `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`
	// LogRequests enables request history logging.
	LogRequests bool `json:"logRequests" yaml:"logRequests"`
	// MaxLogEntries is the maximum number of request log entries to retain.
	MaxLogEntries int `json:"maxLogEntries,omitempty" yaml:"maxLogEntries,omitempty"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Host:          "",
		Port:          4380,
		DefaultDelay:  0,
		ReadTimeout:   30,
		WriteTimeout:  30,
		LogRequests:   true,
		MaxLogEntries: 1000,
	}
}

// Addr returns the host:port bind address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Collection is a container for a set of endpoint declarations, typically
// loaded from a single config file.
type Collection struct {
	// Version is the config format version (e.g., "1.0").
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	// Name is the collection name/description.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Server contains server settings (if embedded).
	Server *Config `json:"server,omitempty" yaml:"server,omitempty"`
	// Endpoints is the ordered list of endpoint declarations.
	Endpoints []*stub.Endpoint `json:"endpoints" yaml:"endpoints"`
}

// Validate checks every declaration and rejects duplicate identities.
// Endpoints without an ID are assigned one.
func (c *Collection) Validate() error {
	seen := make(map[stub.Identity]int, len(c.Endpoints))
	for i, ep := range c.Endpoints {
		if ep == nil {
			return fmt.Errorf("endpoints[%d]: declaration must not be null", i)
		}
		if err := ep.Validate(); err != nil {
			return fmt.Errorf("endpoints[%d]: %w", i, err)
		}
		id := ep.Identity()
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("endpoints[%d]: duplicate declaration for %s (first declared at endpoints[%d])", i, id, prev)
		}
		seen[id] = i
		if ep.ID == "" {
			ep.ID = "ep-" + uuid.NewString()
		}
	}
	return nil
}
