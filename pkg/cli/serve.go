package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getstubd/stubd/pkg/config"
	"github.com/getstubd/stubd/pkg/engine"
	"github.com/getstubd/stubd/pkg/logging"
	"github.com/getstubd/stubd/pkg/stub"
)

// serveFlags holds the flag values for the serve command.
type serveFlags struct {
	configFile    string
	host          string
	port          int
	delay         float64
	readTimeout   int
	writeTimeout  int
	maxLogEntries int
	noRequestLog  bool
}

var serveFlagVals serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mock server (foreground)",
	Long: `Start the mock server in the foreground and serve the endpoints
declared in the config file. The server runs until interrupted (Ctrl+C)
or terminated.

Flags override the corresponding settings from the config file's server
section.`,
	Example: `  # Serve endpoints from a config file
  stubd serve --config stubs.yaml

  # Custom port and a process-wide default delay of 250ms
  stubd serve --config stubs.yaml --port 3000 --delay 0.25`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, &serveFlagVals)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	f := &serveFlagVals
	serveCmd.Flags().StringVarP(&f.configFile, "config", "c", "", "Path to endpoint config file (JSON or YAML)")
	serveCmd.Flags().StringVar(&f.host, "host", "", "Interface to bind (default: all interfaces)")
	serveCmd.Flags().IntVarP(&f.port, "port", "p", 0, "HTTP server port (default: 4380)")
	serveCmd.Flags().Float64Var(&f.delay, "delay", 0, "Default response delay in seconds")
	serveCmd.Flags().IntVar(&f.readTimeout, "read-timeout", 0, "Read timeout in seconds")
	serveCmd.Flags().IntVar(&f.writeTimeout, "write-timeout", 0, "Write timeout in seconds")
	serveCmd.Flags().IntVar(&f.maxLogEntries, "max-log-entries", 0, "Maximum request log entries")
	serveCmd.Flags().BoolVar(&f.noRequestLog, "no-request-log", false, "Disable request history logging")

	_ = serveCmd.MarkFlagRequired("config")
}

func runServe(cmd *cobra.Command, f *serveFlags) error {
	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(logLevel),
		Format: logging.ParseFormat(logFormat),
	})

	cfg, endpoints, err := loadServeConfig(f)
	if err != nil {
		return err
	}

	// Relative file-body paths resolve against the config file's directory,
	// so a collection and its payload files travel together.
	baseDir := filepath.Dir(f.configFile)

	srv := engine.NewServer(
		engine.WithLogger(log),
		engine.WithBaseDir(baseDir),
	)
	if err := srv.Configure(cfg, endpoints); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := srv.Start(); err != nil {
		return err
	}

	log.Info("stubd serving", "addr", srv.Addr(), "endpoints", len(endpoints))
	fmt.Fprintf(cmd.OutOrStdout(), "stubd listening on %s (%d endpoints)\n", srv.Addr(), len(endpoints))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh

	log.Info("shutting down", "signal", sig.String())
	return srv.Stop()
}

// loadServeConfig loads the collection and applies flag overrides.
func loadServeConfig(f *serveFlags) (*config.Config, []*stub.Endpoint, error) {
	collection, err := config.LoadFromFile(f.configFile)
	if err != nil {
		return nil, nil, err
	}

	cfg := collection.Server
	if cfg == nil {
		cfg = config.Default()
	} else {
		applyConfigDefaults(cfg)
	}

	if f.host != "" {
		cfg.Host = f.host
	}
	if f.port != 0 {
		cfg.Port = f.port
	}
	if f.delay != 0 {
		cfg.DefaultDelay = f.delay
	}
	if f.readTimeout != 0 {
		cfg.ReadTimeout = f.readTimeout
	}
	if f.writeTimeout != 0 {
		cfg.WriteTimeout = f.writeTimeout
	}
	if f.maxLogEntries != 0 {
		cfg.MaxLogEntries = f.maxLogEntries
	}
	if f.noRequestLog {
		cfg.LogRequests = false
	}

	return cfg, collection.Endpoints, nil
}

// applyConfigDefaults fills zero-valued fields of a file-sourced server
// section with the standard defaults.
func applyConfigDefaults(cfg *config.Config) {
	def := config.Default()
	if cfg.Port == 0 {
		cfg.Port = def.Port
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.MaxLogEntries == 0 {
		cfg.MaxLogEntries = def.MaxLogEntries
	}
}
