// Package logging configures slog-based operational logging for stubd.
package logging
