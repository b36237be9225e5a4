// Package log provides structured protocol logging for the discovery
// engine.
//
// This package defines the Logger interface and Event types for capturing
// discovery-level events (queries, capability probes, cache activity,
// presence advertisements). It is separate from operational logging (slog)
// - protocol capture provides a complete machine-readable event trace for
// debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/var/log/disco/session.dlog")
//
//	// Both: use MultiLogger
//	cfg.ProtocolLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    log.NewFileLogger("/var/log/disco/session.dlog"),
//	)
//
// # Event Types
//
// Events are captured per concern:
//   - Queries: outbound disco requests and their outcomes (QueryEvent)
//   - Probes: capability verification attempts (ProbeEvent)
//   - Caches: hits, misses, stores, invalidations (CacheEvent)
//   - Presence: capability advertisements seen in presence (PresenceEvent)
//
// Errors at any layer use a dedicated event type.
//
// # File Format
//
// Log files use CBOR encoding with .dlog extension.
package log
