package session

import (
	"errors"
	"log/slog"
	"time"

	"github.com/disco-protocol/disco-go/pkg/caps"
	"github.com/disco-protocol/disco-go/pkg/log"
)

// Session errors.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config configures a discovery Session.
type Config struct {
	// RequestTimeout bounds each discovery request. Default: 30s.
	RequestTimeout time.Duration

	// ProbeTimeout is the stall bound for capability probes: a pending
	// probe older than this is taken over by the next observer.
	// Default: caps.DefaultProbeTimeout.
	ProbeTimeout time.Duration

	// Logger is the optional operational logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger receives the protocol event trace (queries, probes,
	// cache activity, presence). If nil, tracing is disabled.
	ProtocolLogger log.Logger
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 30 * time.Second,
		ProbeTimeout:   caps.DefaultProbeTimeout,
	}
}

// cacheKey identifies one cached disco query scope.
type cacheKey struct {
	entity string
	node   string
}
