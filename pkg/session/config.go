package session

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/disco-protocol/disco-go/pkg/log"
)

// fileConfig is the YAML shape of a session configuration file.
type fileConfig struct {
	// RequestTimeout is a Go duration string (e.g., "30s").
	RequestTimeout string `yaml:"request_timeout"`

	// ProbeTimeout is a Go duration string (e.g., "10s").
	ProbeTimeout string `yaml:"probe_timeout"`

	// ProtocolLog is an optional path for the CBOR protocol trace.
	ProtocolLog string `yaml:"protocol_log"`
}

// LoadConfig reads a session configuration from a YAML file. Fields left
// empty keep their defaults. When protocol_log is set, the returned config
// carries a FileLogger writing to that path; the caller owns closing it.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("%w: request_timeout %q", ErrInvalidConfig, fc.RequestTimeout)
		}
		cfg.RequestTimeout = d
	}

	if fc.ProbeTimeout != "" {
		d, err := time.ParseDuration(fc.ProbeTimeout)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("%w: probe_timeout %q", ErrInvalidConfig, fc.ProbeTimeout)
		}
		cfg.ProbeTimeout = d
	}

	if fc.ProtocolLog != "" {
		fl, err := log.NewFileLogger(fc.ProtocolLog)
		if err != nil {
			return cfg, fmt.Errorf("open protocol log: %w", err)
		}
		cfg.ProtocolLogger = fl
	}

	return cfg, nil
}
