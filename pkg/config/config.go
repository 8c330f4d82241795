// Package config centralizes the compiler's tunable limits and
// strategy knobs behind named profiles, the way this codebase keeps
// runtime configuration in one validated, clonable struct rather than
// scattered flags or constants.
package config

import (
	"net"

	"github.com/tgecore/tge/internal/transition"
)

// Config holds every tunable the compile pass consults.
type Config struct {
	// MaxNodes caps the number of operator definitions the CLI accepts
	// in a single request; model.Build itself applies no such cap.
	MaxNodes int

	// MaxBuildAdmitRetries bounds how many times the graph builder's
	// admission queue will re-enqueue a not-yet-ready definition before
	// reporting the input cyclic.
	MaxBuildAdmitRetries int

	// ElementSizeBytes is the per-element byte size assumed when no
	// richer dtype-width table is consulted (the reference compiler
	// hard-codes 4; this makes it a knob instead).
	ElementSizeBytes int64

	// DefaultReduction selects the Part->Full alternative: concat or sum
	// aggregate on the consumer's first device; nccl or ring select that
	// all-reduce when producer and consumer share the same device list,
	// and otherwise fall back to concat.
	DefaultReduction transition.Reduction

	// RingAllReduceThreshold is the replica count at or above which ring
	// all-reduce is preferred over NCCL all-reduce for a same-device-set
	// Part->Full transition. 0 disables the ring preference entirely.
	RingAllReduceThreshold int

	// LogLevel is the minimum slog level name ("debug", "info", "warn", "error").
	LogLevel string
	// LogPretty selects a human-readable text handler instead of JSON.
	LogPretty bool

	// MetricsAddr is the listen address for the Prometheus metrics
	// endpoint; empty disables it.
	MetricsAddr string
}

// Default returns the baseline configuration: generous limits, concat
// aggregation, ring all-reduce disabled, JSON logging at info level.
func Default() *Config {
	return &Config{
		MaxNodes:               100000,
		MaxBuildAdmitRetries:    10000,
		ElementSizeBytes:        4,
		DefaultReduction:        transition.ReductionConcat,
		RingAllReduceThreshold:  0,
		LogLevel:                "info",
		LogPretty:               false,
		MetricsAddr:             "",
	}
}

// Strict returns a configuration with tight admission retry and node
// caps, suited to compiling known-good, well-ordered input where a
// runaway retry loop signals a real bug rather than input disorder.
func Strict() *Config {
	cfg := Default()
	cfg.MaxNodes = 10000
	cfg.MaxBuildAdmitRetries = 64
	return cfg
}

// Development returns a configuration favoring fast, verbose iteration:
// pretty-printed debug logs and ring all-reduce enabled at a low
// threshold so the ring builder gets exercised on small graphs.
func Development() *Config {
	cfg := Default()
	cfg.LogLevel = "debug"
	cfg.LogPretty = true
	cfg.DefaultReduction = transition.ReductionRing
	cfg.RingAllReduceThreshold = 2
	return cfg
}

// Testing returns a configuration with small limits suited to unit
// tests exercising the admission retry cap and node limits directly.
func Testing() *Config {
	cfg := Default()
	cfg.MaxNodes = 256
	cfg.MaxBuildAdmitRetries = 32
	return cfg
}

// Validate checks that every field holds a legal value.
func (c *Config) Validate() error {
	if c.MaxNodes <= 0 {
		return ErrInvalidMaxNodes
	}
	if c.MaxBuildAdmitRetries <= 0 {
		return ErrInvalidMaxBuildAdmitRetries
	}
	if c.ElementSizeBytes <= 0 {
		return ErrInvalidElementSizeBytes
	}
	switch c.DefaultReduction {
	case transition.ReductionConcat, transition.ReductionSum, transition.ReductionNCCL, transition.ReductionRing:
	default:
		return ErrInvalidReduction
	}
	if c.RingAllReduceThreshold < 0 {
		return ErrInvalidRingAllReduceThreshold
	}
	if c.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
			return ErrInvalidMetricsAddr
		}
	}
	return nil
}

// Clone returns an independent copy; Config currently has no
// reference-typed fields, but Clone is kept (rather than relying on
// plain assignment at call sites) so future fields can't silently
// reintroduce aliasing.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// TransitionOptions projects the compiler-facing subset of Config into
// the transition package's Options type.
func (c *Config) TransitionOptions() transition.Options {
	return transition.Options{
		ElementSizeBytes:       c.ElementSizeBytes,
		Reduction:              c.DefaultReduction,
		RingAllReduceThreshold: c.RingAllReduceThreshold,
	}
}
