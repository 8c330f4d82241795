package config

import "errors"

// Sentinel errors for configuration validation, following this
// codebase's convention of one sentinel per invalid-field condition.
var (
	ErrInvalidMaxNodes              = errors.New("invalid max nodes: must be positive")
	ErrInvalidMaxBuildAdmitRetries  = errors.New("invalid max build admit retries: must be positive")
	ErrInvalidElementSizeBytes      = errors.New("invalid element size bytes: must be positive")
	ErrInvalidReduction             = errors.New("invalid default reduction: must be one of concat, sum, nccl, ring")
	ErrInvalidRingAllReduceThreshold = errors.New("invalid ring all-reduce threshold: must be non-negative")
	ErrInvalidMetricsAddr           = errors.New("invalid metrics address")
)
