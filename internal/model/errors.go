package model

import "errors"

// Sentinel errors for graph construction and node lifecycle, following
// this codebase's convention of package-level sentinel errors rather
// than ad hoc fmt.Errorf strings for conditions callers may want to
// match on.
var (
	// ErrCyclicGraph is returned when the build work-queue exhausts its
	// admission retry budget without making progress — the input graph
	// has a cycle (or an input referencing a name that never appears).
	ErrCyclicGraph = errors.New("model: input graph is cyclic or references an undefined node")

	// ErrEmptyGraph is returned by operations that require at least one node.
	ErrEmptyGraph = errors.New("model: graph is empty")

	// ErrNodeNotFound is returned when a name does not resolve to a node.
	ErrNodeNotFound = errors.New("model: node not found")

	// ErrAlreadyPlaced is returned by Node.PutOnDevices when the node's
	// form has already been assigned once.
	ErrAlreadyPlaced = errors.New("model: node form already assigned")
)
