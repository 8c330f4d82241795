// Package middleware implements the Chain of Responsibility pattern
// around per-node compilation, the way this codebase wraps node
// execution in a configurable middleware chain instead of hard-coding
// cross-cutting concerns (logging, metrics, timeouts) into the compiler.
package middleware

import (
	"github.com/tgecore/tge/internal/graphdef"
	"github.com/tgecore/tge/internal/model"
)

// Handler compiles one node into its per-replica operator definitions.
type Handler func(n *model.Node) ([]graphdef.Node, error)

// Middleware can inspect, time, or short-circuit the compilation of a
// single node.
type Middleware interface {
	// Process runs around the node compiler: it may act before calling
	// next, call next to continue the chain, inspect or modify the
	// result after next returns, or skip next entirely.
	Process(n *model.Node, next Handler) ([]graphdef.Node, error)

	// Name identifies the middleware for logging and debugging.
	Name() string
}

// Chain is an ordered sequence of Middleware wrapping a final Handler.
type Chain struct {
	middlewares []Middleware
}

// NewChain creates an empty Chain.
func NewChain() *Chain {
	return &Chain{}
}

// Use appends middleware to the chain, executed in the order added.
func (c *Chain) Use(m Middleware) *Chain {
	c.middlewares = append(c.middlewares, m)
	return c
}

// Execute runs the chain followed by handler.
func (c *Chain) Execute(n *model.Node, handler Handler) ([]graphdef.Node, error) {
	if len(c.middlewares) == 0 {
		return handler(n)
	}

	index := 0
	var next Handler
	next = func(n *model.Node) ([]graphdef.Node, error) {
		if index >= len(c.middlewares) {
			return handler(n)
		}
		m := c.middlewares[index]
		index++
		return m.Process(n, next)
	}

	return next(n)
}

// Len returns the number of middleware in the chain.
func (c *Chain) Len() int { return len(c.middlewares) }
