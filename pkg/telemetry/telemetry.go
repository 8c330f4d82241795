// Package telemetry wires the compile pass into OpenTelemetry metrics
// with a Prometheus exporter, the way this codebase's telemetry package
// sets up a Provider holding a meter and a fixed set of named
// instruments rather than recording ad hoc metrics at call sites.
package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const serviceName = "tge-compiler"

const (
	metricNodesCompiled    = "tge.nodes.compiled"
	metricAuxEmitted       = "tge.aux.emitted"
	metricCompileDuration  = "tge.compile.duration"
	metricBuildRetries     = "tge.build.retries"
	metricCompileFailures  = "tge.compile.failures"
)

// Provider holds the meter and the fixed set of instruments the
// compile pass records against.
type Provider struct {
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter

	nodesCompiled   metric.Int64Counter
	auxEmitted      metric.Int64Counter
	compileDuration metric.Float64Histogram
	buildRetries    metric.Int64Counter
	compileFailures metric.Int64Counter

	mu sync.RWMutex
}

// Config holds telemetry configuration.
type Config struct {
	ServiceVersion string
	Environment    string
}

// DefaultConfig returns a development-environment configuration.
func DefaultConfig() Config {
	return Config{ServiceVersion: "0.1.0", Environment: "development"}
}

// NewProvider sets up a Prometheus-backed OpenTelemetry meter provider
// and registers this package's instruments against it.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	p := &Provider{}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			attribute.String("environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: building resource: %w", err)
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating prometheus exporter: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(p.meterProvider)
	p.meter = p.meterProvider.Meter(serviceName)

	if err := p.createInstruments(); err != nil {
		return nil, fmt.Errorf("telemetry: creating instruments: %w", err)
	}
	return p, nil
}

func (p *Provider) createInstruments() error {
	var err error

	if p.nodesCompiled, err = p.meter.Int64Counter(metricNodesCompiled,
		metric.WithDescription("Total number of graph nodes compiled")); err != nil {
		return err
	}
	if p.auxEmitted, err = p.meter.Int64Counter(metricAuxEmitted,
		metric.WithDescription("Total number of auxiliary operators emitted by transition builders")); err != nil {
		return err
	}
	if p.compileDuration, err = p.meter.Float64Histogram(metricCompileDuration,
		metric.WithDescription("Compile pass duration"), metric.WithUnit("ms")); err != nil {
		return err
	}
	if p.buildRetries, err = p.meter.Int64Counter(metricBuildRetries,
		metric.WithDescription("Total number of admission-queue re-enqueues during graph build")); err != nil {
		return err
	}
	if p.compileFailures, err = p.meter.Int64Counter(metricCompileFailures,
		metric.WithDescription("Total number of compile pass failures")); err != nil {
		return err
	}
	return nil
}

// Meter returns the provider's meter for ad hoc instruments.
func (p *Provider) Meter() metric.Meter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meter
}

// RecordNodeCompiled records that a node finished compiling, with its
// replica count.
func (p *Provider) RecordNodeCompiled(ctx context.Context, nodeName string, replicas int) {
	if p.nodesCompiled == nil {
		return
	}
	p.nodesCompiled.Add(ctx, 1, metric.WithAttributes(
		attribute.String("node", nodeName),
		attribute.Int("replicas", replicas),
	))
}

// RecordAuxEmitted adds count auxiliary operators emitted by one
// transition builder run, labeled by the builder's kind (e.g.
// "split", "aggregate_concat", "allreduce_ring").
func (p *Provider) RecordAuxEmitted(ctx context.Context, builderKind string, count int) {
	if p.auxEmitted == nil {
		return
	}
	p.auxEmitted.Add(ctx, int64(count), metric.WithAttributes(attribute.String("builder", builderKind)))
}

// RecordCompilePass records the wall-clock duration and outcome of a
// full compile pass.
func (p *Provider) RecordCompilePass(ctx context.Context, duration time.Duration, success bool) {
	if p.compileDuration == nil {
		return
	}
	p.compileDuration.Record(ctx, float64(duration.Milliseconds()))
	if !success {
		p.compileFailures.Add(ctx, 1)
	}
}

// RecordBuildRetry records one admission-queue re-enqueue during graph build.
func (p *Provider) RecordBuildRetry(ctx context.Context) {
	if p.buildRetries == nil {
		return
	}
	p.buildRetries.Add(ctx, 1)
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("telemetry: shutting down meter provider: %w", err)
		}
	}
	return nil
}
