// Command tge compiles a single-device operator graph into a
// multi-device graph given a fixed device table and a per-node form
// assignment.
//
// Usage:
//
//	tge -in plan.json -out compiled.json [flags]
//
// Flags:
//
//	-in string
//	    Path to the compile-request JSON: {"nodes": [...], "devices":
//	    [...], "forms": {"node_name": "full_0_1", ...}, "all_reduce":
//	    {"node_name": "ring"|"nccl", ...}}
//	-out string
//	    Path to write the compiled GraphDef JSON to (default: stdout)
//	-log-level string
//	    Minimum log level: debug, info, warn, error (default "info")
//	-log-pretty
//	    Use human-readable text logs instead of JSON
//	-metrics-addr string
//	    If set, serve Prometheus metrics on this address while compiling
//	-max-nodes int
//	    Maximum number of operator definitions accepted (default 100000)
//	-max-build-retries int
//	    Admission-queue re-enqueue cap before reporting a cyclic graph
//	-element-size-bytes int
//	    Per-element byte size used for tensor-size annotations (default 4)
//	-reduction string
//	    Part->Full fallback aggregate when no same-device-set collective
//	    applies: concat or sum (default "concat")
//
// The "all_reduce" map in -in is part of the compile plan's schema but
// is advisory only: nothing reads it. This binary never selects NCCL or
// ring all-reduce: -reduction accepts only concat or sum, and the ring
// all-reduce threshold stays at the Default profile's 0 (disabled).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tgecore/tge/internal/compiler"
	"github.com/tgecore/tge/internal/form"
	"github.com/tgecore/tge/internal/graphdef"
	"github.com/tgecore/tge/internal/model"
	"github.com/tgecore/tge/internal/target"
	"github.com/tgecore/tge/internal/transition"
	"github.com/tgecore/tge/internal/validate"
	"github.com/tgecore/tge/pkg/config"
	"github.com/tgecore/tge/pkg/logging"
	"github.com/tgecore/tge/pkg/middleware"
	"github.com/tgecore/tge/pkg/observer"
	"github.com/tgecore/tge/pkg/telemetry"
)

// compileRequest is the -in document shape, matching internal/validate's
// JSON Schema and SPEC_FULL.md's CLI I/O contract.
type compileRequest struct {
	Nodes     []graphdef.Node   `json:"nodes"`
	Devices   []string          `json:"devices"`
	Forms     map[string]string `json:"forms"`
	AllReduce map[string]string `json:"all_reduce"`
}

// compileResponse is the -out document shape.
type compileResponse struct {
	Node []graphdef.Node `json:"node"`
}

func main() {
	inPath := flag.String("in", "", "Path to the compile-request JSON (required)")
	outPath := flag.String("out", "", "Path to write the compiled GraphDef JSON (default: stdout)")
	logLevel := flag.String("log-level", "info", "Minimum log level: debug, info, warn, error")
	logPretty := flag.Bool("log-pretty", false, "Use human-readable text logs instead of JSON")
	metricsAddr := flag.String("metrics-addr", "", "If set, serve Prometheus metrics on this address while compiling")
	maxNodes := flag.Int("max-nodes", 0, "Maximum number of operator definitions accepted (0 = use profile default)")
	maxBuildRetries := flag.Int("max-build-retries", 0, "Admission-queue re-enqueue cap (0 = use profile default)")
	elementSizeBytes := flag.Int64("element-size-bytes", 0, "Per-element byte size for tensor-size annotations (0 = use profile default)")
	reduction := flag.String("reduction", "", "Part->Full fallback aggregate: concat or sum (empty = use profile default)")

	flag.Parse()

	if err := run(*inPath, *outPath, *logLevel, *logPretty, *metricsAddr, *maxNodes, *maxBuildRetries, *elementSizeBytes, *reduction); err != nil {
		fmt.Fprintf(os.Stderr, "tge: %v\n", err)
		os.Exit(1)
	}
}

func run(inPath, outPath, logLevel string, logPretty bool, metricsAddr string, maxNodes, maxBuildRetries int, elementSizeBytes int64, reduction string) error {
	if inPath == "" {
		return fmt.Errorf("-in is required")
	}

	cfg := config.Default()
	cfg.LogLevel = logLevel
	cfg.LogPretty = logPretty
	cfg.MetricsAddr = metricsAddr
	if maxNodes > 0 {
		cfg.MaxNodes = maxNodes
	}
	if maxBuildRetries > 0 {
		cfg.MaxBuildAdmitRetries = maxBuildRetries
	}
	if elementSizeBytes > 0 {
		cfg.ElementSizeBytes = elementSizeBytes
	}
	switch reduction {
	case "":
	case string(transition.ReductionConcat), string(transition.ReductionSum):
		cfg.DefaultReduction = transition.Reduction(reduction)
	default:
		return fmt.Errorf("-reduction must be concat or sum, got %q", reduction)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	raw, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}

	if err := validate.Payload(raw); err != nil {
		return err
	}
	var req compileRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("decoding %s: %w", inPath, err)
	}

	if len(req.Nodes) > cfg.MaxNodes {
		return fmt.Errorf("request has %d nodes, exceeding max-nodes %d", len(req.Nodes), cfg.MaxNodes)
	}

	ctx := context.Background()

	var provider *telemetry.Provider
	if cfg.MetricsAddr != "" {
		provider, err = telemetry.NewProvider(ctx, telemetry.DefaultConfig())
		if err != nil {
			return fmt.Errorf("setting up telemetry: %w", err)
		}
		defer provider.Shutdown(ctx)

		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: promhttp.Handler()}
		go func() {
			logger.Infof("serving metrics on %s/metrics", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.WithError(err).Error("metrics server stopped unexpectedly")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		if _, ok := <-sigChan; ok {
			logger.Warn("received interrupt, compile pass will not be cancelled mid-pass (no suspension points)")
		}
	}()

	tgt := target.New(req.Devices)
	logger = logger.WithRunID(tgt.RunID)
	logger.WithGraph(len(req.Nodes)).Info("starting compile pass")

	start := time.Now()
	graph, err := model.Build(req.Nodes, cfg.MaxBuildAdmitRetries)
	if err != nil {
		if provider != nil {
			provider.RecordCompilePass(ctx, time.Since(start), false)
		}
		return fmt.Errorf("building graph: %w", err)
	}

	for name, code := range req.Forms {
		n, ok := graph.NodeByName(name)
		if !ok {
			return fmt.Errorf("forms: unknown node %q", name)
		}
		f := form.FromCode(code)
		if err := n.PutOnDevices(f.Kind, f.Devices); err != nil {
			return fmt.Errorf("forms: node %q: %w", name, err)
		}
	}

	chain := middleware.NewChain().
		Use(middleware.NewLoggingMiddleware(logger))
	if provider != nil {
		chain.Use(middleware.NewMetricsMiddleware(provider))
	}

	c := compiler.New(graph, tgt, cfg.TransitionOptions(), chain)
	c.Observers().Register(observer.NewLoggingObserver(logger))
	if provider != nil {
		c.Observers().Register(telemetry.NewObserver(provider, nil))
	}

	if err := c.Run(); err != nil {
		return fmt.Errorf("compiling: %w", err)
	}

	logger.WithField("ops_emitted", tgt.Len()).WithField("duration_ms", time.Since(start).Milliseconds()).Info("compile pass completed")

	out, err := json.MarshalIndent(compileResponse{Node: tgt.Nodes()}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	if outPath == "" {
		_, err = os.Stdout.Write(append(out, '\n'))
		return err
	}
	return os.WriteFile(outPath, append(out, '\n'), 0o644)
}
