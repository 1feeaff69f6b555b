package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/cluso-waternet/pkg/constraints"
	"github.com/dd0wney/cluso-waternet/pkg/docio"
	"github.com/dd0wney/cluso-waternet/pkg/graphql"
	"github.com/dd0wney/cluso-waternet/pkg/health"
	"github.com/dd0wney/cluso-waternet/pkg/logging"
	"github.com/dd0wney/cluso-waternet/pkg/network"
	"github.com/dd0wney/cluso-waternet/pkg/parser"
)

func (a *app) validate(args []string) int {
	fs := a.newFlagSet("validate", "validate [-strict] <file>")
	strict := fs.Bool("strict", false, "Fail on constraint warnings too")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}

	n, errs, warnings, err := a.load(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitInvalid
	}
	printFindings(a.stdout, errs, warnings)
	if n == nil {
		return exitInvalid
	}

	result, err := n.Validate(a.cfg.ExtraConstraints()...)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitInvalid
	}
	printViolations(a.stdout, result.Violations)

	if result.HasErrors() || (*strict && !result.Valid) {
		return exitInvalid
	}
	fmt.Fprintf(a.stdout, "OK: %d nodes, %d edges\n", n.Nodes().Len(), len(n.Edges()))
	return exitOK
}

func (a *app) export(args []string) int {
	fs := a.newFlagSet("export", "export [-format json|yaml] [-attach] [-o path] <file>")
	format := fs.String("format", "json", "Output format (json, yaml)")
	attach := fs.Bool("attach", false, "Attach parameters and recorders to their nodes first")
	out := fs.String("o", "-", "Output path (- for stdout, .sz compresses)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if *format != "json" && *format != "yaml" {
		fmt.Fprintf(a.stderr, "Error: unknown format %q\n", *format)
		return exitUsage
	}

	n, code := a.mustLoad(fs)
	if n == nil {
		return code
	}
	if *attach {
		if err := attachAll(n); err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return exitInvalid
		}
	}
	return a.writeDocument(n, *format, *out)
}

func (a *app) refs(args []string) int {
	fs := a.newFlagSet("refs", "refs [-format json|yaml] [-o path] <file>")
	format := fs.String("format", "json", "Output format (json, yaml)")
	out := fs.String("o", "-", "Output path (- for stdout, .sz compresses)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	n, code := a.mustLoad(fs)
	if n == nil {
		return code
	}

	params := n.AddParameterReferences()
	recorders := n.AddRecorderReferences()
	fmt.Fprintf(a.stderr, "Added %d parameter and %d recorder references\n", params, recorders)

	if err := attachAll(n); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitInvalid
	}
	return a.writeDocument(n, *format, *out)
}

func (a *app) query(args []string) int {
	fs := a.newFlagSet("query", "query -q QUERY [-vars JSON] [-max-depth N] <file>")
	query := fs.String("q", "", "GraphQL query")
	vars := fs.String("vars", "", "Query variables as a JSON object")
	maxDepth := fs.Int("max-depth", a.cfg.Serve.MaxDepth, "Maximum query depth")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if *query == "" {
		fmt.Fprintln(a.stderr, "Error: -q is required")
		return exitUsage
	}
	var variables map[string]any
	if *vars != "" {
		if err := json.Unmarshal([]byte(*vars), &variables); err != nil {
			fmt.Fprintf(a.stderr, "Error: invalid -vars: %v\n", err)
			return exitUsage
		}
	}

	n, code := a.mustLoad(fs)
	if n == nil {
		return code
	}
	schema, err := graphql.GenerateSchemaWithLimits(n, a.cfg.limits())
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitInvalid
	}

	result := graphql.ExecuteWithDepthLimit(context.Background(), schema, *query, *maxDepth, variables)
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitInvalid
	}
	fmt.Fprintln(a.stdout, string(data))
	if result.HasErrors() {
		return exitInvalid
	}
	return exitOK
}

func (a *app) serve(args []string) int {
	fs := a.newFlagSet("serve", "serve [-addr host:port] [-max-depth N] <file>")
	addr := fs.String("addr", a.cfg.Serve.Addr, "Listen address")
	maxDepth := fs.Int("max-depth", a.cfg.Serve.MaxDepth, "Maximum query depth")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	n, code := a.mustLoad(fs)
	if n == nil {
		return code
	}
	handler, err := a.newServeMux(n, *maxDepth)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitInvalid
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		a.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("shutdown failed", logging.Error(err))
		}
	}()

	a.logger.Info("server starting", logging.String("addr", *addr))
	timer := logging.StartTimer(a.logger, "server stopped", logging.String("addr", *addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		timer.EndError(err)
		return exitInvalid
	}
	timer.End()
	return exitOK
}

// newServeMux routes /graphql, /metrics, /health and /ready for a loaded network
func (a *app) newServeMux(n *network.Network, maxDepth int) (*http.ServeMux, error) {
	schema, err := graphql.GenerateSchemaWithLimits(n, a.cfg.limits())
	if err != nil {
		return nil, err
	}

	extra := a.cfg.ExtraConstraints()
	validate := func() (*constraints.ValidationResult, error) { return n.Validate(extra...) }
	size := func() (int, int) { return n.Nodes().Len(), len(n.Edges()) }

	hc := health.NewHealthChecker()
	hc.RegisterCheck("network", health.NetworkCheck(size))
	hc.RegisterCheck("constraints", health.ConstraintCheck(validate))
	hc.RegisterCheck("memory", health.MemoryCheck(func() (uint64, uint64) {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return ms.HeapAlloc, ms.Sys
	}))
	hc.RegisterReadinessCheck("network", health.NetworkCheck(size))

	mux := http.NewServeMux()
	mux.Handle("/graphql", graphql.NewGraphQLHandler(schema, maxDepth, a.logger))
	mux.Handle("/metrics", promhttp.HandlerFor(a.metrics.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
	mux.Handle("/health", hc.HTTPHandler())
	mux.Handle("/ready", hc.ReadinessHandler())
	return mux, nil
}

func attachAll(n *network.Network) error {
	if err := n.AttachParameters(); err != nil {
		return err
	}
	return n.AttachRecorders()
}

// writeDocument encodes n and writes it to path ("-" for stdout)
func (a *app) writeDocument(n *network.Network, format, path string) int {
	var (
		data []byte
		err  error
	)
	if format == "yaml" {
		data, err = n.AsYAML()
	} else {
		data, err = n.AsJSON()
		data = append(data, '\n')
	}
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitInvalid
	}

	if path == "-" {
		err = docio.WriteTo(a.stdout, data, false)
	} else {
		err = docio.Write(path, data)
	}
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitInvalid
	}
	return exitOK
}

// printFindings prints parser errors grouped by category, then warnings
func printFindings(w io.Writer, errs parser.Errors, warnings parser.Warnings) {
	if errs.Len() > 0 {
		fmt.Fprintf(w, "Errors (%d):\n", errs.Len())
		for _, category := range errs.Categories() {
			fmt.Fprintf(w, "  %s:\n", category)
			for _, ve := range errs[category] {
				fmt.Fprintf(w, "    - %v\n", ve)
			}
		}
	}
	if len(warnings) > 0 {
		fmt.Fprintf(w, "Warnings (%d):\n", len(warnings))
		for _, ve := range warnings {
			fmt.Fprintf(w, "  - %v\n", ve)
		}
	}
}

func printViolations(w io.Writer, violations []constraints.Violation) {
	if len(violations) == 0 {
		return
	}
	fmt.Fprintf(w, "Constraint violations (%d):\n", len(violations))
	for _, v := range violations {
		fmt.Fprintf(w, "  - [%s] %s: %s\n", v.Severity, v.Constraint, v.Message)
	}
}
