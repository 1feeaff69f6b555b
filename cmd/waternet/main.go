package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dd0wney/cluso-waternet/pkg/logging"
	"github.com/dd0wney/cluso-waternet/pkg/metrics"
	"github.com/dd0wney/cluso-waternet/pkg/network"
	"github.com/dd0wney/cluso-waternet/pkg/parser"
)

// Exit codes
const (
	exitOK      = 0
	exitInvalid = 1 // document rejected or constraint errors
	exitUsage   = 2
)

const usage = `waternet - inspect and resolve water network documents

Usage:
  waternet [global flags] <command> [flags] <file>

Available Commands:
  validate    Parse the document and report errors, warnings and constraint violations
  report      Print a summary of the network
  export      Write the network as JSON or YAML
  refs        Add back-references, attach components and print the result
  query       Run a GraphQL query against the network
  serve       Serve GraphQL queries and metrics over HTTP
  help        Show this help message

A file of "-" reads the document from stdin. Paths ending in .sz are
snappy compressed.

Global Flags:
`

// app carries the settings and sinks shared by all commands
type app struct {
	cfg     *Config
	logger  logging.Logger
	metrics *metrics.Registry
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one CLI invocation and returns the process exit code
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("waternet", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "YAML config file")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "", "Log format (json, text)")
	allowDup := fs.Bool("allow-duplicate-edges", true, "Report duplicate edges as warnings instead of errors")
	raiseErr := fs.Bool("raise-on-error", false, "Stop at the first parser error")
	raiseWarn := fs.Bool("raise-on-warning", false, "Stop at the first parser warning")
	metricsOut := fs.String("metrics-out", "", "Write Prometheus textfile metrics to this path")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	// Flags given on the command line override the config file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		case "allow-duplicate-edges":
			cfg.AllowDuplicateEdges = *allowDup
		case "raise-on-error":
			cfg.RaiseOnError = *raiseErr
		case "raise-on-warning":
			cfg.RaiseOnWarning = *raiseWarn
		case "metrics-out":
			cfg.MetricsOut = *metricsOut
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	a := &app{
		cfg:     cfg,
		logger:  logging.New(stderr, logging.ParseLevel(cfg.LogLevel), logging.ParseFormat(cfg.LogFormat)),
		metrics: metrics.NewRegistry(),
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
	}

	command, rest := fs.Arg(0), fs.Args()[1:]
	var code int
	switch command {
	case "validate":
		code = a.validate(rest)
	case "report":
		code = a.report(rest)
	case "export":
		code = a.export(rest)
	case "refs":
		code = a.refs(rest)
	case "query":
		code = a.query(rest)
	case "serve":
		code = a.serve(rest)
	case "help", "--help", "-h":
		fs.Usage()
		return exitOK
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		fs.Usage()
		return exitUsage
	}

	if cfg.MetricsOut != "" {
		if err := a.metrics.WriteTextfile(cfg.MetricsOut); err != nil {
			a.logger.Error("failed to write metrics", logging.Path(cfg.MetricsOut), logging.Error(err))
		}
	}
	return code
}

// options maps the config onto network load options
func (a *app) options() []network.Option {
	return []network.Option{
		network.WithAllowDuplicateEdges(a.cfg.AllowDuplicateEdges),
		network.WithRaiseOnParserError(a.cfg.RaiseOnError),
		network.WithRaiseOnParserWarning(a.cfg.RaiseOnWarning),
		network.WithLogger(a.logger),
		network.WithMetrics(a.metrics),
	}
}

// load reads the document at path ("-" for stdin)
func (a *app) load(path string) (*network.Network, parser.Errors, parser.Warnings, error) {
	if path == "-" {
		return network.FromReader(a.stdin, a.options()...)
	}
	return network.FromFile(path, a.options()...)
}

// mustLoad loads the document named by the single positional argument of
// fs. It prints parser findings and returns nil when the document was
// rejected.
func (a *app) mustLoad(fs *flag.FlagSet) (*network.Network, int) {
	if fs.NArg() != 1 {
		fmt.Fprintf(a.stderr, "Error: %s expects exactly one document\n", fs.Name())
		return nil, exitUsage
	}

	n, errs, warnings, err := a.load(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return nil, exitInvalid
	}
	if n == nil {
		printFindings(a.stderr, errs, warnings)
		return nil, exitInvalid
	}
	return n, exitOK
}

// newFlagSet creates a subcommand flag set writing usage to stderr
func (a *app) newFlagSet(name, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage:\n  waternet %s\n\nFlags:\n", synopsis)
		fs.PrintDefaults()
	}
	return fs
}

// parseFlags parses subcommand args, mapping -h to a clean exit
func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK, false
		}
		return exitUsage, false
	}
	return exitOK, true
}
