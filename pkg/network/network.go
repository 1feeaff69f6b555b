// Package network holds a validated water-resource network and the
// reference resolver that moves parameters and recorders between node
// attributes and the global registries.
//
// A Network is not safe for concurrent use. After any method returns an
// error the network may be partially mutated and should be discarded.
package network

import (
	"bytes"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-waternet/pkg/docio"
	"github.com/dd0wney/cluso-waternet/pkg/logging"
	"github.com/dd0wney/cluso-waternet/pkg/metrics"
	"github.com/dd0wney/cluso-waternet/pkg/model"
	"github.com/dd0wney/cluso-waternet/pkg/parser"
)

// Load sources, used as the metrics source label
const (
	SourceFile   = "file"
	SourceJSON   = "json"
	SourceReader = "reader"
)

// Network owns every collection of a parsed document
type Network struct {
	metadata    *model.Metadata
	timestepper *model.Timestepper
	nodes       *model.NodeStore
	edges       []model.Edge
	parameters  *model.ComponentSet[*model.Parameter]
	recorders   *model.ComponentSet[*model.Recorder]
	tables      *model.ComponentSet[*model.Table]
	scenarios   []*model.Scenario

	opts    options
	logger  logging.Logger
	metrics *metrics.Registry
}

type options struct {
	raiseOnError        bool
	raiseOnWarning      bool
	allowDuplicateEdges bool
	ruleset             *parser.Ruleset
	logger              logging.Logger
	metrics             *metrics.Registry
}

// Option configures loading
type Option func(*options)

// WithRaiseOnParserError returns the first parser error as the load error
func WithRaiseOnParserError(raise bool) Option {
	return func(o *options) {
		o.raiseOnError = raise
	}
}

// WithRaiseOnParserWarning returns the first parser warning as the load error
func WithRaiseOnParserWarning(raise bool) Option {
	return func(o *options) {
		o.raiseOnWarning = raise
	}
}

// WithAllowDuplicateEdges controls whether repeated edges are warnings (the
// default) or errors
func WithAllowDuplicateEdges(allow bool) Option {
	return func(o *options) {
		o.allowDuplicateEdges = allow
	}
}

// WithRuleset replaces the default parser ruleset
func WithRuleset(rs *parser.Ruleset) Option {
	return func(o *options) {
		o.ruleset = rs
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = logging.NewNopLogger()
		}
		o.logger = logger
	}
}

// WithMetrics records load and resolver metrics in r. Nil disables metrics.
func WithMetrics(r *metrics.Registry) Option {
	return func(o *options) {
		o.metrics = r
	}
}

func newOptions(opts []Option) options {
	o := options{
		allowDuplicateEdges: true,
		logger:              logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ruleset == nil {
		o.ruleset = parser.DefaultRuleset()
	}
	return o
}

// FromFile loads the document at path. Paths ending in ".sz" are read as
// snappy streams and "-" reads standard input.
//
// A non-nil Errors always comes with a nil Network. The error result is
// non-nil only when a raise option is set and a matching finding occurred.
func FromFile(path string, opts ...Option) (*Network, parser.Errors, parser.Warnings, error) {
	l := newLoader(SourceFile, newOptions(opts))
	l.logger = l.logger.With(logging.Path(path))

	src, err := docio.Read(path)
	if err != nil {
		return l.failRead(err)
	}
	return l.load(src)
}

// FromJSON loads a document held in memory
func FromJSON(src []byte, opts ...Option) (*Network, parser.Errors, parser.Warnings, error) {
	return newLoader(SourceJSON, newOptions(opts)).load(src)
}

// FromReader loads a document read in full from r
func FromReader(r io.Reader, opts ...Option) (*Network, parser.Errors, parser.Warnings, error) {
	l := newLoader(SourceReader, newOptions(opts))

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return l.failRead(err)
	}
	return l.load(buf.Bytes())
}

type loader struct {
	source string
	opts   options
	logger logging.Logger
	start  time.Time
}

func newLoader(source string, opts options) *loader {
	return &loader{
		source: source,
		opts:   opts,
		logger: opts.logger.With(logging.LoadID(uuid.NewString()), logging.String("source", source)),
		start:  time.Now(),
	}
}

func (l *loader) failRead(err error) (*Network, parser.Errors, parser.Warnings, error) {
	ve := parser.IOError(err)
	errs := parser.Errors{parser.CategoryNetwork: {ve}}
	l.logger.Warn("failed to read document", logging.Error(err))

	if m := l.opts.metrics; m != nil {
		m.RecordLoad(l.source, metrics.ResultIOError, 0, time.Since(l.start))
		m.RecordParseIssues(errs.Counts(), nil)
	}
	if l.opts.raiseOnError {
		return nil, errs, nil, ve
	}
	return nil, errs, nil, nil
}

func (l *loader) load(src []byte) (*Network, parser.Errors, parser.Warnings, error) {
	l.logger.Debug("loading document", logging.Int("bytes", len(src)))

	p := parser.New(src, parser.Options{
		RaiseOnError:        l.opts.raiseOnError,
		RaiseOnWarning:      l.opts.raiseOnWarning,
		AllowDuplicateEdges: l.opts.allowDuplicateEdges,
		Ruleset:             l.opts.ruleset,
		Logger:              l.logger,
	})
	raised := p.Parse()
	errs, warns := p.Errors(), p.Warnings()

	result := metrics.ResultOK
	if errs != nil || raised != nil {
		result = metrics.ResultInvalid
	}
	if m := l.opts.metrics; m != nil {
		m.RecordLoad(l.source, result, len(src), time.Since(l.start))
		m.RecordParseIssues(errs.Counts(), warns.Counts())
	}

	if raised != nil || errs != nil {
		l.logger.Info("document rejected",
			logging.Int("errors", errs.Len()),
			logging.Int("warnings", len(warns)),
			logging.Latency(time.Since(l.start)))
		return nil, errs, warns, raised
	}

	n := &Network{
		metadata:    p.Metadata(),
		timestepper: p.Timestepper(),
		nodes:       p.Nodes(),
		edges:       p.Edges(),
		parameters:  p.Parameters(),
		recorders:   p.Recorders(),
		tables:      p.Tables(),
		scenarios:   p.Scenarios(),
		opts:        l.opts,
		logger:      l.logger,
		metrics:     l.opts.metrics,
	}
	if m := n.metrics; m != nil {
		report := n.Report()
		m.SetNetworkSize(report[ReportNodes], report[ReportEdges], report.Components())
	}

	l.logger.Info("document loaded",
		logging.Int("nodes", n.nodes.Len()),
		logging.Int("edges", len(n.edges)),
		logging.Int("warnings", len(warns)),
		logging.Latency(time.Since(l.start)))
	return n, nil, warns, nil
}

func (n *Network) Metadata() *model.Metadata                         { return n.metadata }
func (n *Network) Timestepper() *model.Timestepper                   { return n.timestepper }
func (n *Network) Nodes() *model.NodeStore                           { return n.nodes }
func (n *Network) Edges() []model.Edge                               { return n.edges }
func (n *Network) Parameters() *model.ComponentSet[*model.Parameter] { return n.parameters }
func (n *Network) Recorders() *model.ComponentSet[*model.Recorder]   { return n.recorders }
func (n *Network) Tables() *model.ComponentSet[*model.Table]         { return n.tables }
func (n *Network) Scenarios() []*model.Scenario                      { return n.scenarios }

// AllowsDuplicateEdges reports the duplicate edge policy the network was loaded with
func (n *Network) AllowsDuplicateEdges() bool {
	return n.opts.allowDuplicateEdges
}
