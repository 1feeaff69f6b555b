// Package parser decodes and validates network documents. It checks the
// document shape against an embedded JSON schema, builds the model
// components and runs a Ruleset over each of them, collecting errors by
// component category and warnings in document order.
package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/dd0wney/cluso-waternet/pkg/logging"
	"github.com/dd0wney/cluso-waternet/pkg/model"
	"github.com/dd0wney/cluso-waternet/pkg/validation"
)

// Options controls parsing. The zero value raises nothing and rejects
// duplicate edges; use DefaultOptions for the usual configuration.
type Options struct {
	// RaiseOnError stops at the first error and returns it from Parse
	RaiseOnError bool
	// RaiseOnWarning stops at the first warning and returns it from Parse
	RaiseOnWarning bool
	// AllowDuplicateEdges reports repeated edges as warnings instead of errors
	AllowDuplicateEdges bool
	Ruleset             *Ruleset
	Logger              logging.Logger
}

// DefaultOptions allows duplicate edges and uses the default ruleset
func DefaultOptions() Options {
	return Options{
		AllowDuplicateEdges: true,
		Ruleset:             DefaultRuleset(),
		Logger:              logging.NewNopLogger(),
	}
}

// Parser turns one document into model components
type Parser struct {
	src    []byte
	opts   Options
	logger logging.Logger

	metadata    *model.Metadata
	timestepper *model.Timestepper
	nodes       *model.NodeStore
	edges       []model.Edge
	parameters  *model.ComponentSet[*model.Parameter]
	recorders   *model.ComponentSet[*model.Recorder]
	tables      *model.ComponentSet[*model.Table]
	scenarios   []*model.Scenario

	errors   Errors
	warnings Warnings
	raised   *ValidationError
	parsed   bool
}

// New creates a parser for src
func New(src []byte, opts Options) *Parser {
	if opts.Ruleset == nil {
		opts.Ruleset = DefaultRuleset()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	return &Parser{
		src:        src,
		opts:       opts,
		logger:     opts.Logger.With(logging.String("ruleset", opts.Ruleset.Name())),
		nodes:      model.NewNodeStore(),
		parameters: model.NewComponentSet[*model.Parameter](),
		recorders:  model.NewComponentSet[*model.Recorder](),
		tables:     model.NewComponentSet[*model.Table](),
		errors:     make(Errors),
	}
}

// Parse validates the document. Findings are collected and available from
// Errors and Warnings. The returned error is non-nil only when a raise
// option was set and a matching finding occurred; it is the finding itself.
func (p *Parser) Parse() error {
	if p.parsed {
		return p.raisedErr()
	}
	p.parsed = true
	start := time.Now()

	doc, ok := p.decode()
	if !ok {
		return p.raisedErr()
	}

	schemaErrs, err := checkSchema(p.src)
	if err != nil {
		p.report(&ValidationError{Message: err.Error(), Severity: SeverityError, Category: CategoryNetwork, Rule: "schema"})
		return p.raisedErr()
	}
	for _, ve := range schemaErrs {
		p.report(ve)
	}
	if p.HasErrors() || p.raised != nil {
		return p.raisedErr()
	}

	stages := []func(map[string]any){
		p.parseMetadata,
		p.parseTimestepper,
		p.parseNodes,
		p.parseEdges,
		p.parseParameters,
		p.parseRecorders,
		p.parseTables,
		p.parseScenarios,
	}
	for _, stage := range stages {
		if p.raised != nil {
			break
		}
		stage(doc)
	}

	p.logger.Debug("document parsed",
		logging.Int("errors", p.errors.Len()),
		logging.Int("warnings", len(p.warnings)),
		logging.Latency(time.Since(start)))
	return p.raisedErr()
}

func (p *Parser) raisedErr() error {
	if p.raised == nil {
		return nil
	}
	return p.raised
}

// report files a finding, honouring the raise options
func (p *Parser) report(ve *ValidationError) {
	if p.raised != nil {
		return
	}

	p.logger.Debug(ve.Message,
		logging.Category(ve.Category),
		logging.Component(ve.Component),
		logging.String("severity", ve.Severity.String()),
		logging.String("rule", ve.Rule))

	if ve.Severity == SeverityWarning {
		p.warnings = append(p.warnings, ve)
		if p.opts.RaiseOnWarning {
			p.raised = ve
		}
		return
	}

	p.errors[ve.Category] = append(p.errors[ve.Category], ve)
	if p.opts.RaiseOnError {
		p.raised = ve
	}
}

func (p *Parser) reportError(category, component, location, rule, msg string) {
	p.report(&ValidationError{
		Message:   msg,
		Severity:  SeverityError,
		Category:  category,
		Component: component,
		Rule:      rule,
		Location:  location,
	})
}

// applyRules runs the ruleset against one component
func (p *Parser) applyRules(t Target, location string) {
	for _, ve := range p.opts.Ruleset.Apply(t) {
		ve.Location = location
		p.report(ve)
		if p.raised != nil {
			return
		}
	}
}

func (p *Parser) decode() (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(p.src))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		p.report(syntaxError(p.src, err))
		return nil, false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		offset := dec.InputOffset()
		p.reportError(CategoryNetwork, "", location(p.src, offset), "syntax", "unexpected data after end of document")
		return nil, false
	}

	doc, ok := raw.(map[string]any)
	if !ok {
		p.reportError(CategoryNetwork, "", "", "syntax", "document must be a JSON object")
		return nil, false
	}
	return doc, true
}

func syntaxError(src []byte, err error) *ValidationError {
	ve := &ValidationError{
		Severity: SeverityError,
		Category: CategoryNetwork,
		Rule:     "syntax",
		Message:  fmt.Sprintf("invalid JSON: %v", err),
	}

	var synErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &synErr):
		ve.Location = location(src, synErr.Offset)
	case errors.As(err, &typeErr):
		ve.Location = location(src, typeErr.Offset)
	case errors.Is(err, io.EOF):
		ve.Message = "document is empty"
	case errors.Is(err, io.ErrUnexpectedEOF):
		ve.Message = "unexpected end of document"
		ve.Location = location(src, int64(len(src)))
	}
	return ve
}

// location converts a byte offset into "line L, column C"
func location(src []byte, offset int64) string {
	if offset > int64(len(src)) {
		offset = int64(len(src))
	}
	prefix := src[:offset]
	line := bytes.Count(prefix, []byte("\n")) + 1
	col := int(offset) - bytes.LastIndexByte(prefix, '\n')
	return fmt.Sprintf("line %d, column %d", line, col)
}

func (p *Parser) reportFieldErrors(category string, v any) {
	for _, fe := range validation.Struct(v) {
		p.reportError(category, "", category+"."+fe.Field, category+":"+fe.Tag, fe.Message)
	}
}

func (p *Parser) parseMetadata(doc map[string]any) {
	data, _ := doc[CategoryMetadata].(map[string]any)
	m, err := model.NewMetadata(data)
	if err != nil {
		p.reportError(CategoryMetadata, "", CategoryMetadata, "metadata:decode", err.Error())
		return
	}
	p.metadata = m
	p.reportFieldErrors(CategoryMetadata, m)
}

func (p *Parser) parseTimestepper(doc map[string]any) {
	data, _ := doc[CategoryTimestepper].(map[string]any)
	ts, err := model.NewTimestepper(data)
	if err != nil {
		p.reportError(CategoryTimestepper, "", CategoryTimestepper, "timestepper:decode", err.Error())
		return
	}
	p.timestepper = ts

	before := p.errors.Len()
	p.reportFieldErrors(CategoryTimestepper, ts)
	if p.errors.Len() > before {
		return
	}

	switch step := ts.Timestep.(type) {
	case float64:
		if step < 1 || step != math.Trunc(step) {
			p.reportError(CategoryTimestepper, "", "timestepper.timestep", "timestepper:timestep",
				fmt.Sprintf("timestep: %v is not a positive whole number of days", step))
		}
	case string:
		if step == "" {
			p.reportError(CategoryTimestepper, "", "timestepper.timestep", "timestepper:timestep", "timestep: frequency cannot be empty")
		}
	default:
		p.reportError(CategoryTimestepper, "", "timestepper.timestep", "timestepper:timestep",
			fmt.Sprintf("timestep: unsupported value %v", step))
	}

	startDate, _ := time.Parse(model.DateLayout, ts.Start)
	endDate, _ := time.Parse(model.DateLayout, ts.End)
	if endDate.Before(startDate) {
		p.reportError(CategoryTimestepper, "", "timestepper.end", "timestepper:range",
			fmt.Sprintf("end %s precedes start %s", ts.End, ts.Start))
	}
}

func (p *Parser) parseNodes(doc map[string]any) {
	items, _ := doc[CategoryNodes].([]any)
	for i, item := range items {
		if p.raised != nil {
			return
		}
		loc := fmt.Sprintf("nodes[%d]", i)
		data, ok := item.(map[string]any)
		if !ok {
			p.reportError(CategoryNodes, "", loc, "node:shape", "node must be an object")
			continue
		}
		name, _ := data[model.AttrName].(string)
		nodeType, _ := data[model.AttrType].(string)

		if err := validation.ValidateComponentName(name); err != nil {
			p.reportError(CategoryNodes, name, loc, "node:name", err.Error())
			continue
		}
		if err := p.nodes.Add(model.NewNode(name, nodeType, data)); err != nil {
			p.reportError(CategoryNodes, name, loc, "node:unique", fmt.Sprintf("Duplicate node name <%s>", name))
			continue
		}
		p.applyRules(Target{Category: CategoryNodes, Name: name, Type: nodeType, Data: data}, loc)
	}
}

func (p *Parser) parseEdges(doc map[string]any) {
	items, _ := doc[CategoryEdges].([]any)
	seen := make(map[string]int, len(items))

	for i, item := range items {
		if p.raised != nil {
			return
		}
		loc := fmt.Sprintf("edges[%d]", i)
		elems, _ := item.([]any)

		edge, err := model.NewEdge(elems)
		if err != nil {
			p.reportError(CategoryEdges, "", loc, "edge:shape", err.Error())
			continue
		}

		valid := true
		for _, name := range edge.Nodes() {
			if !p.nodes.Has(name) {
				p.reportError(CategoryEdges, edge.String(), loc, "edge:nodes_exist",
					fmt.Sprintf("Edge %s references undefined node <%s>", edge, name))
				valid = false
			}
		}
		if !valid {
			continue
		}

		key := edge.Key()
		seen[key]++
		if seen[key] > 1 {
			severity := SeverityError
			if p.opts.AllowDuplicateEdges {
				severity = SeverityWarning
			}
			p.report(&ValidationError{
				Message:   fmt.Sprintf("Duplicate edge %s", edge),
				Severity:  severity,
				Category:  CategoryEdges,
				Component: edge.String(),
				Rule:      "edge:duplicate",
				Location:  loc,
			})
		}
		p.edges = append(p.edges, edge)
	}
}

// eachComponent visits the entries of a name-keyed section in name order
func (p *Parser) eachComponent(doc map[string]any, category string, fn func(name string, data map[string]any, loc string)) {
	section, _ := doc[category].(map[string]any)
	for _, name := range slices.Sorted(maps.Keys(section)) {
		if p.raised != nil {
			return
		}
		loc := category + "." + name
		data, ok := section[name].(map[string]any)
		if !ok {
			p.reportError(category, name, loc, "component:shape", "definition must be an object")
			continue
		}
		if err := validation.ValidateComponentName(name); err != nil {
			p.reportError(category, name, loc, "component:name", err.Error())
			continue
		}
		fn(name, data, loc)
	}
}

func (p *Parser) parseParameters(doc map[string]any) {
	p.eachComponent(doc, CategoryParameters, func(name string, data map[string]any, loc string) {
		param := model.NewParameter(name, data)
		p.parameters.Set(name, param)
		p.applyRules(Target{Category: CategoryParameters, Name: name, Type: param.Type(), Data: data}, loc)
	})
}

func (p *Parser) parseRecorders(doc map[string]any) {
	p.eachComponent(doc, CategoryRecorders, func(name string, data map[string]any, loc string) {
		rec := model.NewRecorder(name, data)
		p.recorders.Set(name, rec)
		p.applyRules(Target{Category: CategoryRecorders, Name: name, Type: rec.Type(), Data: data}, loc)
	})
}

func (p *Parser) parseTables(doc map[string]any) {
	p.eachComponent(doc, CategoryTables, func(name string, data map[string]any, loc string) {
		p.tables.Set(name, model.NewTable(name, data))
		p.applyRules(Target{Category: CategoryTables, Name: name, Data: data}, loc)
	})
}

func (p *Parser) parseScenarios(doc map[string]any) {
	items, _ := doc[CategoryScenarios].([]any)
	names := make(map[string]bool, len(items))

	for i, item := range items {
		if p.raised != nil {
			return
		}
		loc := fmt.Sprintf("scenarios[%d]", i)
		data, _ := item.(map[string]any)

		sc, err := model.NewScenario(data)
		if err != nil {
			p.reportError(CategoryScenarios, "", loc, "scenario:decode", err.Error())
			continue
		}
		before := p.errors.Len()
		for _, fe := range validation.Struct(sc) {
			p.reportError(CategoryScenarios, sc.Name, loc, "scenario:"+fe.Tag, fe.Message)
		}
		if p.errors.Len() > before {
			continue
		}
		if names[sc.Name] {
			p.reportError(CategoryScenarios, sc.Name, loc, "scenario:unique", fmt.Sprintf("Duplicate scenario name <%s>", sc.Name))
			continue
		}
		names[sc.Name] = true
		p.scenarios = append(p.scenarios, sc)
		p.applyRules(Target{Category: CategoryScenarios, Name: sc.Name, Data: data}, loc)
	}
}

// Results

func (p *Parser) Metadata() *model.Metadata                         { return p.metadata }
func (p *Parser) Timestepper() *model.Timestepper                   { return p.timestepper }
func (p *Parser) Nodes() *model.NodeStore                           { return p.nodes }
func (p *Parser) Edges() []model.Edge                               { return p.edges }
func (p *Parser) Parameters() *model.ComponentSet[*model.Parameter] { return p.parameters }
func (p *Parser) Recorders() *model.ComponentSet[*model.Recorder]   { return p.recorders }
func (p *Parser) Tables() *model.ComponentSet[*model.Table]         { return p.tables }
func (p *Parser) Scenarios() []*model.Scenario                      { return p.scenarios }

func (p *Parser) HasErrors() bool   { return p.errors.Len() > 0 }
func (p *Parser) HasWarnings() bool { return len(p.warnings) > 0 }

// Errors returns the collected errors, or nil when there are none
func (p *Parser) Errors() Errors {
	if !p.HasErrors() {
		return nil
	}
	return p.errors
}

// Warnings returns the collected warnings, or nil when there are none
func (p *Parser) Warnings() Warnings {
	if !p.HasWarnings() {
		return nil
	}
	return p.warnings
}
