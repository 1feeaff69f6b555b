package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDocument = `{
  "metadata": {"title": "Two reservoirs", "minimum_version": "1.0"},
  "timestepper": {"start": "2020-01-01", "end": "2020-12-31", "timestep": 1},
  "nodes": [
    {"name": "supply", "type": "input", "max_flow": "__supply__:max_flow"},
    {"name": "works", "type": "link"},
    {"name": "demand", "type": "output", "cost": -10}
  ],
  "edges": [["supply", "works"], ["works", "demand"]],
  "parameters": {
    "__supply__:max_flow": {"type": "constant", "value": 15},
    "demand_profile": {"type": "monthlyprofile", "values": [1,1,1,1,1,1,1,1,1,1,1,1]}
  },
  "recorders": {
    "__demand__:flow": {"type": "numpyarraynoderecorder", "node": "demand"}
  },
  "tables": {"inflows": {"url": "inflows.csv"}},
  "scenarios": [{"name": "climate", "size": 3}]
}`

func parse(t *testing.T, src string, opts Options) (*Parser, error) {
	t.Helper()
	p := New([]byte(src), opts)
	return p, p.Parse()
}

func TestParse_ValidDocument(t *testing.T) {
	p, err := parse(t, validDocument, DefaultOptions())
	require.NoError(t, err)

	assert.False(t, p.HasErrors(), "unexpected errors: %v", p.Errors())
	assert.Nil(t, p.Errors())
	assert.Nil(t, p.Warnings())

	assert.Equal(t, "Two reservoirs", p.Metadata().Title)
	assert.Equal(t, "2020-01-01", p.Timestepper().Start)
	assert.Equal(t, []string{"supply", "works", "demand"}, p.Nodes().Names())
	assert.Len(t, p.Edges(), 2)
	assert.Equal(t, []string{"__supply__:max_flow", "demand_profile"}, p.Parameters().Names())
	assert.Equal(t, 1, p.Recorders().Len())
	assert.True(t, p.Tables().Has("inflows"))
	require.Len(t, p.Scenarios(), 1)
	assert.Equal(t, 3, p.Scenarios()[0].Size)
}

func TestParse_Idempotent(t *testing.T) {
	p := New([]byte(validDocument), DefaultOptions())
	require.NoError(t, p.Parse())
	require.NoError(t, p.Parse())
	assert.Equal(t, 3, p.Nodes().Len())
}

func TestParse_SyntaxError(t *testing.T) {
	p, err := parse(t, "{\n  \"metadata\": {,\n}", DefaultOptions())
	require.NoError(t, err)

	errs := p.Errors()
	require.Len(t, errs[CategoryNetwork], 1)
	ve := errs[CategoryNetwork][0]
	assert.Equal(t, "syntax", ve.Rule)
	assert.True(t, strings.HasPrefix(ve.Location, "line 2,"), ve.Location)
}

func TestParse_DocumentShape(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"empty", "", "document is empty"},
		{"array", "[]", "document must be a JSON object"},
		{"trailing", "{} {}", "unexpected data after end of document"},
		{"truncated", `{"metadata": {`, "unexpected end of document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := parse(t, tt.src, DefaultOptions())
			require.NoError(t, err)
			require.NotEmpty(t, p.Errors()[CategoryNetwork])
			assert.Equal(t, tt.msg, p.Errors()[CategoryNetwork][0].Message)
		})
	}
}

func TestParse_SchemaErrorsStopParsing(t *testing.T) {
	src := `{"metadata": {"title": "x"}, "timestepper": {"start": "2020-01-01", "end": "2020-01-02", "timestep": 1},
	         "nodes": [{"name": "a"}], "edges": []}`
	p, err := parse(t, src, DefaultOptions())
	require.NoError(t, err)

	require.True(t, p.HasErrors())
	assert.NotEmpty(t, p.Errors()[CategoryNodes])
	assert.Equal(t, 0, p.Nodes().Len(), "nodes are not built after a schema failure")
}

func TestParse_MissingSection(t *testing.T) {
	src := `{"metadata": {"title": "x"}, "nodes": [], "edges": []}`
	p, err := parse(t, src, DefaultOptions())
	require.NoError(t, err)
	require.True(t, p.HasErrors())
	assert.Contains(t, p.Errors().Categories(), CategoryNetwork)
}

func TestParse_Metadata(t *testing.T) {
	src := strings.Replace(validDocument, `"title": "Two reservoirs"`, `"title": ""`, 1)
	p, err := parse(t, src, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, p.Errors()[CategoryMetadata], 1)
	ve := p.Errors()[CategoryMetadata][0]
	assert.Equal(t, "metadata.title", ve.Location)
	assert.Equal(t, "metadata:required", ve.Rule)
}

func TestParse_Timestepper(t *testing.T) {
	tests := []struct {
		name     string
		ts       string
		wantRule string
	}{
		{"bad date", `{"start": "2020-13-01", "end": "2020-12-31", "timestep": 1}`, "timestepper:datetime"},
		{"reversed", `{"start": "2021-01-01", "end": "2020-12-31", "timestep": 1}`, "timestepper:range"},
		{"fractional step", `{"start": "2020-01-01", "end": "2020-12-31", "timestep": 1.5}`, "timestepper:timestep"},
		{"negative step", `{"start": "2020-01-01", "end": "2020-12-31", "timestep": -7}`, "timestepper:timestep"},
		{"bool step", `{"start": "2020-01-01", "end": "2020-12-31", "timestep": true}`, "timestepper:timestep"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := strings.Replace(validDocument,
				`{"start": "2020-01-01", "end": "2020-12-31", "timestep": 1}`, tt.ts, 1)
			p, err := parse(t, src, DefaultOptions())
			require.NoError(t, err)
			require.NotEmpty(t, p.Errors()[CategoryTimestepper])
			assert.Equal(t, tt.wantRule, p.Errors()[CategoryTimestepper][0].Rule)
		})
	}
}

func TestParse_FrequencyTimestep(t *testing.T) {
	src := strings.Replace(validDocument, `"timestep": 1`, `"timestep": "7D"`, 1)
	p, err := parse(t, src, DefaultOptions())
	require.NoError(t, err)
	assert.False(t, p.HasErrors(), "unexpected errors: %v", p.Errors())
	assert.Equal(t, "7D", p.Timestepper().Timestep)
}

func TestParse_DuplicateNode(t *testing.T) {
	src := strings.Replace(validDocument, `{"name": "works", "type": "link"}`,
		`{"name": "works", "type": "link"}, {"name": "works", "type": "link"}`, 1)
	p, err := parse(t, src, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, p.Errors()[CategoryNodes], 1)
	assert.Equal(t, "Duplicate node name <works>", p.Errors()[CategoryNodes][0].Message)
	assert.Equal(t, "nodes[2]", p.Errors()[CategoryNodes][0].Location)
	assert.Equal(t, 3, p.Nodes().Len())
}

func TestParse_InvalidNodeName(t *testing.T) {
	src := strings.Replace(validDocument, `"name": "works"`, `"name": " works"`, 1)
	p, err := parse(t, src, DefaultOptions())
	require.NoError(t, err)
	assert.NotEmpty(t, p.Errors()[CategoryNodes])
}

func TestParse_EdgeUnknownNode(t *testing.T) {
	src := strings.Replace(validDocument, `["works", "demand"]`, `["works", "river"]`, 1)
	p, err := parse(t, src, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, p.Errors()[CategoryEdges], 1)
	assert.Contains(t, p.Errors()[CategoryEdges][0].Message, "<river>")
	assert.Len(t, p.Edges(), 1)
}

func TestParse_DuplicateEdges(t *testing.T) {
	src := strings.Replace(validDocument, `[["supply", "works"],`, `[["supply", "works"], ["supply", "works"],`, 1)

	t.Run("allowed", func(t *testing.T) {
		p, err := parse(t, src, DefaultOptions())
		require.NoError(t, err)
		assert.False(t, p.HasErrors())
		require.Len(t, p.Warnings(), 1)
		assert.Equal(t, "edge:duplicate", p.Warnings()[0].Rule)
		assert.Len(t, p.Edges(), 3)
	})

	t.Run("rejected", func(t *testing.T) {
		opts := DefaultOptions()
		opts.AllowDuplicateEdges = false
		p, err := parse(t, src, opts)
		require.NoError(t, err)
		require.Len(t, p.Errors()[CategoryEdges], 1)
		assert.Nil(t, p.Warnings())
	})
}

func TestParse_SlotEdges(t *testing.T) {
	src := strings.Replace(validDocument, `["works", "demand"]`, `["works", "demand", 0, null]`, 1)
	p, err := parse(t, src, DefaultOptions())
	require.NoError(t, err)
	require.False(t, p.HasErrors(), "unexpected errors: %v", p.Errors())
	assert.Len(t, p.Edges()[1].Slots, 2)
}

func TestParse_ParameterRules(t *testing.T) {
	src := strings.Replace(validDocument, `"demand_profile": {"type": "monthlyprofile", "values": [1,1,1,1,1,1,1,1,1,1,1,1]}`,
		`"demand_profile": {"type": "monthlyprofile", "values": [1,2]},
		 "total": {"type": "aggregated", "parameters": "demand_profile"},
		 "untyped": {"value": 3}`, 1)
	p, err := parse(t, src, DefaultOptions())
	require.NoError(t, err)

	var rules []string
	for _, ve := range p.Errors()[CategoryParameters] {
		rules = append(rules, ve.Rule)
	}
	assert.ElementsMatch(t, []string{"aggregated_has_agg_func", "aggregated_has_paramlist", "type_required"}, rules)

	require.Len(t, p.Warnings(), 1)
	assert.Equal(t, "monthlyprofile_has_profile", p.Warnings()[0].Rule)
	assert.Equal(t, "parameters.demand_profile", p.Warnings()[0].Location)
}

func TestParse_RaiseOnError(t *testing.T) {
	src := strings.Replace(validDocument, `["works", "demand"]`, `["works", "river"]`, 1)
	opts := DefaultOptions()
	opts.RaiseOnError = true

	p, err := parse(t, src, opts)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, CategoryEdges, ve.Category)
	assert.Equal(t, 1, p.Errors().Len())
	assert.Empty(t, p.Parameters().Names(), "parsing stops at the raised error")
}

func TestParse_RaiseOnWarning(t *testing.T) {
	src := strings.Replace(validDocument, `"tables": {"inflows": {"url": "inflows.csv"}}`, `"tables": {"inflows": {}}`, 1)

	opts := DefaultOptions()
	_, err := parse(t, src, opts)
	require.NoError(t, err)

	opts.RaiseOnWarning = true
	p, err := parse(t, src, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not define 'url'")
	assert.Len(t, p.Warnings(), 1)
}

func TestParse_DuplicateScenario(t *testing.T) {
	src := strings.Replace(validDocument, `[{"name": "climate", "size": 3}]`,
		`[{"name": "climate", "size": 3}, {"name": "climate", "size": 2}]`, 1)
	p, err := parse(t, src, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, p.Errors()[CategoryScenarios], 1)
	assert.Len(t, p.Scenarios(), 1)
}

func TestParse_CustomRuleset(t *testing.T) {
	rs := NewRuleset("strict", Rule{
		Name:     "link_forbidden",
		Category: CategoryNodes,
		Match:    "link",
		Check: func(t Target) error {
			return assert.AnError
		},
	})
	opts := DefaultOptions()
	opts.Ruleset = rs

	p, err := parse(t, validDocument, opts)
	require.NoError(t, err)
	require.Len(t, p.Errors()[CategoryNodes], 1)
	assert.Equal(t, "works", p.Errors()[CategoryNodes][0].Component)
}

func TestLocation(t *testing.T) {
	src := []byte("ab\ncde\nf")
	assert.Equal(t, "line 1, column 1", location(src, 0))
	assert.Equal(t, "line 2, column 2", location(src, 4))
	assert.Equal(t, "line 3, column 2", location(src, 100))
}

func TestErrorsHelpers(t *testing.T) {
	errs := Errors{
		CategoryNodes: {{Message: "a"}, {Message: "b"}},
		CategoryEdges: {{Message: "c"}},
	}
	assert.Equal(t, 3, errs.Len())
	assert.Equal(t, []string{CategoryEdges, CategoryNodes}, errs.Categories())
	assert.Equal(t, map[string]int{CategoryNodes: 2, CategoryEdges: 1}, errs.Counts())

	ve := &ValidationError{Category: CategoryNodes, Component: "works", Message: "bad", Location: "nodes[1]"}
	assert.Equal(t, "nodes <works>: bad (at nodes[1])", ve.Error())
}
