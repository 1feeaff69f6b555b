package parser

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-waternet/pkg/model"
)

// Target is the component a rule is evaluated against
type Target struct {
	Category string
	Name     string
	Type     string
	Data     map[string]any
}

// Rule checks one condition on components of a category. An empty Match
// applies the rule to every component; otherwise Match is compared with the
// component type (exactly, or as a substring when Fuzzy is set).
type Rule struct {
	Name     string
	Category string
	Match    string
	Fuzzy    bool
	Severity Severity
	Check    func(Target) error
}

// typeSuffixes are accepted as optional on exact matches, so a rule for
// "aggregatedparameter" also applies to type "aggregated".
var typeSuffixes = map[string]string{
	CategoryParameters: "parameter",
	CategoryRecorders:  "recorder",
	CategoryNodes:      "node",
}

// Applies reports whether the rule should run for t
func (r Rule) Applies(t Target) bool {
	if r.Category != t.Category {
		return false
	}
	if r.Match == "" {
		return true
	}

	match := model.NormalizedType(r.Match)
	typ := model.NormalizedType(t.Type)
	if typ == "" {
		return false
	}
	if r.Fuzzy {
		return strings.Contains(typ, match)
	}
	if typ == match {
		return true
	}
	suffix := typeSuffixes[t.Category]
	return suffix != "" && (typ+suffix == match || typ == match+suffix)
}

// Ruleset is a named, ordered collection of rules
type Ruleset struct {
	name  string
	rules []Rule
}

// NewRuleset creates a ruleset holding rules
func NewRuleset(name string, rules ...Rule) *Ruleset {
	rs := &Ruleset{name: name}
	rs.Add(rules...)
	return rs
}

func (rs *Ruleset) Name() string {
	return rs.name
}

// Add appends rules. Rules without a Check are ignored.
func (rs *Ruleset) Add(rules ...Rule) {
	for _, r := range rules {
		if r.Check == nil {
			continue
		}
		rs.rules = append(rs.rules, r)
	}
}

// Rules returns the rules for a category in insertion order
func (rs *Ruleset) Rules(category string) []Rule {
	var out []Rule
	for _, r := range rs.rules {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of rules
func (rs *Ruleset) Len() int {
	return len(rs.rules)
}

// Apply runs every applicable rule against t and returns one finding per
// failed rule.
func (rs *Ruleset) Apply(t Target) []*ValidationError {
	var out []*ValidationError
	for _, r := range rs.rules {
		if !r.Applies(t) {
			continue
		}
		if err := r.Check(t); err != nil {
			out = append(out, &ValidationError{
				Message:   err.Error(),
				Severity:  r.Severity,
				Category:  t.Category,
				Component: t.Name,
				Rule:      r.Name,
				Source:    t.Data,
			})
		}
	}
	return out
}

// DefaultRuleset returns the built-in structural and type-specific rules
func DefaultRuleset() *Ruleset {
	return NewRuleset("default",
		Rule{
			Name:     "type_required",
			Category: CategoryParameters,
			Check:    typeRequired("Parameter"),
		},
		Rule{
			Name:     "aggregated_has_agg_func",
			Category: CategoryParameters,
			Match:    "aggregatedparameter",
			Check: func(t Target) error {
				return requireKey(t, "agg_func", "AggregatedParameter")
			},
		},
		Rule{
			Name:     "aggregated_has_parameters",
			Category: CategoryParameters,
			Match:    "aggregatedparameter",
			Check: func(t Target) error {
				return requireKey(t, "parameters", "AggregatedParameter")
			},
		},
		Rule{
			Name:     "aggregated_has_paramlist",
			Category: CategoryParameters,
			Match:    "aggregatedparameter",
			Check: func(t Target) error {
				if v, ok := t.Data["parameters"]; ok {
					if _, isList := v.([]any); !isList {
						return fmt.Errorf("AggregatedParameter <%s> has invalid parameters", t.Name)
					}
				}
				return nil
			},
		},
		Rule{
			Name:     "cc_has_storage",
			Category: CategoryParameters,
			Match:    "controlcurveparameter",
			Check: func(t Target) error {
				return requireKey(t, "storage_node", "ControlCurveParameter")
			},
		},
		Rule{
			Name:     "monthlyprofile_has_profile",
			Category: CategoryParameters,
			Match:    "monthlyprofileparameter",
			Severity: SeverityWarning,
			Check: func(t Target) error {
				values, ok := t.Data["values"].([]any)
				if !ok || len(values) != 12 {
					return fmt.Errorf("MonthlyProfileParameter <%s> has invalid profile values", t.Name)
				}
				return nil
			},
		},
		Rule{
			Name:     "outdated_pandas",
			Category: CategoryParameters,
			Match:    "dataframe",
			Fuzzy:    true,
			Severity: SeverityWarning,
			Check: func(t Target) error {
				if _, ok := t.Data["pandas_kwargs"]; ok {
					return fmt.Errorf("Dataframe <%s> uses outdated 'pandas_kwargs' key", t.Name)
				}
				return nil
			},
		},
		Rule{
			Name:     "type_required",
			Category: CategoryRecorders,
			Check:    typeRequired("Recorder"),
		},
		Rule{
			Name:     "storage_has_max_volume",
			Category: CategoryNodes,
			Match:    "storage",
			Severity: SeverityWarning,
			Check: func(t Target) error {
				return requireKey(t, "max_volume", "Storage node")
			},
		},
		Rule{
			Name:     "table_has_url",
			Category: CategoryTables,
			Severity: SeverityWarning,
			Check: func(t Target) error {
				return requireKey(t, "url", "Table")
			},
		},
	)
}

func typeRequired(label string) func(Target) error {
	return func(t Target) error {
		if s, ok := t.Data[model.AttrType].(string); !ok || s == "" {
			return fmt.Errorf("%s <%s> does not define type", label, t.Name)
		}
		return nil
	}
}

func requireKey(t Target, key, label string) error {
	if _, ok := t.Data[key]; !ok {
		return fmt.Errorf("%s <%s> does not define '%s'", label, t.Name, key)
	}
	return nil
}
