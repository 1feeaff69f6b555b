package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-waternet/pkg/constraints"
	"github.com/dd0wney/cluso-waternet/pkg/graphql"
	"github.com/dd0wney/cluso-waternet/pkg/validation"
)

// Config holds CLI settings. Values come from defaults, then the -config
// file, then command line flags.
type Config struct {
	LogLevel            string           `yaml:"log_level"`
	LogFormat           string           `yaml:"log_format"`
	AllowDuplicateEdges bool             `yaml:"allow_duplicate_edges"`
	RaiseOnError        bool             `yaml:"raise_on_error"`
	RaiseOnWarning      bool             `yaml:"raise_on_warning"`
	MetricsOut          string           `yaml:"metrics_out"`
	Serve               ServeConfig      `yaml:"serve"`
	Constraints         ConstraintConfig `yaml:"constraints"`
}

// ServeConfig configures the GraphQL server
type ServeConfig struct {
	Addr         string `yaml:"addr"`
	MaxDepth     int    `yaml:"max_depth"`
	DefaultLimit int    `yaml:"default_limit"`
	MaxLimit     int    `yaml:"max_limit"`
}

// ConstraintConfig lists checks run in addition to the defaults
type ConstraintConfig struct {
	EdgeCounts []EdgeCountConfig `yaml:"edge_counts" validate:"dive"`
	Attributes []AttributeConfig `yaml:"attributes" validate:"dive"`
}

type EdgeCountConfig struct {
	NodeType  string `yaml:"node_type"`
	Direction string `yaml:"direction" validate:"omitempty,oneof=outgoing out incoming in any"`
	Min       int    `yaml:"min" validate:"gte=0"`
	Max       int    `yaml:"max" validate:"gte=0"`
}

type AttributeConfig struct {
	NodeType  string   `yaml:"node_type" validate:"required"`
	Attribute string   `yaml:"attribute" validate:"required"`
	Required  bool     `yaml:"required"`
	Numeric   bool     `yaml:"numeric"`
	Min       *float64 `yaml:"min"`
	Max       *float64 `yaml:"max"`
}

// DefaultConfig returns the settings used without a config file
func DefaultConfig() *Config {
	return &Config{
		LogLevel:            validation.DefaultOr(os.Getenv("LOG_LEVEL"), "warn"),
		LogFormat:           validation.DefaultOr(os.Getenv("LOG_FORMAT"), "text"),
		AllowDuplicateEdges: true,
		Serve: ServeConfig{
			Addr:         ":8080",
			MaxDepth:     graphql.DefaultMaxDepth,
			DefaultLimit: graphql.DefaultLimitConfig().DefaultLimit,
			MaxLimit:     graphql.DefaultLimitConfig().MaxLimit,
		},
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the config after flags have been applied
func (c *Config) Validate() error {
	cv := validation.NewConfigValidator("config").
		OneOf("log_level", c.LogLevel, []string{"debug", "info", "warn", "warning", "error"}).
		OneOf("log_format", c.LogFormat, []string{"json", "text"}).
		Required("serve.addr", c.Serve.Addr).
		NonNegative("serve.max_depth", c.Serve.MaxDepth).
		Custom("serve", func() error {
			return graphql.ValidateLimitConfig(c.limits())
		}).
		Struct("constraints", &c.Constraints)
	for i, ec := range c.Constraints.EdgeCounts {
		cv.Bounds(fmt.Sprintf("constraints.edge_counts[%d]", i), ec.Min, ec.Max)
	}
	return cv.Validate()
}

func (c *Config) limits() *graphql.LimitConfig {
	return &graphql.LimitConfig{
		DefaultLimit: c.Serve.DefaultLimit,
		MaxLimit:     c.Serve.MaxLimit,
	}
}

// ExtraConstraints builds the configured checks
func (c *Config) ExtraConstraints() []constraints.Constraint {
	out := make([]constraints.Constraint, 0, len(c.Constraints.EdgeCounts)+len(c.Constraints.Attributes))
	for _, ec := range c.Constraints.EdgeCounts {
		// Direction was checked by Validate
		dir, _ := constraints.ParseDirection(ec.Direction)
		out = append(out, &constraints.EdgeCountConstraint{
			NodeType:  ec.NodeType,
			Direction: dir,
			Min:       ec.Min,
			Max:       ec.Max,
		})
	}
	for _, ac := range c.Constraints.Attributes {
		out = append(out, &constraints.AttributeConstraint{
			NodeType:  ac.NodeType,
			Attribute: ac.Attribute,
			Required:  ac.Required,
			Numeric:   ac.Numeric,
			Min:       ac.Min,
			Max:       ac.Max,
		})
	}
	return out
}
