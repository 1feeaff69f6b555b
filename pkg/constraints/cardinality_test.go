package constraints

import (
	"slices"
	"testing"
)

// TestUnconnectedNodeConstraint tests detection of nodes without edges
func TestUnconnectedNodeConstraint(t *testing.T) {
	network := setupTestNetwork(t)
	network.addNode(t, "supply", "input", nil)
	network.addNode(t, "demand", "output", nil)
	network.addNode(t, "spare", "link", nil)
	network.connect("supply", "demand")

	violations, err := (&UnconnectedNodeConstraint{}).Validate(network)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if len(violations) != 1 {
		t.Fatalf("Expected 1 violation, got %d", len(violations))
	}
	if violations[0].Subject != "spare" {
		t.Errorf("Expected violation for spare, got %s", violations[0].Subject)
	}
	if violations[0].Severity != Warning {
		t.Errorf("Expected Warning severity, got %s", violations[0].Severity)
	}
	if violations[0].Type != UnconnectedNode {
		t.Errorf("Expected UnconnectedNode, got %s", violations[0].Type)
	}
}

// TestEdgeCountConstraint_Min tests minimum edge count validation
func TestEdgeCountConstraint_Min(t *testing.T) {
	network := setupTestNetwork(t)
	network.addNode(t, "supply", "input", nil)
	network.addNode(t, "demand1", "output", nil)
	network.addNode(t, "demand2", "Output", nil)
	network.connect("supply", "demand1")

	constraint := &EdgeCountConstraint{NodeType: "output", Direction: Incoming, Min: 1}
	violations, err := constraint.Validate(network)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if got := subjects(violations); !slices.Equal(got, []string{"demand2"}) {
		t.Errorf("Expected violation for demand2, got %v", got)
	}
	if len(violations) == 1 && violations[0].Details["minimum"] != 1 {
		t.Errorf("Expected minimum detail of 1, got %v", violations[0].Details)
	}
}

// TestEdgeCountConstraint_Max tests maximum edge count validation
func TestEdgeCountConstraint_Max(t *testing.T) {
	network := setupTestNetwork(t)
	network.addNode(t, "works", "link", nil)
	network.addNode(t, "a", "output", nil)
	network.addNode(t, "b", "output", nil)
	network.connect("works", "a")
	network.connect("works", "b")

	tests := []struct {
		name       string
		constraint *EdgeCountConstraint
		want       int
	}{
		{"outgoing over limit", &EdgeCountConstraint{NodeType: "link", Direction: Outgoing, Max: 1}, 1},
		{"outgoing at limit", &EdgeCountConstraint{NodeType: "link", Direction: Outgoing, Max: 2}, 0},
		{"incoming ignored", &EdgeCountConstraint{NodeType: "link", Direction: Incoming, Max: 1}, 0},
		{"any type", &EdgeCountConstraint{Direction: Any, Max: 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations, err := tt.constraint.Validate(network)
			if err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
			if len(violations) != tt.want {
				t.Errorf("Expected %d violations, got %d", tt.want, len(violations))
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"outgoing", Outgoing, false},
		{"in", Incoming, false},
		{"", Any, false},
		{"sideways", Any, true},
	}

	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDirection(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseDirection(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
