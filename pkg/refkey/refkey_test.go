package refkey

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestCanonicalName(t *testing.T) {
	if got := CanonicalName("Reservoir1", "max_flow"); got != "__Reservoir1__:max_flow" {
		t.Errorf("CanonicalName() = %q, want %q", got, "__Reservoir1__:max_flow")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		key      string
		wantNode string
		wantAttr string
		wantErr  bool
	}{
		{"__Reservoir1__:max_flow", "Reservoir1", "max_flow", false},
		{"__link_a__:cost", "link_a", "cost", false},
		{"__a__b__:c", "a__b", "c", false},
		{"__n__:", "", "", true},
		{"____:attr", "", "", true},
		{"flow_max", "", "", true},
		{"__Reservoir1:max_flow", "", "", true},
		{"Reservoir1__:max_flow", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			node, attr, err := Parse(tt.key)
			if tt.wantErr {
				if !errors.Is(err, ErrNotReferenceKey) {
					t.Fatalf("Parse(%q) error = %v, want ErrNotReferenceKey", tt.key, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.key, err)
			}
			if node != tt.wantNode || attr != tt.wantAttr {
				t.Errorf("Parse(%q) = (%q, %q), want (%q, %q)", tt.key, node, attr, tt.wantNode, tt.wantAttr)
			}
		})
	}
}

func TestIsReferenceKey(t *testing.T) {
	if !IsReferenceKey("__n__:a") {
		t.Error("expected __n__:a to be a reference key")
	}
	if IsReferenceKey("n:a") {
		t.Error("expected n:a not to be a reference key")
	}
}

func TestRoundTrips(t *testing.T) {
	tests := []struct {
		node, attr string
		want       bool
	}{
		{"Reservoir1", "max_flow", true},
		{"a__b", "cost", true},
		{"A", "x__:y", false},
		{"A", "", false},
	}

	for _, tt := range tests {
		if got := RoundTrips(tt.node, tt.attr); got != tt.want {
			t.Errorf("RoundTrips(%q, %q) = %v, want %v", tt.node, tt.attr, got, tt.want)
		}
	}
}

// TestRoundTrip checks Parse inverts CanonicalName for generated names.
func TestRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("parse inverts canonical name", prop.ForAll(
		func(node, attr string) bool {
			gotNode, gotAttr, err := Parse(CanonicalName(node, attr))
			return err == nil && gotNode == node && gotAttr == attr
		},
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
