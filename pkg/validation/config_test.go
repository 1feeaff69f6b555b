package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigValidator_Required(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.Required("Name", "")

	if !cv.HasErrors() {
		t.Error("Expected error for empty required field")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.Required("Name", "value")

	if cv2.HasErrors() {
		t.Error("Expected no error for non-empty required field")
	}
}

func TestConfigValidator_OneOf(t *testing.T) {
	allowed := []string{"json", "yaml"}

	cv := NewConfigValidator("Export")
	cv.OneOf("Format", "xml", allowed)
	if !cv.HasErrors() {
		t.Error("Expected error for value not in allowed list")
	}

	cv2 := NewConfigValidator("Export")
	cv2.OneOf("Format", "yaml", allowed)
	if cv2.HasErrors() {
		t.Error("Expected no error for allowed value")
	}
}

func TestConfigValidator_NonNegative(t *testing.T) {
	if !NewConfigValidator("C").NonNegative("N", -1).HasErrors() {
		t.Error("Expected error for negative value")
	}
	if NewConfigValidator("C").NonNegative("N", 0).HasErrors() {
		t.Error("Expected no error for zero")
	}
}

func TestConfigValidator_Struct(t *testing.T) {
	cv := NewConfigValidator("Config")
	cv.Struct("Scenario", testScenario{Size: 2})

	err := cv.Validate()
	if err == nil {
		t.Fatal("Expected error for missing scenario name")
	}
	if !strings.Contains(err.Error(), "Config.Scenario: name: field is required") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestConfigValidator_Custom(t *testing.T) {
	sentinel := errors.New("bad path")

	cv := NewConfigValidator("Config")
	cv.Custom("Path", func() error { return sentinel })

	if !errors.Is(cv.Validate(), sentinel) {
		t.Errorf("expected wrapped sentinel, got %v", cv.Validate())
	}
}

func TestConfigValidator_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		lo, hi  int
		wantErr bool
	}{
		{"ordered", 1, 3, false},
		{"equal", 2, 2, false},
		{"unbounded max", 5, 0, false},
		{"inverted", 4, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := NewConfigValidator("Config").Bounds("Edges", tt.lo, tt.hi)
			if cv.HasErrors() != tt.wantErr {
				t.Errorf("Bounds(%d, %d) errors = %v, want %v", tt.lo, tt.hi, cv.Errors(), tt.wantErr)
			}
		})
	}
}

func TestConfigValidator_ValidateMultiple(t *testing.T) {
	cv := NewConfigValidator("Config").
		Required("A", "").
		Required("B", "")

	err := cv.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "2 errors") {
		t.Errorf("expected error count in message, got %v", err)
	}
	if len(cv.Errors()) != 2 {
		t.Errorf("Errors() len = %d, want 2", len(cv.Errors()))
	}
}

func TestDefaultOr(t *testing.T) {
	if DefaultOr("", "json") != "json" {
		t.Error("expected default for zero value")
	}
	if DefaultOr("yaml", "json") != "yaml" {
		t.Error("expected value when set")
	}
}
