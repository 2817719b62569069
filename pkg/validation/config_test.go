package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigValidator_Required(t *testing.T) {
	cv := NewConfigValidator("snapshot")
	cv.Required("path", "")

	if !cv.HasErrors() {
		t.Error("Expected error for empty required field")
	}

	cv2 := NewConfigValidator("snapshot")
	cv2.Required("path", "catalog.snap")

	if cv2.HasErrors() {
		t.Error("Expected no error for non-empty required field")
	}
}

func TestConfigValidator_RangeInt(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		expectErr bool
	}{
		{"at minimum", 1, false},
		{"inside", 5, false},
		{"at maximum", 10, false},
		{"below", 0, true},
		{"above", 11, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := NewConfigValidator("graph").RangeInt("max_depth", tt.value, 1, 10)
			if cv.HasErrors() != tt.expectErr {
				t.Errorf("RangeInt(%d) errors = %v, want error %v", tt.value, cv.Errors(), tt.expectErr)
			}
		})
	}
}

func TestConfigValidator_Positive(t *testing.T) {
	if !NewConfigValidator("query").Positive("limit", 0).HasErrors() {
		t.Error("Expected error for zero")
	}
	if NewConfigValidator("query").Positive("limit", 3).HasErrors() {
		t.Error("Expected no error for positive value")
	}
}

func TestConfigValidator_OneOf(t *testing.T) {
	allowed := []string{"json", "text"}

	if NewConfigValidator("logging").OneOf("format", "json", allowed).HasErrors() {
		t.Error("Expected json to be accepted")
	}
	cv := NewConfigValidator("logging").OneOf("format", "xml", allowed)
	if !cv.HasErrors() {
		t.Fatal("Expected error for xml")
	}
	if !strings.HasPrefix(cv.Errors()[0].Error(), "logging.format:") {
		t.Errorf("Expected section.field prefix, got %v", cv.Errors()[0])
	}
}

func TestConfigValidator_Custom(t *testing.T) {
	sentinel := errors.New("boom")
	cv := NewConfigValidator("metrics").Custom("namespace", func() error { return sentinel })

	if !errors.Is(cv.Validate(), sentinel) {
		t.Errorf("Expected wrapped sentinel, got %v", cv.Validate())
	}
}

func TestConfigValidator_When(t *testing.T) {
	cv := NewConfigValidator("snapshot").
		When(false, func(v *ConfigValidator) { v.Required("path", "") }).
		When(true, func(v *ConfigValidator) { v.Positive("limit", 1) })

	if cv.HasErrors() {
		t.Errorf("Expected no errors, got %v", cv.Errors())
	}
}

func TestConfigValidator_MultipleErrors(t *testing.T) {
	cv := NewConfigValidator("graph").
		Required("name", "").
		RangeInt("max_depth", 0, 1, 10).
		Positive("limit", -1)

	if len(cv.Errors()) != 3 {
		t.Fatalf("Expected 3 errors, got %d", len(cv.Errors()))
	}

	err := cv.Validate()
	for _, want := range []string{"graph.name", "graph.max_depth", "graph.limit"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected %q in %v", want, err)
		}
	}
	if NewConfigValidator("graph").Validate() != nil {
		t.Error("Expected nil error without failures")
	}
}

type stubConfig struct{ err error }

func (s *stubConfig) Validate() error { return s.err }

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(&stubConfig{}); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
	if err := ValidateConfig(&stubConfig{err: errors.New("bad")}); err == nil {
		t.Error("Expected error")
	}
	if err := ValidateConfig(nil); err == nil {
		t.Error("Expected error for nil config")
	}
}

func TestDefaultOrInt(t *testing.T) {
	if DefaultOrInt(0, 5) != 5 || DefaultOrInt(-2, 5) != 5 {
		t.Error("Expected default for non-positive values")
	}
	if DefaultOrInt(3, 5) != 3 {
		t.Error("Expected value when positive")
	}
}
