package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/mdpsolve/errors"
)

func TestValidatorRequired(t *testing.T) {
	v := New().Required("file", "  ")
	if !v.HasErrors() {
		t.Fatal("expected error for blank value")
	}
	if v.Errors()[0].Field != "file" {
		t.Errorf("expected field 'file', got %q", v.Errors()[0].Field)
	}
	if New().Required("file", "graph.txt").HasErrors() {
		t.Error("expected no error for non-empty value")
	}
}

func TestValidatorOptionalUUID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"empty is allowed", "", false},
		{"valid", "6f1c1f7e-0b7f-4d43-9f5d-0d8d1c2a3b4c", false},
		{"invalid", "not-a-uuid", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := New().OptionalUUID("run_id", tc.value).HasErrors(); got != tc.wantErr {
				t.Errorf("HasErrors() = %v, want %v", got, tc.wantErr)
			}
		})
	}
}

func TestValidatorRange(t *testing.T) {
	if New().Range("port", 8080, 1, 65535).HasErrors() {
		t.Error("expected 8080 to be in range")
	}
	if !New().Range("port", 0, 1, 65535).HasErrors() {
		t.Error("expected 0 to be out of range")
	}
	if !New().Min("iter", 0, 1).HasErrors() {
		t.Error("expected 0 to be below min")
	}
}

func TestValidatorUnitInterval(t *testing.T) {
	for _, val := range []float64{0, 0.5, 1} {
		if New().UnitInterval("rate", val).HasErrors() {
			t.Errorf("expected %v to be accepted", val)
		}
	}
	for _, val := range []float64{-0.1, 1.01} {
		if !New().UnitInterval("rate", val).HasErrors() {
			t.Errorf("expected %v to be rejected", val)
		}
	}
}

func TestValidatorOneOf(t *testing.T) {
	allowed := []string{"max", "min"}
	if New().OneOf("objective", "min", allowed).HasErrors() {
		t.Error("expected 'min' to be allowed")
	}
	v := New().OneOf("objective", "avg", allowed)
	if !v.HasErrors() {
		t.Fatal("expected 'avg' to be rejected")
	}
	if !strings.Contains(v.Errors()[0].Message, "max, min") {
		t.Errorf("unexpected message %q", v.Errors()[0].Message)
	}
}

func TestValidatorValidate(t *testing.T) {
	if New().Validate() != nil {
		t.Fatal("expected nil AppError without errors")
	}
	if New().Err() != nil {
		t.Fatal("expected nil error without errors")
	}

	appErr := New().
		Required("file", "").
		Custom(false, "df", "must be positive").
		Validate()
	if appErr == nil {
		t.Fatal("expected AppError")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "file: is required") || !strings.Contains(appErr.Message, "df: must be positive") {
		t.Errorf("unexpected message %q", appErr.Message)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Fatalf("expected two field errors in details, got %v", appErr.Details["fields"])
	}
}

type solverParams struct {
	DiscountFactor float64 `mapstructure:"discount_factor" validate:"gt=0,lte=1"`
	Tolerance      float64 `mapstructure:"tolerance" validate:"gt=0"`
	MaxIterations  int     `mapstructure:"max_iterations" validate:"min=1"`
	Objective      string  `json:"objective" validate:"oneof=max min"`
	Untagged       string  `validate:"required"`
}

func TestStructValidateValid(t *testing.T) {
	p := solverParams{DiscountFactor: 0.9, Tolerance: 0.001, MaxIterations: 100, Objective: "max", Untagged: "x"}
	if err := Validate(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	p := solverParams{DiscountFactor: 1.5, Tolerance: 0, MaxIterations: 0, Objective: "avg"}
	err := Validate(p)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	msg := err.Error()
	for _, want := range []string{
		"discount_factor: must be at most 1",
		"tolerance: must be greater than 0",
		"max_iterations: must be at least 1",
		"objective: must be one of: max min",
		"untagged: is required",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}
