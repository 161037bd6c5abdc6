package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorClass_String(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorInvalid, "invalid"},
		{ErrorNotFound, "not_found"},
		{ErrorInternal, "internal"},
		{ErrorClass(999), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			result := test.class.String()
			if result != test.expected {
				t.Errorf("expected %s, got %s", test.expected, result)
			}
		})
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"missing field", ErrMissingField, true},
		{"unknown foreign key", ErrUnknownForeignKey, true},
		{"invalid transition", ErrInvalidTransition, true},
		{"unknown field", ErrUnknownField, true},
		{"invalid config", ErrInvalidConfig, true},
		{"missing config", ErrMissingConfig, true},
		{"not found", ErrNotFound, false},
		{"plain error", fmt.Errorf("boom"), false},
		{"wrapped missing field", fmt.Errorf("create: %w", ErrMissingField), true},
		{"classified invalid", &ClassifiedError{Class: ErrorInvalid, Err: fmt.Errorf("test")}, true},
		{"classified internal", &ClassifiedError{Class: ErrorInternal, Err: fmt.Errorf("test")}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsInvalid(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"not found", ErrNotFound, true},
		{"wrapped not found", fmt.Errorf("lookup: %w", ErrNotFound), true},
		{"missing field", ErrMissingField, false},
		{"classified not found", &ClassifiedError{Class: ErrorNotFound, Err: fmt.Errorf("test")}, true},
		{"plain error", fmt.Errorf("boom"), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsNotFound(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{"not found", ErrNotFound, ErrorNotFound},
		{"missing field", ErrMissingField, ErrorInvalid},
		{"plain error", fmt.Errorf("boom"), ErrorInternal},
		{"classified internal", &ClassifiedError{Class: ErrorInternal, Err: fmt.Errorf("x")}, ErrorInternal},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Classify(test.err); got != test.expected {
				t.Errorf("expected %v, got %v", test.expected, got)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	base := fmt.Errorf("connection refused")
	err := Wrap(base, "Gateway", "Start", "listener bind")

	expected := "Gateway.Start: listener bind failed: connection refused"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error should match base via errors.Is")
	}

	if Wrap(nil, "Gateway", "Start", "anything") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestWrapInvalid_PreservesChain(t *testing.T) {
	err := WrapInvalid(ErrMissingField, "Store", "CreateBook", "input validation")

	if !IsInvalid(err) {
		t.Error("WrapInvalid result should classify as invalid")
	}
	if !errors.Is(err, ErrMissingField) {
		t.Error("sentinel should survive wrapping")
	}
	if !strings.Contains(err.Error(), "Store.CreateBook") {
		t.Errorf("error message should carry component context, got %q", err.Error())
	}

	var ce *ClassifiedError
	if !errors.As(err, &ce) {
		t.Fatal("expected ClassifiedError in chain")
	}
	if ce.Component != "Store" || ce.Operation != "CreateBook" {
		t.Errorf("unexpected component/operation: %s/%s", ce.Component, ce.Operation)
	}
}

func TestWrapNotFound(t *testing.T) {
	err := WrapNotFound(ErrNotFound, "Resolver", "Order", "order lookup")

	if !IsNotFound(err) {
		t.Error("WrapNotFound result should classify as not found")
	}
	if IsInvalid(err) {
		t.Error("not-found error must not classify as invalid")
	}
	if WrapNotFound(nil, "a", "b", "c") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestInvalidf(t *testing.T) {
	err := Invalidf("missing required field: %s", "title")

	if !IsInvalid(err) {
		t.Error("Invalidf result should classify as invalid")
	}
	if err.Error() != "missing required field: title" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
