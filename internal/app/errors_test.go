package app

import (
	"errors"
	"testing"
)

func TestOperationError(t *testing.T) {
	base := errors.New("disk full")

	tests := []struct {
		name string
		err  *OperationError
		want string
	}{
		{"op only", NewOperationError("save", "", nil), "save"},
		{"target", NewOperationError("save", "a.txt", base), "save a.txt: disk full"},
		{"context", NewOperationError("run", "eval", base).WithContext("Untitled-1"), "run eval (Untitled-1): disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}

	if !errors.Is(NewOperationError("save", "a", base), base) {
		t.Error("OperationError should unwrap to its cause")
	}
}

func TestOperationErrorNil(t *testing.T) {
	var e *OperationError
	if e.Error() != "" {
		t.Error("nil Error() should be empty")
	}
	if e.Unwrap() != nil {
		t.Error("nil Unwrap() should be nil")
	}
	if e.WithContext("x") != nil {
		t.Error("nil WithContext() should be nil")
	}
}

func TestInitError(t *testing.T) {
	cause := errors.New("bad value")
	err := &InitError{Component: "config", Err: cause}

	if got := err.Error(); got != "init config: bad value" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("InitError should match its cause")
	}
	if !errors.Is(err, ErrInitialization) {
		t.Error("InitError should match ErrInitialization")
	}
}
