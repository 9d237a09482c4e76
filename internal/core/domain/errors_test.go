package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"format", fmt.Errorf("%w: bad TTL", ErrFormat), "format"},
		{"unsupported", fmt.Errorf("%w: algorithm 1", ErrUnsupportedAlgorithm), "unsupported-algorithm"},
		{"authentication", ErrAuthentication, "authentication"},
		{"not found", fmt.Errorf("%w: no delegation", ErrNotFound), "not-found"},
		{"conflict", &ConflictError{Owner: "example.com.", KeyTag: 60485}, "conflict"},
		{"transient", fmt.Errorf("%w: status 503", ErrTransient), "transient"},
		{"unknown", errors.New("boom"), "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorKind(tt.err); got != tt.want {
				t.Errorf("ErrorKind() = %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestConflictErrorCarriesTaskRef(t *testing.T) {
	err := &ConflictError{Owner: "example.com.", KeyTag: 60485, TaskRef: "tasks/42"}
	if !errors.Is(err, ErrConflict) {
		t.Error("ConflictError does not unwrap to ErrConflict")
	}

	var ce *ConflictError
	if !errors.As(fmt.Errorf("submit: %w", err), &ce) {
		t.Fatal("errors.As failed to recover ConflictError through wrapping")
	}
	if ce.TaskRef != "tasks/42" {
		t.Errorf("TaskRef = %q, expected tasks/42", ce.TaskRef)
	}
}

func TestAmbiguousErrorKeepsCause(t *testing.T) {
	cause := fmt.Errorf("%w: %v", ErrTransient, context.Canceled)
	err := &AmbiguousError{Op: "submit", Err: cause}

	if !IsAmbiguous(err) {
		t.Error("IsAmbiguous() = false for AmbiguousError")
	}
	if !errors.Is(err, ErrTransient) {
		t.Error("AmbiguousError hides the underlying failure class")
	}
	if IsAmbiguous(cause) {
		t.Error("IsAmbiguous() = true for a plain error")
	}
}

func TestResultFail(t *testing.T) {
	r := Result{Index: 3, Action: ActionSubmit, State: StateConverted}
	r.Fail(&AmbiguousError{Op: "submit", Err: fmt.Errorf("%w: connection reset", ErrTransient)})

	if !r.Failed() {
		t.Fatal("Failed() = false after Fail")
	}
	if r.State != StateFailed {
		t.Errorf("State = %q, expected %q", r.State, StateFailed)
	}
	if r.ErrorKind != "transient" {
		t.Errorf("ErrorKind = %q, expected transient", r.ErrorKind)
	}
	if !r.Ambiguous {
		t.Error("Ambiguous flag not set for ambiguous failure")
	}
}

func TestParseAction(t *testing.T) {
	for _, good := range []string{"submit", "retract", "convert"} {
		if _, err := ParseAction(good); err != nil {
			t.Errorf("ParseAction(%q) failed: %v", good, err)
		}
	}
	if _, err := ParseAction("delete"); err == nil {
		t.Error("ParseAction(\"delete\") succeeded, expected error")
	}
}
