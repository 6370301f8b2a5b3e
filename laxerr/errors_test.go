package laxerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lattice-substrate/json-lax/laxerr"
)

func TestFailureClassExitCodes(t *testing.T) {
	cases := []struct {
		class    laxerr.FailureClass
		wantExit int
	}{
		{laxerr.InvalidInput, 2},
		{laxerr.InvalidSchema, 2},
		{laxerr.ValidationFailed, 2},
		{laxerr.NotCanonical, 2},
		{laxerr.NonFiniteNumber, 2},
		{laxerr.UnsupportedType, 2},
		{laxerr.BoundExceeded, 2},
		{laxerr.CLIUsage, 2},
		{laxerr.InternalIO, 10},
		{laxerr.InternalError, 10},
	}
	for _, tc := range cases {
		if got := tc.class.ExitCode(); got != tc.wantExit {
			t.Errorf("%s.ExitCode() = %d, want %d", tc.class, got, tc.wantExit)
		}
	}
}

func TestErrorFormat(t *testing.T) {
	e := laxerr.New(laxerr.InvalidInput, "input is not JSON")
	if e.Error() != "laxerr: INVALID_INPUT: input is not JSON" {
		t.Fatalf("unexpected error string: %s", e.Error())
	}
	e = laxerr.Newf(laxerr.InvalidSchema, "unknown type %q", "tuple")
	if e.Error() != `laxerr: INVALID_SCHEMA: unknown type "tuple"` {
		t.Fatalf("unexpected error string: %s", e.Error())
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	e := laxerr.Wrap(laxerr.InternalIO, "write failed", cause)
	if !errors.Is(e, cause) {
		t.Fatal("Unwrap did not return cause")
	}
	if got := e.Error(); got != "laxerr: INTERNAL_IO: write failed: underlying" {
		t.Fatalf("unexpected wrapped error string: %s", got)
	}
}

func TestClassOf(t *testing.T) {
	inner := laxerr.New(laxerr.NotCanonical, "bytes differ")
	if got := laxerr.ClassOf(fmt.Errorf("outer: %w", inner)); got != laxerr.NotCanonical {
		t.Fatalf("ClassOf wrapped = %s", got)
	}
	if got := laxerr.ClassOf(errors.New("plain")); got != laxerr.InternalError {
		t.Fatalf("ClassOf plain = %s", got)
	}
}
