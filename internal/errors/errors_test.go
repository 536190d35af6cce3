package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	plain := New(ErrNotFound, "row missing")
	if got := plain.Error(); got != "[NOT_FOUND] row missing" {
		t.Errorf("Unexpected error string: %s", got)
	}

	wrapped := Wrap(ErrGatewayQuery, "query failed", stderrors.New("disk full"))
	if got := wrapped.Error(); got != "[GATEWAY_QUERY_FAILED] query failed: disk full" {
		t.Errorf("Unexpected error string: %s", got)
	}
}

func TestIsUnwrapsCodes(t *testing.T) {
	inner := New(ErrValidation, "bad title")
	outer := Wrap(ErrMutationFailed, "insert failed", inner)
	deep := fmt.Errorf("request aborted: %w", outer)

	if !Is(deep, ErrMutationFailed) {
		t.Error("Is should find the outer code")
	}
	if !Is(deep, ErrValidation) {
		t.Error("Is should find the inner code through the chain")
	}
	if Is(deep, ErrRowNotFound) {
		t.Error("Is matched a code nothing in the chain carries")
	}
	if Is(nil, ErrValidation) {
		t.Error("Is on nil should be false")
	}
	if Is(stderrors.New("plain"), ErrValidation) {
		t.Error("Is on a codeless error should be false")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(ErrRowNotFound, "gone")); got != ErrRowNotFound {
		t.Errorf("Expected ROW_NOT_FOUND, got %s", got)
	}
	wrapped := fmt.Errorf("context: %w", New(ErrAuthRole, "nope"))
	if got := CodeOf(wrapped); got != ErrAuthRole {
		t.Errorf("Expected AUTH_ROLE_REQUIRED through the chain, got %s", got)
	}
	if got := CodeOf(stderrors.New("plain")); got != ErrInternal {
		t.Errorf("Codeless error should map to INTERNAL_ERROR, got %s", got)
	}
}
