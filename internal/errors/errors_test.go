package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapNil(t *testing.T) {
	if Wrap(CategoryRead, "read", nil) != nil {
		t.Error("Wrap(nil) should stay nil")
	}
	if WrapFatal(CategoryWalk, "mkdir", nil) != nil {
		t.Error("WrapFatal(nil) should stay nil")
	}
}

func TestIsFatal(t *testing.T) {
	base := errors.New("boom")

	if IsFatal(nil) {
		t.Error("nil reported as fatal")
	}
	if IsFatal(Wrap(CategoryPreview, "encode", base)) {
		t.Error("recoverable error reported as fatal")
	}
	if !IsFatal(WrapFatal(CategoryWalk, "mkdir", base)) {
		t.Error("fatal error not detected")
	}
	if !IsFatal(base) {
		t.Error("foreign errors should be treated as fatal")
	}

	wrapped := fmt.Errorf("outer: %w", Wrap(CategoryOptimize, "decode", base))
	if IsFatal(wrapped) {
		t.Error("wrapped recoverable error reported as fatal")
	}
}

func TestCategory(t *testing.T) {
	err := fmt.Errorf("ctx: %w", New(CategoryPreview, "write", ErrEmptyInput))

	if !IsCategory(err, CategoryPreview) {
		t.Error("category not matched through wrapping")
	}
	if IsCategory(err, CategoryWalk) {
		t.Error("wrong category matched")
	}
	if got := CategoryOf(err); got != CategoryPreview {
		t.Errorf("CategoryOf: got %q", got)
	}
	if !errors.Is(err, ErrEmptyInput) {
		t.Error("sentinel lost through Unwrap")
	}
}

func TestErrorString(t *testing.T) {
	err := New(CategoryOptimize, "resize", errors.New("bad"))
	if got, want := err.Error(), "[optimize] resize: bad"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
