package db

import (
	"context"
	"errors"
	"testing"
)

func TestError_Message(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{&Error{Op: OpPing, Err: context.DeadlineExceeded}, "PING: context deadline exceeded"},
		{&Error{Op: OpGet, Key: "libsearch:k", Err: context.Canceled}, "GET libsearch:k: context canceled"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestError_Unwrap(t *testing.T) {
	var err error = &Error{Op: OpIncrBy, Key: "k", Err: context.DeadlineExceeded}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected Unwrap to expose the cause")
	}
	var dbErr *Error
	if !errors.As(err, &dbErr) || dbErr.Op != OpIncrBy {
		t.Error("expected errors.As to find *Error")
	}
}
