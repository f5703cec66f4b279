package request

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/libsearch/internal/domain/category"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New("python", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Category() != category.Any {
		t.Errorf("expected Any filter, got %q", r.Category())
	}
	if r.Limit() != DefaultLimit {
		t.Errorf("expected default limit, got %d", r.Limit())
	}
	if r.Query() != "python" {
		t.Errorf("unexpected query %q", r.Query())
	}
}

func TestNew_EmptyQueryAllowed(t *testing.T) {
	if _, err := New("", category.Software, 10); err != nil {
		t.Fatalf("empty query must be valid: %v", err)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(strings.Repeat("a", MaxQueryLength+1), category.Any, 10); err == nil {
		t.Error("expected error for long query")
	}
	if _, err := New("q", category.Label("poetry"), 10); err == nil {
		t.Error("expected error for invalid category")
	}
}
