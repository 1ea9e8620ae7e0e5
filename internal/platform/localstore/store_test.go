package localstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"solve/internal/platform/localstore"
)

func TestSetGetDeleteSurvivesReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "solve.db")

	store, err := localstore.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok, err := store.Get(ctx, "research_session_id"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%t err=%v", ok, err)
	}
	if err := store.Set(ctx, "research_session_id", "abc123"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "research_session_id", "def456"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := localstore.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	value, ok, err := reopened.Get(ctx, "research_session_id")
	if err != nil || !ok || value != "def456" {
		t.Fatalf("expected persisted def456, got %q ok=%t err=%v", value, ok, err)
	}
	if err := reopened.Delete(ctx, "research_session_id"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := reopened.Get(ctx, "research_session_id"); ok {
		t.Fatalf("expected key removed")
	}
}
