package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/tyamagishi/kaizen/internal/journal"
	"github.com/tyamagishi/kaizen/internal/store"
)

func newManager(t *testing.T) (*Manager, store.Provider) {
	t.Helper()

	provider := store.NewJSONStore(filepath.Join(t.TempDir(), "kaizen.json"))
	if err := provider.Init(); err != nil {
		t.Fatalf("store Init failed: %v", err)
	}
	return NewManager(provider), provider
}

func TestCreateAndRestore(t *testing.T) {
	mgr, provider := newManager(t)
	ctx := context.Background()

	entries := journal.NewService(provider, zap.NewNop())
	added, err := entries.Add(ctx, "u1", journal.Input{Date: "2024-03-01", Plan: "write"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	path, err := mgr.Create(ctx, "u1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}

	// Wipe the entry, then bring it back from the snapshot.
	if err := provider.Delete(ctx, "u1", store.CollectionEntries, added.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	restored, err := mgr.Restore(ctx, "u1", path)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored != 1 {
		t.Errorf("restored = %d documents, want 1", restored)
	}

	got, err := entries.Get(ctx, "u1", added.ID)
	if err != nil {
		t.Fatalf("Get after restore failed: %v", err)
	}
	if got.Plan != "write" {
		t.Errorf("restored entry plan = %q", got.Plan)
	}
}

func TestRestore_RejectsOtherUsersSnapshot(t *testing.T) {
	mgr, provider := newManager(t)
	ctx := context.Background()

	entries := journal.NewService(provider, zap.NewNop())
	if _, err := entries.Add(ctx, "u1", journal.Input{Date: "2024-03-01", Plan: "write"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	path, err := mgr.Create(ctx, "u1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := mgr.Restore(ctx, "u2", path); err == nil {
		t.Error("restoring another user's snapshot should fail")
	}
}

func TestRestore_RejectsMalformedSnapshot(t *testing.T) {
	mgr, _ := newManager(t)

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	if _, err := mgr.Restore(context.Background(), "u1", path); err == nil {
		t.Error("malformed snapshot should fail before any write")
	}
}

func TestList_NewestFirst(t *testing.T) {
	mgr, provider := newManager(t)
	ctx := context.Background()

	entries := journal.NewService(provider, zap.NewNop())
	if _, err := entries.Add(ctx, "u1", journal.Input{Date: "2024-03-01", Plan: "write"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if _, err := mgr.Create(ctx, "u1"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := mgr.Create(ctx, "u1"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups, got %d", len(backups))
	}
	if backups[0].Timestamp.Before(backups[1].Timestamp) {
		t.Error("expected newest backup first")
	}
}
