package session

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	s := New(3, time.Hour)
	if s.ID == "" {
		t.Error("ID should be set")
	}
	if s.Usage == nil || s.Usage.MaxRepeats != 3 {
		t.Fatalf("Usage = %+v, want MaxRepeats 3", s.Usage)
	}
	if s.IsExpired() {
		t.Error("new session should not be expired")
	}
	if New(0, time.Hour).ID == s.ID {
		t.Error("IDs should be unique")
	}
}

func TestSessionTouchAndReset(t *testing.T) {
	s := New(0, time.Hour)
	s.Usage.Record(1)
	s.Usage.Record(1)
	before := s.ExpiresAt

	s.Touch(2 * time.Hour)
	if s.Compositions != 1 {
		t.Errorf("Compositions = %d, want 1", s.Compositions)
	}
	if !s.ExpiresAt.After(before) {
		t.Error("Touch should extend the expiry")
	}

	s.Reset()
	if s.Usage.Total() != 0 || s.Compositions != 0 {
		t.Errorf("Reset left total=%d compositions=%d", s.Usage.Total(), s.Compositions)
	}
}

func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	got, err := store.Get(ctx, "missing")
	if err != nil || got != nil {
		t.Fatalf("Get(missing) = %v, %v", got, err)
	}

	s := New(2, time.Hour)
	s.Usage.Record(4)
	if err := store.Set(ctx, s); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err = store.Get(ctx, s.ID)
	if err != nil || got == nil {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if got.Usage.Count(4) != 1 || got.Usage.MaxRepeats != 2 {
		t.Errorf("usage not persisted: %+v", got.Usage)
	}

	// Mutating the loaded copy must not change the stored one.
	got.Usage.Record(4)
	again, _ := store.Get(ctx, s.ID)
	if again.Usage.Count(4) != 1 {
		t.Errorf("stored counter changed to %d", again.Usage.Count(4))
	}

	expired := New(0, -time.Minute)
	if err := store.Set(ctx, expired); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.Get(ctx, expired.ID); got != nil {
		t.Error("expired session should not be returned")
	}
	if err := store.Cleanup(ctx); err != nil {
		t.Errorf("Cleanup: %v", err)
	}

	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.Get(ctx, s.ID); got != nil {
		t.Error("deleted session should not be returned")
	}
	if err := store.Delete(ctx, s.ID); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Set(ctx, New(0, time.Hour))
	_ = store.Set(ctx, New(0, -time.Hour))
	if store.Len() != 2 {
		t.Fatalf("Len = %d, want 2", store.Len())
	}
	_ = store.Cleanup(ctx)
	if store.Len() != 1 {
		t.Errorf("Len after cleanup = %d, want 1", store.Len())
	}
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	testStore(t, store)
}

func TestFileStoreCleanup(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, _ := NewFileStore(dir)
	_ = store.Set(ctx, New(0, time.Hour))
	_ = store.Set(ctx, New(0, -time.Hour))

	if err := store.Cleanup(ctx); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("%d files after cleanup, want 1", len(entries))
	}
}

func TestCLIStore(t *testing.T) {
	ctx := context.Background()
	cs, err := NewCLIStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if got, _ := cs.GetSession(ctx); got != nil {
		t.Fatal("fresh store should be empty")
	}

	sess, err := cs.LoadOrCreate(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	sess.Usage.Record(0)
	sess.Touch(DefaultTTL)
	if err := cs.SaveSession(ctx, sess); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(cs.Path()); err != nil {
		t.Errorf("session file missing: %v", err)
	}

	loaded, err := cs.LoadOrCreate(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Usage.Count(0) != 1 {
		t.Errorf("Count(0) = %d, want 1", loaded.Usage.Count(0))
	}
	if loaded.Usage.MaxRepeats != 5 {
		t.Errorf("MaxRepeats = %d, want 5", loaded.Usage.MaxRepeats)
	}
	if loaded.Compositions != 1 {
		t.Errorf("Compositions = %d, want 1", loaded.Compositions)
	}

	if err := cs.DeleteSession(ctx); err != nil {
		t.Fatal(err)
	}
	if got, _ := cs.GetSession(ctx); got != nil {
		t.Error("session should be gone")
	}
}
