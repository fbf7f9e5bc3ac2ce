package postgres

import (
	"context"
	"os"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("PLAYGROUND_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PLAYGROUND_TEST_POSTGRES_DSN not set")
	}
	store, err := New(dsn, 2, 1, 5, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStorePutGetDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	const key = "playground-test-key"
	t.Cleanup(func() { _ = store.Delete(ctx, key) })

	if err := store.Put(ctx, key, "v1"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(ctx, key, "v2"); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	v, ok, err := store.Get(ctx, key)
	if err != nil || !ok || v != "v2" {
		t.Fatalf("unexpected value %q ok=%v err=%v", v, ok, err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, err := store.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected key to be gone, ok=%v err=%v", ok, err)
	}
}

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New("", 0, 0, 0, 0); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}

func TestOrDefault(t *testing.T) {
	if orDefault(0, DefaultMaxOpen) != DefaultMaxOpen || orDefault(-1, 3) != 3 || orDefault(9, 3) != 9 {
		t.Fatalf("unexpected orDefault behaviour")
	}
}
