package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

// newTestKV returns a KV backed by an in-memory database, closed with the
// test.
func newTestKV(t *testing.T) *KV {
	t.Helper()
	kv, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:) error = %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestGetAbsentKey(t *testing.T) {
	kv := newTestKV(t)

	value, ok, err := kv.Get(context.Background(), "never-written")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true for an absent key")
	}
	if value != nil {
		t.Errorf("Get() value = %q, want nil", value)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	if err := kv.Set(ctx, "k", []byte(`{"hello":"world"}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, ok, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false after Set()")
	}
	if string(value) != `{"hello":"world"}` {
		t.Errorf("Get() = %q, want the stored value", value)
	}
}

func TestSetOverwrites(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	if err := kv.Set(ctx, "k", []byte("old")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := kv.Set(ctx, "k", []byte("new")); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	value, _, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(value) != "new" {
		t.Errorf("Get() = %q, want %q", value, "new")
	}
}

func TestDelete(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	if err := kv.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, ok, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("key should be absent after Delete()")
	}

	// Deleting again is a no-op, not an error.
	if err := kv.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() of absent key error = %v", err)
	}
}

func TestValueSurvivesReopen(t *testing.T) {
	// The whole point of the substrate: data persists across process
	// lifetimes. Use a real file, write, close, reopen, read.
	path := filepath.Join(t.TempDir(), "devshare.db")
	ctx := context.Background()

	kv, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := kv.Set(ctx, "durable", []byte("still here")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("New() after reopen error = %v", err)
	}
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, "durable")
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if !ok || string(value) != "still here" {
		t.Errorf("Get() after reopen = %q, %v; want %q, true", value, ok, "still here")
	}
}
