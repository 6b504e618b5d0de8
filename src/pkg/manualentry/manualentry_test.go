package manualentry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestDefaults(t *testing.T) {
	want := Entries{"3524", "1060", "8732", "8800", "0211", "5900", "0689", "8622"}
	if DefaultEntries != want {
		t.Fatalf("DefaultEntries = %v", DefaultEntries)
	}
	if e := DefaultEntries.Validate(); e != nil {
		t.Fatalf("defaults should validate: %v", e)
	}
}

func TestValidate(t *testing.T) {
	entries := DefaultEntries
	entries[3] = "88a0"
	if e := entries.Validate(); e == nil {
		t.Fatal("non-digit group should fail")
	}
	entries[3] = "880"
	if e := entries.Validate(); e == nil {
		t.Fatal("short group should fail")
	}
}

func TestAllEmpty(t *testing.T) {
	var entries Entries
	if !entries.AllEmpty() {
		t.Fatal("zero entries should be empty")
	}
	entries[7] = "1"
	if entries.AllEmpty() {
		t.Fatal("entries with a value are not empty")
	}
}

func TestFileStoreMissingFileReturnsDefaults(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "user-groups.json"), DefaultEntries)
	entries, e := store.Load(context.Background())
	if e != nil {
		t.Fatalf("Load returned error: %v", e)
	}
	if entries != DefaultEntries {
		t.Fatalf("entries = %v", entries)
	}
}

func TestFileStorePartialFileFallsBackPerKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user-groups.json")
	if err := os.WriteFile(path, []byte(`{"GROUP_1": "9999", "GROUP_8": "0000"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, e := NewFileStore(path, DefaultEntries).Load(context.Background())
	if e != nil {
		t.Fatalf("Load returned error: %v", e)
	}
	want := DefaultEntries
	want[0] = "9999"
	want[7] = "0000"
	if entries != want {
		t.Fatalf("entries = %v, want %v", entries, want)
	}
}

func TestFileStoreSaveThenLoad(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "prefs", "user-groups.json"), DefaultEntries)
	saved := Entries{"1111", "2222", "3333", "4444", "5555", "6666", "7777", "8888"}
	if e := store.Save(context.Background(), saved); e != nil {
		t.Fatalf("Save returned error: %v", e)
	}
	loaded, e := store.Load(context.Background())
	if e != nil {
		t.Fatalf("Load returned error: %v", e)
	}
	if loaded != saved {
		t.Fatalf("loaded = %v, want %v", loaded, saved)
	}
}

func TestNewStoreUnknownBackend(t *testing.T) {
	cfg := DefaultValueConfig()
	cfg.Backend = "sqlite"
	if _, e := NewStore(cfg); e == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestConfiguredDefaults(t *testing.T) {
	cfg := DefaultValueConfig()
	cfg.Defaults = []string{"0001", "0002", "0003", "0004", "0005", "0006", "0007", "0008"}
	if got := cfg.DefaultsFromConfig(); got[7] != "0008" {
		t.Fatalf("configured defaults ignored: %v", got)
	}
	cfg.Defaults = []string{"0001"}
	if got := cfg.DefaultsFromConfig(); got != DefaultEntries {
		t.Fatalf("short defaults should fall back: %v", got)
	}
}

func TestRedisStore(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	store, e := NewRedisStore(redisURL, "digit-capture-test:"+uuid.NewString(), DefaultEntries)
	if e != nil {
		t.Fatalf("NewRedisStore returned error: %v", e)
	}
	defer func() {
		_ = store.Client.Del(context.Background(), store.Key).Err()
		_ = store.Close()
	}()

	loaded, e := store.Load(context.Background())
	if e != nil {
		t.Fatalf("Load returned error: %v", e)
	}
	if loaded != DefaultEntries {
		t.Fatalf("empty hash should give defaults, got %v", loaded)
	}

	saved := Entries{"1111", "2222", "3333", "4444", "5555", "6666", "7777", "8888"}
	if e := store.Save(context.Background(), saved); e != nil {
		t.Fatalf("Save returned error: %v", e)
	}
	loaded, e = store.Load(context.Background())
	if e != nil {
		t.Fatalf("Load returned error: %v", e)
	}
	if loaded != saved {
		t.Fatalf("loaded = %v, want %v", loaded, saved)
	}
}
