// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"os"
	"path/filepath"
	"testing"
)

func TestKeyIsStableAcrossCalls(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	first, err := store.GetOrCreateKey()
	if err != nil {
		t.Fatalf("Failed to create key: %v", err)
	}
	if first == "" {
		t.Fatal("Expected a non-empty key")
	}

	second, err := store.GetOrCreateKey()
	if err != nil {
		t.Fatalf("Failed to read key back: %v", err)
	}
	if second != first {
		t.Errorf("Expected stable key, got %q then %q", first, second)
	}
}

func TestKeySurvivesStoreRecreation(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	first, err := store.GetOrCreateKey()
	if err != nil {
		t.Fatalf("Failed to create key: %v", err)
	}

	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	second, err := reopened.GetOrCreateKey()
	if err != nil {
		t.Fatalf("Failed to read key: %v", err)
	}
	if second != first {
		t.Errorf("Expected key persisted on disk, got %q then %q", first, second)
	}
}

func TestDistinctDirsGetDistinctKeys(t *testing.T) {
	a, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	b, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	keyA, _ := a.GetOrCreateKey()
	keyB, _ := b.GetOrCreateKey()
	if keyA == keyB {
		t.Errorf("Expected distinct identities per directory, both got %q", keyA)
	}
}

func TestEmptyKeyFileIsRegenerated(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, keyFile), []byte("\n"), 0o600); err != nil {
		t.Fatalf("Failed to seed empty key file: %v", err)
	}

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	key, err := store.GetOrCreateKey()
	if err != nil {
		t.Fatalf("Failed to regenerate key: %v", err)
	}
	if key == "" {
		t.Error("Expected a regenerated key for a blank file")
	}
}

func TestNewStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "identity")

	if _, err := NewStore(dir); err != nil {
		t.Fatalf("Failed to create store in missing dir: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Expected directory created, got %v", err)
	}
}
