// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// keyFile is the well-known name of the persisted identity key.
const keyFile = "identity"

// Store persists a single opaque client key in a directory on disk.
// The key is generated once and returned unchanged afterwards; it only
// deduplicates a participant's session and carries no secret value.
type Store struct {
	dir string
}

// NewStore uses dir as the storage location. An empty dir falls back to
// a retropoll directory under the user config dir.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate config dir: %w", err)
		}
		dir = filepath.Join(base, "retropoll")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create identity dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// GetOrCreateKey returns the stored key, generating and persisting one on
// first use. A client cannot participate without a stable identity, so
// storage failures are surfaced rather than papered over.
func (s *Store) GetOrCreateKey() (string, error) {
	path := filepath.Join(s.dir, keyFile)

	data, err := os.ReadFile(path)
	if err == nil {
		key := strings.TrimSpace(string(data))
		if key != "" {
			return key, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to read identity key: %w", err)
	}

	key := uuid.NewString()
	if err := os.WriteFile(path, []byte(key+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("failed to persist identity key: %w", err)
	}
	return key, nil
}
