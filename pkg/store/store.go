// Package store persists brain snapshots to a local data directory so the
// user directory and scratch data survive restarts.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"minibot/pkg/brain"
)

const (
	defaultDataDirName = ".minibot/data"
	snapshotFileName   = "brain.json"
)

// Store reads and writes brain snapshots under one resolved data
// directory.
type Store struct {
	dir string
}

// Open resolves a data directory and ensures it exists. An empty path
// falls back to ~/.minibot/data.
func Open(dataDir string) (*Store, error) {
	resolved, err := ResolveDir(dataDir)
	if err != nil {
		return nil, err
	}

	return &Store{dir: resolved}, nil
}

// ResolveDir normalizes a data directory path and creates it when missing.
func ResolveDir(dataDir string) (string, error) {
	trimmed := strings.TrimSpace(dataDir)
	if trimmed == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		trimmed = filepath.Join(homeDir, defaultDataDirName)
	}

	expanded, err := expandHome(trimmed)
	if err != nil {
		return "", err
	}

	absPath, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolve absolute data directory: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	if err := os.MkdirAll(cleanPath, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		return "", NormalizeIOError(err, "resolve data directory")
	}

	return filepath.Clean(resolved), nil
}

// Dir returns the normalized absolute data directory path.
func (s *Store) Dir() string {
	if s == nil {
		return ""
	}

	return s.dir
}

type snapshot struct {
	SavedAt time.Time      `json:"saved_at"`
	Users   []snapshotUser `json:"users"`
	Data    map[string]any `json:"data,omitempty"`
}

type snapshotUser struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Room       string         `json:"room,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Save writes the brain's users and private data to the snapshot file. The
// write goes through a temp file and rename so a crash never leaves a
// half-written snapshot.
func (s *Store) Save(b *brain.Brain) error {
	users := b.Users()
	snap := snapshot{
		SavedAt: time.Now().UTC(),
		Users:   make([]snapshotUser, 0, len(users)),
		Data:    b.Data(),
	}
	for _, u := range users {
		snap.Users = append(snap.Users, snapshotUser{
			ID:         u.ID,
			Name:       u.Name,
			Room:       u.Room,
			Attributes: u.Attributes,
		})
	}

	content, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	target := filepath.Join(s.dir, snapshotFileName)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return NormalizeIOError(err, "write snapshot")
	}
	if err := os.Rename(tmp, target); err != nil {
		return NormalizeIOError(err, "commit snapshot")
	}

	return nil
}

// Load merges a previously saved snapshot into the brain. A missing
// snapshot file is not an error; the brain just starts empty.
func (s *Store) Load(b *brain.Brain) error {
	content, err := os.ReadFile(filepath.Join(s.dir, snapshotFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return NormalizeIOError(err, "read snapshot")
	}

	var snap snapshot
	if err := json.Unmarshal(content, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	for _, u := range snap.Users {
		attrs := make(map[string]any, len(u.Attributes)+2)
		for key, value := range u.Attributes {
			attrs[key] = value
		}
		attrs["name"] = u.Name
		attrs["room"] = u.Room
		b.UserForID(u.ID, attrs)
	}
	b.MergeData(snap.Data)

	return nil
}

func expandHome(path string) (string, error) {
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return home, nil
	}

	prefix := "~" + string(filepath.Separator)
	if strings.HasPrefix(path, prefix) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, prefix)), nil
	}

	return path, nil
}
