// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/strategy-scout/pkg/types"
)

// Store is the persistent strategy corpus. The classifier loads the full
// corpus at the start of a batch, mutates it in memory, and writes it back
// once at the end; implementations must make Save a whole-file replace.
type Store interface {
	// Load returns all corpus entries. A missing or unreadable backing file
	// is an empty corpus, not an error.
	Load() ([]types.Candidate, error)

	// Save rewrites the full corpus atomically.
	Save(entries []types.Candidate) error
}

// FileStore persists the corpus as a YAML file.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the corpus file. A missing file yields an empty corpus. A file
// that fails to parse is ignored for this run rather than repaired; the next
// Save overwrites it.
func (s *FileStore) Load() ([]types.Candidate, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, nil
	}

	var entries []types.Candidate
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, nil
	}
	return entries, nil
}

// Save writes the corpus to a temporary file in the same directory and
// renames it into place, so readers never observe a partial corpus.
func (s *FileStore) Save(entries []types.Candidate) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating corpus directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling corpus: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".corpus-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing corpus: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// MemStore is an in-memory corpus used by tests and by callers that want a
// throwaway classification pass.
type MemStore struct {
	Entries []types.Candidate
	Saves   int
}

// Load returns a copy of the in-memory entries.
func (m *MemStore) Load() ([]types.Candidate, error) {
	out := make([]types.Candidate, len(m.Entries))
	copy(out, m.Entries)
	return out, nil
}

// Save replaces the in-memory entries and counts the write.
func (m *MemStore) Save(entries []types.Candidate) error {
	m.Entries = make([]types.Candidate, len(entries))
	copy(m.Entries, entries)
	m.Saves++
	return nil
}
