package backing

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/arif-itm/FarmProof/internal/codec"
	"github.com/arif-itm/FarmProof/internal/types"
)

const defaultSnapshotFile = "demoDatabase.json"

// File persists the Domain State as a single JSON document on disk.
// Writes go through a temp file and rename so readers never observe a
// half-written document. Concurrent saves from the same process are
// serialized; the later write wins.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a file backing at path, defaulting to
// demoDatabase.json in the working directory.
func NewFile(path string) *File {
	if path == "" {
		path = defaultSnapshotFile
	}
	return &File{path: path}
}

// Path returns the snapshot file location.
func (f *File) Path() string {
	return f.path
}

func (f *File) Load() (types.DomainState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		return types.DefaultState(), nil
	}
	state, err := codec.DecodeState(data)
	if err != nil {
		return types.DefaultState(), nil
	}
	return state, nil
}

func (f *File) Save(state types.DomainState) error {
	data, err := codec.EncodeState(state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "farmproof-snapshot-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (f *File) Close() error {
	return nil
}
