package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// FileRepository persists snapshots on the local filesystem.
type FileRepository struct{}

// NewFileRepository creates a new FileRepository.
func NewFileRepository() *FileRepository {
	return &FileRepository{}
}

// Load reads a snapshot from the given path.
// Returns (nil, nil) when no snapshot exists there yet.
func (r *FileRepository) Load(path string) (*Snapshot, error) {
	// os.OpenRoot confines reads to the snapshot directory.
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	root, err := os.OpenRoot(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open directory %q: %w", dir, err)
	}
	defer func() { _ = root.Close() }()

	file, err := root.Open(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open snapshot %q: %w", base, err)
	}
	defer func() { _ = file.Close() }()

	var snap Snapshot
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot YAML: %w", err)
	}

	return &snap, nil
}

// Save writes a snapshot to the given path, creating the directory if
// needed.
func (r *FileRepository) Save(path string, snap *Snapshot) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory %q: %w", dir, err)
	}

	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %q: %w", path, err)
	}
	return nil
}
