package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/signadot/rewind/debug"
)

// File stores the latest snapshot in a single file, encoded as YAML
// when the path ends in .yaml or .yml and as JSON otherwise. Writes
// go through a temporary file and a rename, so readers never observe
// a half-written snapshot.
type File struct {
	path string
}

// NewFile returns a file store at path. The file is created on the
// first Write.
func NewFile(path string) *File {
	return &File{path: filepath.Clean(path)}
}

var _ Store = (*File)(nil)

func (f *File) isYAML() bool {
	switch filepath.Ext(f.path) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func (f *File) Write(snapshot map[string]any) error {
	var data []byte
	var err error
	if f.isYAML() {
		data, err = yaml.Marshal(snapshot)
	} else {
		data, err = json.MarshalIndent(snapshot, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if debug.Store() {
		debug.Logf("writing %d snapshot bytes to %s\n", len(data), f.path)
	}

	tmpPath := f.path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	// Atomic rename
	return os.Rename(tmpPath, f.path)
}

func (f *File) Read() (map[string]any, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // nothing stored is not an error
		}
		return nil, err
	}
	snap := map[string]any{}
	if f.isYAML() {
		if err := yaml.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("decoding snapshot: %w", err)
		}
		return snap, nil
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snap, nil
}

func (f *File) Close() error {
	return nil
}
