package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/3leaps/gopurge/pkg/secretbox"
)

// Store is the persistence collaborator. The core treats it as a simple
// keyed blob store with no transactional guarantees; concurrent saves are
// last-write-wins.
type Store interface {
	// Load returns the persisted settings, or defaults if nothing has
	// been saved yet.
	Load() (*Settings, error)

	// Save persists the settings.
	Save(*Settings) error
}

// FileStore persists settings to a single file. The format is chosen by
// extension: .yaml/.yml for YAML, anything else for JSON.
type FileStore struct {
	path string
	box  *secretbox.Box
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithLegacyMigration enables one-time plaintext credential migration on
// load. Blobs containing legacy plaintext fields are migrated with the
// given box and persisted back immediately.
func WithLegacyMigration(box *secretbox.Box) FileStoreOption {
	return func(fs *FileStore) {
		fs.box = box
	}
}

// NewFileStore creates a file-backed settings store at the given path.
func NewFileStore(path string, opts ...FileStoreOption) *FileStore {
	fs := &FileStore{path: path}
	for _, opt := range opts {
		opt(fs)
	}
	return fs
}

// Path returns the backing file path.
func (fs *FileStore) Path() string {
	return fs.path
}

// Load reads the settings file. A missing file yields Default() without
// error; that is the "created on first configuration read" case.
func (fs *FileStore) Load() (*Settings, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	raw := make(map[string]any)
	if fs.isYAML() {
		err = yaml.Unmarshal(data, &raw)
	} else {
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parse settings file %s: %w", fs.path, err)
	}

	s, err := FromMap(raw)
	if err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}

	if fs.box != nil && MigrateLegacy(s, fs.box) {
		if err := fs.Save(s); err != nil {
			return nil, fmt.Errorf("persist migrated settings: %w", err)
		}
	}

	return s, nil
}

// Save writes the settings atomically: marshal to a temp file in the same
// directory, then rename over the target. Mode 0600 because the file holds
// encrypted credentials.
func (fs *FileStore) Save(s *Settings) error {
	var (
		data []byte
		err  error
	)
	if fs.isYAML() {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close settings file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod settings file: %w", err)
	}

	if err := os.Rename(tmpName, fs.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}

func (fs *FileStore) isYAML() bool {
	switch strings.ToLower(filepath.Ext(fs.path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
