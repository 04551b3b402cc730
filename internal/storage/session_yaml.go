package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"trackpace/internal/core/model"
)

const sessionFileName = SessionKey + ".yaml"

// YAMLStore keeps the session in a single YAML file.
type YAMLStore struct {
	path string
}

// NewYAMLStore returns a store writing <dir>/session_state.yaml.
func NewYAMLStore(dir string) *YAMLStore {
	return &YAMLStore{path: filepath.Join(dir, sessionFileName)}
}

// Path returns the session file location.
func (store *YAMLStore) Path() string {
	return store.path
}

// Load reads the saved session. found is false when no file exists yet.
func (store *YAMLStore) Load(ctx context.Context) (model.SessionState, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.SessionState{}, false, err
	}

	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.SessionState{}, false, nil
		}
		return model.SessionState{}, false, fmt.Errorf("read session file: %w", err)
	}

	record := defaultRecord()
	if err := yaml.Unmarshal(rawData, &record); err != nil {
		return model.SessionState{}, false, fmt.Errorf("parse session yaml: %w", err)
	}
	return record.toState(), true, nil
}

// Save replaces the session file.
func (store *YAMLStore) Save(ctx context.Context, state model.SessionState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	serialized, err := yaml.Marshal(toRecord(state))
	if err != nil {
		return fmt.Errorf("marshal session yaml: %w", err)
	}
	if err := writeFileAtomic(store.path, serialized, 0o644); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Close is a no-op; the file is not held open.
func (store *YAMLStore) Close() error {
	return nil
}
