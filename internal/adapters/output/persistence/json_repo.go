package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hue-bridge-client/internal/domain/model"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

type JSONConfigRepository struct {
	fs       afero.Fs
	filepath string
	mu       sync.RWMutex
}

func NewJSONConfigRepository(filepath string) *JSONConfigRepository {
	return NewJSONConfigRepositoryFs(afero.NewOsFs(), filepath)
}

// NewJSONConfigRepositoryFs stores the record on the given filesystem.
func NewJSONConfigRepositoryFs(fs afero.Fs, filepath string) *JSONConfigRepository {
	return &JSONConfigRepository{fs: fs, filepath: filepath}
}

func (r *JSONConfigRepository) Path() string {
	return r.filepath
}

func (r *JSONConfigRepository) Load(ctx context.Context) (*model.BridgeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := afero.ReadFile(r.fs, r.filepath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", model.ErrNoConfig, r.filepath)
		}
		return nil, err
	}

	var record model.BridgeRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.filepath, err)
	}
	if !record.Bridge.Complete() {
		return nil, fmt.Errorf("%s: %w", r.filepath, model.ErrIncompleteIdentity)
	}
	return &record, nil
}

// Save replaces the file atomically: the record is written to a temp file in
// the same directory and renamed over the target.
func (r *JSONConfigRepository) Save(ctx context.Context, record *model.BridgeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(r.filepath)
	if err := r.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(r.fs, dir, "."+filepath.Base(r.filepath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		r.fs.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		r.fs.Remove(tmpName)
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		r.fs.Remove(tmpName)
		return err
	}
	if err := r.fs.Rename(tmpName, r.filepath); err != nil {
		r.fs.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", r.filepath, err)
	}
	return nil
}
