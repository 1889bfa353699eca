package rosterdb

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	rosterdomain "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/domain"
)

// DefaultRosterFile is the file name used when no path is configured.
const DefaultRosterFile = "players.json"

// FileRepository stores the roster as a JSON document on the local filesystem.
type FileRepository struct {
	path string
}

// NewFileRepository creates a file-backed repository.
func NewFileRepository(path string) *FileRepository {
	if path == "" {
		path = DefaultRosterFile
	}
	return &FileRepository{path: path}
}

// Path returns the file the repository reads and writes.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the roster file. A missing file is an empty roster.
func (r *FileRepository) Load(ctx context.Context) (rosterdomain.Roster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return rosterdomain.Roster{}, nil
		}
		return nil, fmt.Errorf("failed to read roster file %q: %w", r.path, err)
	}

	roster, err := DecodeRoster(data)
	if err != nil {
		return nil, fmt.Errorf("roster file %q: %w", r.path, err)
	}
	return roster, nil
}

// Save writes the roster to a temporary file next to the target and renames it into
// place, so readers see either the old or the new roster, never a partial one.
func (r *FileRepository) Save(ctx context.Context, roster rosterdomain.Roster) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := EncodeRoster(roster)
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create roster directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp roster file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp roster file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp roster file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp roster file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set roster file mode: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("failed to replace roster file %q: %w", r.path, err)
	}
	committed = true
	return nil
}
