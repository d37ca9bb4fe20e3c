package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStaging implements Staging on the local filesystem. Each staged file
// gets an ID-prefixed name plus a JSON metadata sidecar.
type LocalStaging struct {
	root string
}

// NewLocalStaging creates the staging directory if needed.
func NewLocalStaging(root string) (*LocalStaging, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	return &LocalStaging{root: root}, nil
}

func (s *LocalStaging) Stash(ctx context.Context, filename string, r io.Reader) (*StagedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.New()
	stored := fmt.Sprintf("%s_%s", id.String()[:8], sanitizeFilename(filename))
	path := filepath.Join(s.root, stored)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write staged file: %w", err)
	}

	info := &StagedFile{
		ID:        id,
		Name:      filename,
		Size:      size,
		Path:      path,
		CreatedAt: time.Now(),
	}
	if err := s.writeMeta(info); err != nil {
		os.Remove(path)
		return nil, err
	}
	return info, nil
}

func (s *LocalStaging) Path(ctx context.Context, id uuid.UUID) (string, error) {
	info, err := s.readMeta(id)
	if err != nil {
		return "", err
	}
	return info.Path, nil
}

func (s *LocalStaging) Remove(ctx context.Context, id uuid.UUID) error {
	info, err := s.readMeta(id)
	if err != nil {
		return err
	}
	if err := os.Remove(info.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove staged file: %w", err)
	}
	return os.Remove(s.metaPath(id))
}

func (s *LocalStaging) List(ctx context.Context) ([]*StagedFile, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read staging directory: %w", err)
	}

	var files []*StagedFile
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.root, entry.Name()))
		if err != nil {
			continue
		}
		var info StagedFile
		if err := json.Unmarshal(data, &info); err != nil {
			continue
		}
		files = append(files, &info)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].CreatedAt.After(files[j].CreatedAt) })
	return files, nil
}

func (s *LocalStaging) metaPath(id uuid.UUID) string {
	return filepath.Join(s.root, id.String()+".meta.json")
}

func (s *LocalStaging) writeMeta(info *StagedFile) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(s.metaPath(info.ID), data, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

func (s *LocalStaging) readMeta(id uuid.UUID) (*StagedFile, error) {
	data, err := os.ReadFile(s.metaPath(id))
	if err != nil {
		return nil, fmt.Errorf("staged file %s: %w", id, err)
	}
	var info StagedFile
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decode metadata for %s: %w", id, err)
	}
	return &info, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
