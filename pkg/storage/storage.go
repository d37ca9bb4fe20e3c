// Package storage stages uploaded statement files on disk and hands the
// extraction pipeline a local path to read from.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// StagedFile describes one statement file in the staging area.
type StagedFile struct {
	ID        uuid.UUID
	Name      string
	Size      int64
	Path      string
	CreatedAt time.Time
}

// Staging is the file collaborator the extraction pipeline depends on.
// Upload enforcement (size limits, scanning) belongs to the caller.
type Staging interface {
	// Stash writes the stream to the staging area and returns its record.
	Stash(ctx context.Context, filename string, r io.Reader) (*StagedFile, error)

	// Path resolves a staged file ID to a local filesystem path.
	Path(ctx context.Context, id uuid.UUID) (string, error)

	// Remove deletes a staged file.
	Remove(ctx context.Context, id uuid.UUID) error

	// List returns all staged files, newest first.
	List(ctx context.Context) ([]*StagedFile, error)
}
