package pack

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("pack not found")

// RevisionSummary describes one saved snapshot of the current pack.
type RevisionSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Author    string `json:"author"`
	SavedBy   string `json:"saved_by,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// Store is the editor's persistence contract: a single "current pack"
// slot plus an append-only revision history. savedBy is the
// authenticated subject performing the save.
type Store interface {
	SaveCurrent(ctx context.Context, p Pack, savedBy string) error
	LoadCurrent(ctx context.Context) (Pack, error)
	Clear(ctx context.Context) error

	ListRevisions(ctx context.Context, limit int) ([]RevisionSummary, error)
	GetRevision(ctx context.Context, id string) (Pack, error)
}
