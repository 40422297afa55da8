package resumes

import (
	"context"

	"resume-builder/resume/model"
)

// Repo defines persistence operations for resumes. Every lookup is scoped
// to the owning user; a resume owned by someone else is reported as
// ErrNotFound.
type Repo interface {
	Create(ctx context.Context, r model.Resume) error
	GetByID(ctx context.Context, userID, id string) (model.Resume, error)
	Update(ctx context.Context, r model.Resume) error
	Delete(ctx context.Context, userID, id string) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Resume, error)
}
