package exports

import "context"

// Repo stores export history.
type Repo interface {
	Create(ctx context.Context, rec Record) error
	GetByID(ctx context.Context, userID, id string) (Record, error)
	ListByResume(ctx context.Context, userID, resumeID string, limit int) ([]Record, error)
	Delete(ctx context.Context, userID, id string) error
}
