package resumes

import (
	"context"
	"sort"
	"sync"

	"resume-builder/resume/model"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]model.Resume // id -> resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]model.Resume)}
}

func (r *MemoryRepo) Create(ctx context.Context, doc model.Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[doc.ID]; exists {
		return ErrInvalidInput
	}
	r.data[doc.ID] = doc.Clone()
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, id string) (model.Resume, error) {
	if err := ctx.Err(); err != nil {
		return model.Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[id]
	if !ok || doc.UserID != userID {
		return model.Resume{}, ErrNotFound
	}
	return doc.Clone(), nil
}

// Update replaces the stored copy. The last writer wins.
func (r *MemoryRepo) Update(ctx context.Context, doc model.Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[doc.ID]
	if !ok || existing.UserID != doc.UserID {
		return ErrNotFound
	}
	r.data[doc.ID] = doc.Clone()
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[id]
	if !ok || existing.UserID != userID {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// ListByUser returns resumes for a user, most recently updated first,
// honoring limit/offset. A zero limit means no limit.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	docs := make([]model.Resume, 0)
	for _, doc := range r.data {
		if doc.UserID == userID {
			docs = append(docs, doc.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].UpdatedAt.Equal(docs[j].UpdatedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
	})

	if offset >= len(docs) {
		return []model.Resume{}, nil
	}
	end := len(docs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return docs[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)

// ClaimGuest moves every resume owned by guestUserID to authedUserID.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, doc := range r.data {
		if doc.UserID == guestUserID {
			doc.UserID = authedUserID
			r.data[id] = doc
			n++
		}
	}
	return n, nil
}
