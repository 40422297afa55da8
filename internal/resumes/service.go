package resumes

import (
	"context"
	"errors"
	"strings"
	"time"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/model"
)

// Publisher receives every committed snapshot and every deletion.
type Publisher interface {
	Publish(doc model.Resume)
	Removed(id string)
}

// Service contains business logic for resumes.
type Service struct {
	Repo      Repo
	Publisher Publisher
	Now       func() time.Time
}

// NewService constructs a Service. pub may be nil.
func NewService(repo Repo, pub Publisher) *Service {
	return &Service{Repo: repo, Publisher: pub, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Create stores a blank resume owned by userID.
func (s *Service) Create(ctx context.Context, userID, templateID string) (model.Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return model.Resume{}, ErrInvalidInput
	}
	doc := model.NewEmpty(model.NewID(model.ResumeIDPrefix), userID, templateID, s.now())
	if err := s.Repo.Create(ctx, doc); err != nil {
		return model.Resume{}, err
	}
	metrics.IncResumeMutation()
	telemetry.Info("resume created", map[string]any{
		"resume_id":   doc.ID,
		"template_id": doc.TemplateID,
	})
	s.publish(doc)
	return doc, nil
}

// Get returns one resume owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (model.Resume, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(id) == "" {
		return model.Resume{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, id)
}

// List returns the user's resumes, most recently updated first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]model.Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Update replaces the stored copy of doc and stamps UpdatedAt. Ownership and
// CreatedAt are taken from the stored copy, not from doc.
func (s *Service) Update(ctx context.Context, userID string, doc model.Resume) (model.Resume, error) {
	existing, err := s.Get(ctx, userID, doc.ID)
	if err != nil {
		return model.Resume{}, err
	}
	doc.UserID = existing.UserID
	doc.CreatedAt = existing.CreatedAt
	return s.commit(ctx, doc)
}

// Delete removes the resume.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	metrics.IncResumeMutation()
	telemetry.Info("resume deleted", map[string]any{"resume_id": id})
	if s.Publisher != nil {
		s.Publisher.Removed(id)
	}
	return nil
}

// Edit loads the resume, applies m and commits the result.
func (s *Service) Edit(ctx context.Context, userID, id string, m Mutation) (model.Resume, error) {
	if m == nil {
		return model.Resume{}, ErrInvalidInput
	}
	doc, err := s.Get(ctx, userID, id)
	if err != nil {
		return model.Resume{}, err
	}
	next, err := m(doc)
	if err != nil {
		return model.Resume{}, err
	}
	next.ID = doc.ID
	next.UserID = doc.UserID
	next.CreatedAt = doc.CreatedAt
	return s.commit(ctx, next)
}

func (s *Service) commit(ctx context.Context, doc model.Resume) (model.Resume, error) {
	doc.Normalize()
	if err := doc.Validate(); err != nil {
		return model.Resume{}, errors.Join(ErrInvalidInput, err)
	}
	doc.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, doc); err != nil {
		return model.Resume{}, err
	}
	metrics.IncResumeMutation()
	s.publish(doc)
	return doc, nil
}

func (s *Service) publish(doc model.Resume) {
	if s.Publisher == nil {
		return
	}
	s.Publisher.Publish(doc.Clone())
}
