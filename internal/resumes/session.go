package resumes

import (
	"context"

	"resume-builder/resume/model"
)

// Session is the state of one editing flow: who is editing and which
// resume is open. It is not shared between flows.
type Session struct {
	Svc     *Service
	User    string
	Current *model.Resume
}

// NewSession starts a flow for user with nothing open.
func NewSession(svc *Service, user string) *Session {
	return &Session{Svc: svc, User: user}
}

// Open loads id and makes it current.
func (s *Session) Open(ctx context.Context, id string) (model.Resume, error) {
	doc, err := s.Svc.Get(ctx, s.User, id)
	if err != nil {
		return model.Resume{}, err
	}
	s.Current = &doc
	return doc, nil
}

// Save commits doc. Current is re-pointed at the saved copy when it holds
// the same resume.
func (s *Session) Save(ctx context.Context, doc model.Resume) (model.Resume, error) {
	saved, err := s.Svc.Update(ctx, s.User, doc)
	if err != nil {
		return model.Resume{}, err
	}
	s.repoint(saved)
	return saved, nil
}

// Apply runs m against the stored resume and commits it.
func (s *Session) Apply(ctx context.Context, id string, m Mutation) (model.Resume, error) {
	saved, err := s.Svc.Edit(ctx, s.User, id, m)
	if err != nil {
		return model.Resume{}, err
	}
	s.repoint(saved)
	return saved, nil
}

// Delete removes id and clears Current when it was open.
func (s *Session) Delete(ctx context.Context, id string) error {
	if err := s.Svc.Delete(ctx, s.User, id); err != nil {
		return err
	}
	if s.Current != nil && s.Current.ID == id {
		s.Current = nil
	}
	return nil
}

func (s *Session) repoint(doc model.Resume) {
	if s.Current != nil && s.Current.ID == doc.ID {
		s.Current = &doc
	}
}
