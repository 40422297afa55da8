package exports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/export"
	"resume-builder/resume/model"
	"resume-builder/resume/preview"
	"resume-builder/resume/render"
)

// ResumeSource loads a resume owned by a user.
type ResumeSource interface {
	Get(ctx context.Context, userID, id string) (model.Resume, error)
}

// Result is a finished export. Shared is set when the artifact came from a
// concurrent export of the same revision.
type Result struct {
	Artifact export.Artifact
	Record   Record
	Shared   bool
}

// Service renders resumes and runs them through the export pipeline.
type Service struct {
	Resumes  ResumeSource
	Registry *render.Registry
	Pipeline *export.Pipeline
	// Store and Records are optional. Archive keeps PDF bytes in Store.
	Store   object.ObjectStore
	Records Repo
	Archive bool
	Timeout time.Duration
	Now     func() time.Time

	group singleflight.Group
}

// Export renders the stored resume, presents it at scale and exports it.
// Concurrent exports of the same revision share one pipeline run.
func (s *Service) Export(ctx context.Context, userID, id string, scale float64) (Result, error) {
	doc, err := s.Resumes.Get(ctx, userID, id)
	if err != nil {
		return Result{}, err
	}

	key := flightKey(doc)
	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.run(ctx, doc, scale)
	})
	if err != nil {
		return Result{}, err
	}
	res := v.(Result)
	if shared {
		metrics.IncExportShared()
		res.Shared = true
	}
	return res, nil
}

func flightKey(doc model.Resume) string {
	return doc.UserID + "|" + doc.ID + "|" + strconv.FormatInt(doc.UpdatedAt.UnixNano(), 10) + "|" + doc.TemplateID
}

func (s *Service) run(ctx context.Context, doc model.Resume, scale float64) (Result, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	metrics.IncExportStarted()
	start := metrics.NowMillis()
	fields := map[string]any{
		"resume_id":   doc.ID,
		"template_id": doc.TemplateID,
	}

	res, err := s.build(ctx, doc, scale)
	elapsed := metrics.NowMillis() - start
	fields["duration_ms"] = elapsed
	metrics.ObserveExportDurationMs(elapsed)
	if err != nil {
		metrics.IncExportFailed()
		fields["error"] = err.Error()
		telemetry.Error("export failed", fields)
		return Result{}, err
	}

	metrics.IncExportCompleted()
	metrics.ObserveExportBytes(len(res.Artifact.Data))
	fields["size_bytes"] = len(res.Artifact.Data)
	fields["archived"] = res.Record.Archived()
	telemetry.Info("export completed", fields)
	return res, nil
}

func (s *Service) build(ctx context.Context, doc model.Resume, scale float64) (Result, error) {
	layout, err := s.Registry.Render(doc)
	if err != nil {
		return Result{}, &export.Fault{Step: export.StepPrepare, Err: err}
	}
	surface := preview.Present(layout, scale)

	artifact, err := s.Pipeline.Export(ctx, doc, surface)
	if err != nil {
		return Result{}, err
	}
	if err := export.Verify(artifact); err != nil {
		return Result{}, err
	}

	rec := Record{
		ID:         uuid.NewString(),
		ResumeID:   doc.ID,
		UserID:     doc.UserID,
		TemplateID: doc.TemplateID,
		FileName:   artifact.FileName,
		SizeBytes:  int64(len(artifact.Data)),
		PageWidth:  artifact.PageWidth,
		PageHeight: artifact.PageHeight,
		CreatedAt:  s.now(),
	}

	// The record goes in first. A record whose object never landed opens as
	// ErrNotArchived; an object with no record would never be reachable.
	var key string
	if s.Archive && s.Store != nil {
		key, err = object.ExportKey(doc.UserID, doc.ID, doc.UpdatedAt.UnixMilli(), artifact.FileName)
		if err != nil {
			return Result{}, fmt.Errorf("export key: %w", err)
		}
		rec.StorageKey = key
	}

	if s.Records != nil {
		if err := s.Records.Create(ctx, rec); err != nil {
			return Result{}, fmt.Errorf("record export: %w", err)
		}
	}

	if key != "" {
		if _, err := s.Store.SaveWithKey(ctx, key, artifact.ContentType, bytes.NewReader(artifact.Data)); err != nil {
			s.forget(rec)
			return Result{}, fmt.Errorf("archive export: %w", err)
		}
	}

	return Result{Artifact: artifact, Record: rec}, nil
}

// forget removes a record whose archive could not be written.
func (s *Service) forget(rec Record) {
	if s.Records == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Records.Delete(ctx, rec.UserID, rec.ID); err != nil && !errors.Is(err, ErrNotFound) {
		telemetry.Error("export.record_cleanup_failed", map[string]any{"export_id": rec.ID, "resume_id": rec.ResumeID, "error": err.Error()})
	}
}

// History lists past exports of a resume, newest first.
func (s *Service) History(ctx context.Context, userID, resumeID string, limit int) ([]Record, error) {
	if _, err := s.Resumes.Get(ctx, userID, resumeID); err != nil {
		return nil, err
	}
	if s.Records == nil {
		return []Record{}, nil
	}
	return s.Records.ListByResume(ctx, userID, resumeID, limit)
}

// Open returns an archived export for download. The caller closes the reader.
func (s *Service) Open(ctx context.Context, userID, resumeID, exportID string) (Record, io.ReadCloser, error) {
	if s.Records == nil {
		return Record{}, nil, ErrNotFound
	}
	rec, err := s.Records.GetByID(ctx, userID, exportID)
	if err != nil {
		return Record{}, nil, err
	}
	if rec.ResumeID != resumeID {
		return Record{}, nil, ErrNotFound
	}
	if !rec.Archived() || s.Store == nil {
		return Record{}, nil, ErrNotArchived
	}
	rc, err := s.Store.Open(ctx, rec.StorageKey)
	if errors.Is(err, object.ErrNotFound) {
		telemetry.Error("export.archive_missing", map[string]any{"export_id": rec.ID, "resume_id": rec.ResumeID})
		return Record{}, nil, ErrNotArchived
	}
	if err != nil {
		return Record{}, nil, err
	}
	return rec, rc, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
