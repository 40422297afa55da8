package exports

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/resumes"
	localstore "resume-builder/internal/shared/storage/object/local"
	"resume-builder/resume/export"
	"resume-builder/resume/preview"
	"resume-builder/resume/render"
)

// thumbCapturer draws a small bitmap in proportion to the surface so tests
// stay fast while keeping the page geometry checks meaningful.
type thumbCapturer struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
	err     error
}

func (f *thumbCapturer) Capture(_ context.Context, s *preview.Surface, _ export.CaptureOptions) (image.Image, error) {
	f.calls.Add(1)
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	w, h := s.Dimensions()
	img := image.NewRGBA(image.Rect(0, 0, w/16, h/16))
	img.Set(1, 1, color.RGBA{B: 255, A: 255})
	return img, nil
}

func newExportFixture(t *testing.T, capturer export.Capturer) (*Service, *resumes.Service, string) {
	t.Helper()
	resumeSvc := resumes.NewService(resumes.NewMemoryRepo(), nil)
	doc, err := resumeSvc.Create(context.Background(), "guest:1", "professional")
	require.NoError(t, err)
	doc, err = resumeSvc.Edit(context.Background(), "guest:1", doc.ID, resumes.Chain(
		resumes.SetPersonal("firstName", "Ada"),
		resumes.SetPersonal("lastName", "Lovelace"),
	))
	require.NoError(t, err)

	svc := &Service{
		Resumes:  resumeSvc,
		Registry: render.NewRegistry(nil),
		Pipeline: export.NewPipeline(capturer, export.NewPDFEncoder()),
		Store:    localstore.New(t.TempDir()),
		Records:  NewMemoryRepo(),
		Archive:  true,
		Timeout:  5 * time.Second,
	}
	return svc, resumeSvc, doc.ID
}

func TestExportProducesVerifiedPDF(t *testing.T) {
	svc, _, id := newExportFixture(t, &thumbCapturer{})

	res, err := svc.Export(context.Background(), "guest:1", id, preview.ThumbnailScale)
	require.NoError(t, err)
	assert.Equal(t, "Ada_Lovelace_Resume.pdf", res.Artifact.FileName)
	assert.Equal(t, export.ContentType, res.Artifact.ContentType)
	assert.False(t, res.Shared)
	assert.True(t, res.Record.Archived())

	info, err := export.Inspect(res.Artifact.Data)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Pages)
	assert.InDelta(t, float64(res.Artifact.PageWidth), info.Width, 0.01)
	assert.InDelta(t, float64(res.Artifact.PageHeight), info.Height, 0.01)

	history, err := svc.History(context.Background(), "guest:1", id, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, res.Record.ID, history[0].ID)
}

func TestExportArchiveRoundTrip(t *testing.T) {
	svc, _, id := newExportFixture(t, &thumbCapturer{})

	res, err := svc.Export(context.Background(), "guest:1", id, preview.FullScale)
	require.NoError(t, err)

	rec, rc, err := svc.Open(context.Background(), "guest:1", id, res.Record.ID)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, res.Artifact.Data, data)
	assert.Equal(t, "Ada_Lovelace_Resume.pdf", rec.FileName)

	_, _, err = svc.Open(context.Background(), "guest:2", id, res.Record.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExportWithoutArchiveIsNotDownloadable(t *testing.T) {
	svc, _, id := newExportFixture(t, &thumbCapturer{})
	svc.Archive = false

	res, err := svc.Export(context.Background(), "guest:1", id, preview.FullScale)
	require.NoError(t, err)
	assert.False(t, res.Record.Archived())

	_, _, err = svc.Open(context.Background(), "guest:1", id, res.Record.ID)
	assert.ErrorIs(t, err, ErrNotArchived)
}

func TestExportWithLostArchiveIsNotDownloadable(t *testing.T) {
	svc, _, id := newExportFixture(t, &thumbCapturer{})

	res, err := svc.Export(context.Background(), "guest:1", id, preview.FullScale)
	require.NoError(t, err)
	require.True(t, res.Record.Archived())

	svc.Store = localstore.New(t.TempDir())
	_, _, err = svc.Open(context.Background(), "guest:1", id, res.Record.ID)
	assert.ErrorIs(t, err, ErrNotArchived)
}

func TestExportCaptureFailureIsSingleFault(t *testing.T) {
	svc, _, id := newExportFixture(t, &thumbCapturer{err: errors.New("browser crashed")})

	_, err := svc.Export(context.Background(), "guest:1", id, preview.FullScale)
	require.Error(t, err)
	var fault *export.Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, export.StepCapture, fault.Step)

	history, err := svc.History(context.Background(), "guest:1", id, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestExportUnknownResume(t *testing.T) {
	svc, _, _ := newExportFixture(t, &thumbCapturer{})
	_, err := svc.Export(context.Background(), "guest:1", "resume_missing", preview.FullScale)
	assert.ErrorIs(t, err, resumes.ErrNotFound)
}

func TestConcurrentExportsOfSameRevisionShareOneRun(t *testing.T) {
	capturer := &thumbCapturer{entered: make(chan struct{}), release: make(chan struct{})}
	svc, _, id := newExportFixture(t, capturer)

	var wg sync.WaitGroup
	results := make([]Result, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Export(context.Background(), "guest:1", id, preview.FullScale)
		}(i)
		if i == 0 {
			<-capturer.entered
		}
	}
	time.Sleep(100 * time.Millisecond)
	close(capturer.release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int32(1), capturer.calls.Load())
	assert.Equal(t, results[0].Record.ID, results[1].Record.ID)
	assert.True(t, results[0].Shared || results[1].Shared)
}

func TestEditedResumeIsExportedAgain(t *testing.T) {
	svc, resumeSvc, id := newExportFixture(t, &thumbCapturer{})

	first, err := svc.Export(context.Background(), "guest:1", id, preview.FullScale)
	require.NoError(t, err)
	_, err = resumeSvc.Edit(context.Background(), "guest:1", id, resumes.SetTemplate("creative"))
	require.NoError(t, err)
	second, err := svc.Export(context.Background(), "guest:1", id, preview.FullScale)
	require.NoError(t, err)

	assert.NotEqual(t, first.Record.ID, second.Record.ID)
	assert.Equal(t, "creative", second.Record.TemplateID)
}

type failingStore struct {
	saves atomic.Int32
}

func (f *failingStore) SaveWithKey(context.Context, string, string, io.Reader) (int64, error) {
	f.saves.Add(1)
	return 0, errors.New("bucket unavailable")
}

func (f *failingStore) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("bucket unavailable")
}

type failingRecords struct {
	*MemoryRepo
}

func (failingRecords) Create(context.Context, Record) error {
	return errors.New("insert failed")
}

func TestExportRecordFailureArchivesNothing(t *testing.T) {
	svc, _, id := newExportFixture(t, &thumbCapturer{})
	store := &failingStore{}
	svc.Store = store
	svc.Records = failingRecords{NewMemoryRepo()}

	_, err := svc.Export(context.Background(), "guest:1", id, preview.FullScale)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record export")
	assert.Equal(t, int32(0), store.saves.Load())
}

func TestExportArchiveFailureLeavesNoRecord(t *testing.T) {
	svc, _, id := newExportFixture(t, &thumbCapturer{})
	store := &failingStore{}
	svc.Store = store

	_, err := svc.Export(context.Background(), "guest:1", id, preview.FullScale)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archive export")
	assert.Equal(t, int32(1), store.saves.Load())

	history, err := svc.History(context.Background(), "guest:1", id, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}
