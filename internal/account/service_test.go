package account

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"resume-builder/internal/exports"
	"resume-builder/internal/resumes"
	"resume-builder/resume/model"
)

const (
	guestOwner = "guest:11111111-1111-1111-1111-111111111111"
	userOwner  = "user-1"
)

func TestClaimGuestOnPostgresMovesOwnerAndContent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE resumes SET user_id = \$1, content = jsonb_set\(content, '\{userId\}', to_jsonb\(\$1::text\)\) WHERE user_id = \$2`).
		WithArgs(userOwner, guestOwner).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE resume_exports SET user_id").
		WithArgs(userOwner, guestOwner).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	svc := NewService(&resumes.PGRepo{DB: db}, &exports.PGRepo{DB: db})
	res, err := svc.ClaimGuest(context.Background(), guestOwner, userOwner)
	if err != nil {
		t.Fatalf("ClaimGuest: %v", err)
	}
	if res.MigratedResumes != 2 || res.MigratedExports != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestClaimGuestOnPostgresRollsBackOnExportFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE resumes SET user_id").
		WithArgs(userOwner, guestOwner).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE resume_exports SET user_id").
		WithArgs(userOwner, guestOwner).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	svc := NewService(&resumes.PGRepo{DB: db}, &exports.PGRepo{DB: db})
	if _, err := svc.ClaimGuest(context.Background(), guestOwner, userOwner); err == nil {
		t.Fatalf("expected claim to fail")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestClaimedResumeCanBeEditedOnPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE resumes SET user_id").
		WithArgs(userOwner, guestOwner).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE resume_exports SET user_id").
		WithArgs(userOwner, guestOwner).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	claimed := model.NewEmpty("resume_1", userOwner, "modern", time.Now().UTC())
	content, err := json.Marshal(claimed)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	mock.ExpectQuery("SELECT user_id, content FROM resumes").
		WithArgs(userOwner, "resume_1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "content"}).AddRow(userOwner, content))
	mock.ExpectExec("UPDATE resumes SET title").
		WithArgs(sqlmock.AnyArg(), "modern", sqlmock.AnyArg(), sqlmock.AnyArg(), userOwner, "resume_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	resumeRepo := &resumes.PGRepo{DB: db}
	if _, err := NewService(resumeRepo, &exports.PGRepo{DB: db}).ClaimGuest(context.Background(), guestOwner, userOwner); err != nil {
		t.Fatalf("ClaimGuest: %v", err)
	}

	edited, err := resumes.NewService(resumeRepo, nil).Edit(context.Background(), userOwner, "resume_1", resumes.SetPersonal("firstName", "Ada"))
	if err != nil {
		t.Fatalf("Edit after claim: %v", err)
	}
	if edited.UserID != userOwner || edited.PersonalInfo.FirstName != "Ada" {
		t.Fatalf("unexpected resume: %+v", edited)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
