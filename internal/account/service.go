package account

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"resume-builder/internal/exports"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/telemetry"
)

// Service moves guest-owned data to a signed-in user.
type Service struct {
	ResumesRepo resumes.Repo
	ExportsRepo exports.Repo
}

type ClaimResult struct {
	MigratedResumes int `json:"migratedResumes"`
	MigratedExports int `json:"migratedExports"`
}

func NewService(resumesRepo resumes.Repo, exportsRepo exports.Repo) *Service {
	return &Service{ResumesRepo: resumesRepo, ExportsRepo: exportsRepo}
}

// ClaimGuest reassigns the guest's resumes and export history. Postgres
// repos are updated in one transaction.
func (s *Service) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (ClaimResult, error) {
	if strings.TrimSpace(guestUserID) == "" || strings.TrimSpace(authedUserID) == "" {
		return ClaimResult{}, errors.New("guestUserID and authedUserID are required")
	}

	if resumePG, ok := s.ResumesRepo.(*resumes.PGRepo); ok && resumePG != nil && resumePG.DB != nil {
		if _, ok := s.ExportsRepo.(*exports.PGRepo); ok {
			return claimWithTx(ctx, resumePG.DB, guestUserID, authedUserID)
		}
	}

	resumeCount, err := claim(ctx, s.ResumesRepo, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	exportCount, err := claim(ctx, s.ExportsRepo, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	res := ClaimResult{MigratedResumes: resumeCount, MigratedExports: exportCount}
	logClaim(authedUserID, res)
	return res, nil
}

func claimWithTx(ctx context.Context, db *sql.DB, guestUserID, authedUserID string) (ClaimResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ClaimResult{}, err
	}
	defer tx.Rollback()

	// content carries its own userId; both must name the new owner.
	const moveResumes = `
UPDATE resumes
SET user_id = $1, content = jsonb_set(content, '{userId}', to_jsonb($1::text))
WHERE user_id = $2 AND deleted_at IS NULL`
	resumeRes, err := tx.ExecContext(ctx, moveResumes, authedUserID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	resumeCount, _ := resumeRes.RowsAffected()

	exportRes, err := tx.ExecContext(ctx, `UPDATE resume_exports SET user_id = $1 WHERE user_id = $2`, authedUserID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	exportCount, _ := exportRes.RowsAffected()

	if err := tx.Commit(); err != nil {
		return ClaimResult{}, err
	}
	res := ClaimResult{MigratedResumes: int(resumeCount), MigratedExports: int(exportCount)}
	logClaim(authedUserID, res)
	return res, nil
}

type guestClaimer interface {
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}

func claim(ctx context.Context, repo any, guestUserID, authedUserID string) (int, error) {
	if repo == nil {
		return 0, nil
	}
	if claimer, ok := repo.(guestClaimer); ok {
		return claimer.ClaimGuest(ctx, guestUserID, authedUserID)
	}
	return 0, errors.New("repo does not support claim")
}

func logClaim(userID string, res ClaimResult) {
	telemetry.Info("guest data claimed", map[string]any{
		"user_id":          userID,
		"migrated_resumes": res.MigratedResumes,
		"migrated_exports": res.MigratedExports,
	})
}
