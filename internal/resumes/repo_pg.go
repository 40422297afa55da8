package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"resume-builder/resume/model"
)

// PGRepo implements Repo using Postgres. The document body is stored as
// JSONB; id, owner, title, template and timestamps are mirrored into
// columns for listing. The user_id column is the owner of record and wins
// over the userId inside content.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, doc model.Resume) error {
	const query = `
INSERT INTO resumes (id, user_id, title, template_id, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	content, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode resume: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.UserID,
		doc.Title,
		doc.TemplateID,
		content,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (model.Resume, error) {
	const query = `
SELECT user_id, content
FROM resumes
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL
LIMIT 1`

	var (
		owner   string
		content []byte
	)
	if err := r.DB.QueryRowContext(ctx, query, userID, id).Scan(&owner, &content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Resume{}, ErrNotFound
		}
		return model.Resume{}, err
	}
	return decodeResume(owner, content)
}

// Update replaces the stored copy. The last writer wins.
func (r *PGRepo) Update(ctx context.Context, doc model.Resume) error {
	const query = `
UPDATE resumes
SET title = $1, template_id = $2, content = $3, updated_at = $4
WHERE user_id = $5 AND id = $6 AND deleted_at IS NULL`

	content, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode resume: %w", err)
	}
	res, err := r.DB.ExecContext(ctx, query, doc.Title, doc.TemplateID, content, doc.UpdatedAt, doc.UserID, doc.ID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// Delete soft-deletes the resume.
func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	const query = `
UPDATE resumes
SET deleted_at = NOW()
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`

	res, err := r.DB.ExecContext(ctx, query, userID, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// ListByUser lists resumes most recently updated first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Resume, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT user_id, content
FROM resumes
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY updated_at DESC, id
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Resume{}
	for rows.Next() {
		var (
			owner   string
			content []byte
		)
		if err := rows.Scan(&owner, &content); err != nil {
			return nil, err
		}
		doc, err := decodeResume(owner, content)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func decodeResume(owner string, content []byte) (model.Resume, error) {
	var doc model.Resume
	if err := json.Unmarshal(content, &doc); err != nil {
		return model.Resume{}, fmt.Errorf("decode resume: %w", err)
	}
	doc.UserID = owner
	doc.Normalize()
	return doc, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
