package exports

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO resume_exports (id, resume_id, user_id, template_id, file_name, storage_key, size_bytes, page_width, page_height, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.DB.ExecContext(ctx, query,
		rec.ID,
		rec.ResumeID,
		rec.UserID,
		rec.TemplateID,
		rec.FileName,
		nullIfEmpty(rec.StorageKey),
		rec.SizeBytes,
		rec.PageWidth,
		rec.PageHeight,
		rec.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (Record, error) {
	const query = `
SELECT id, resume_id, user_id, template_id, file_name, storage_key, size_bytes, page_width, page_height, created_at
FROM resume_exports
WHERE user_id = $1 AND id = $2`

	rec, err := scanRecord(r.DB.QueryRowContext(ctx, query, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func (r *PGRepo) ListByResume(ctx context.Context, userID, resumeID string, limit int) ([]Record, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	const query = `
SELECT id, resume_id, user_id, template_id, file_name, storage_key, size_bytes, page_width, page_height, created_at
FROM resume_exports
WHERE user_id = $1 AND resume_id = $2
ORDER BY created_at DESC
LIMIT $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, resumeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	const query = `
DELETE FROM resume_exports
WHERE user_id = $1 AND id = $2`

	res, err := r.DB.ExecContext(ctx, query, userID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec        Record
		storageKey sql.NullString
	)
	if err := row.Scan(
		&rec.ID,
		&rec.ResumeID,
		&rec.UserID,
		&rec.TemplateID,
		&rec.FileName,
		&storageKey,
		&rec.SizeBytes,
		&rec.PageWidth,
		&rec.PageHeight,
		&rec.CreatedAt,
	); err != nil {
		return Record{}, err
	}
	rec.StorageKey = storageKey.String
	return rec, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ Repo = (*PGRepo)(nil)
