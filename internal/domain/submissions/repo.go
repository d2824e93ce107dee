package submissions

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const subCols = `id, file_id, file_unique_id, kind, category, caption, uploader_id, status, uploaded_at`

func scanSub(row pgx.Row) (*Submission, error) {
	var s Submission
	if err := row.Scan(&s.ID, &s.FileID, &s.UniqueID, &s.Kind, &s.Category,
		&s.Caption, &s.UploaderID, &s.Status, &s.UploadedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repo) Insert(ctx context.Context, s *Submission) (int64, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO submissions (file_id, file_unique_id, kind, category, caption, uploader_id, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`, s.FileID, s.UniqueID, s.Kind, s.Category, s.Caption, s.UploaderID, StatusPending)
	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Submission, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+subCols+` FROM submissions WHERE id = $1`, id)
	return scanSub(row)
}

func (r *Repo) UpdateStatus(ctx context.Context, id int64, status Status) error {
	_, err := r.pool.Exec(ctx, `UPDATE submissions SET status = $2 WHERE id = $1`, id, status)
	return err
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	return err
}

func (r *Repo) ListPending(ctx context.Context) ([]PendingItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.file_id, s.file_unique_id, s.kind, s.category, s.caption,
		       s.uploader_id, s.status, s.uploaded_at, COALESCE(m.name, '')
		FROM submissions s
		LEFT JOIN members m ON m.chat_id = s.uploader_id
		WHERE s.status = $1
		ORDER BY s.id
	`, StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PendingItem
	for rows.Next() {
		var it PendingItem
		if err := rows.Scan(&it.ID, &it.FileID, &it.UniqueID, &it.Kind, &it.Category,
			&it.Caption, &it.UploaderID, &it.Status, &it.UploadedAt, &it.UploaderName); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ListApprovedByCategory returns the latest approved items of a category.
func (r *Repo) ListApprovedByCategory(ctx context.Context, category string, limit int) ([]Submission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+subCols+` FROM submissions
		WHERE category = $1 AND status = $2
		ORDER BY id DESC LIMIT $3
	`, category, StatusApproved, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// ListByUploader returns a member's own uploads regardless of status.
func (r *Repo) ListByUploader(ctx context.Context, uploaderID int64, limit int) ([]Submission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+subCols+` FROM submissions
		WHERE uploader_id = $1
		ORDER BY id DESC LIMIT $2
	`, uploaderID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows pgx.Rows) ([]Submission, error) {
	var out []Submission
	for rows.Next() {
		var s Submission
		if err := rows.Scan(&s.ID, &s.FileID, &s.UniqueID, &s.Kind, &s.Category,
			&s.Caption, &s.UploaderID, &s.Status, &s.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
