package members

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const memberCols = `chat_id, name, roll, batch, gender, phone, photo_id, fb_link, blood_group, hometown, email, role, joined_at`

func scanMember(row pgx.Row) (*Member, error) {
	var m Member
	if err := row.Scan(&m.ChatID, &m.Name, &m.Roll, &m.Batch, &m.Gender, &m.Phone,
		&m.PhotoID, &m.FBLink, &m.BloodGroup, &m.Hometown, &m.Email, &m.Role, &m.JoinedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *Repo) GetByChatID(ctx context.Context, chatID int64) (*Member, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+memberCols+` FROM members WHERE chat_id = $1`, chatID)
	return scanMember(row)
}

// UpsertProfile inserts a new member or overwrites the profile fields of
// an existing one. role and joined_at are only written on insert, so a
// profile edit never touches the access tier.
func (r *Repo) UpsertProfile(ctx context.Context, m *Member, insertRole Role) (*Member, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO members (chat_id, name, roll, batch, gender, phone, photo_id, fb_link, blood_group, hometown, email, role)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (chat_id) DO UPDATE SET
			name        = EXCLUDED.name,
			roll        = EXCLUDED.roll,
			batch       = EXCLUDED.batch,
			gender      = EXCLUDED.gender,
			phone       = EXCLUDED.phone,
			photo_id    = EXCLUDED.photo_id,
			fb_link     = EXCLUDED.fb_link,
			blood_group = EXCLUDED.blood_group,
			hometown    = EXCLUDED.hometown,
			email       = EXCLUDED.email
		RETURNING `+memberCols+`
	`, m.ChatID, m.Name, m.Roll, m.Batch, m.Gender, m.Phone, m.PhotoID,
		m.FBLink, m.BloodGroup, m.Hometown, m.Email, insertRole)
	return scanMember(row)
}

func (r *Repo) SetRole(ctx context.Context, chatID int64, role Role) error {
	_, err := r.pool.Exec(ctx, `UPDATE members SET role = $2 WHERE chat_id = $1`, chatID, role)
	return err
}

func (r *Repo) Delete(ctx context.Context, chatID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM members WHERE chat_id = $1`, chatID)
	return err
}

func (r *Repo) ListByRole(ctx context.Context, role Role) ([]Member, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+memberCols+` FROM members WHERE role = $1 ORDER BY joined_at, chat_id
	`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *Repo) ListAll(ctx context.Context) ([]Member, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+memberCols+` FROM members ORDER BY batch, roll, chat_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// FirstByRoll resolves a roll lookup. Rolls are not unique; the oldest
// matching record wins so repeated lookups stay deterministic.
func (r *Repo) FirstByRoll(ctx context.Context, roll string) (*Member, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+memberCols+` FROM members WHERE roll = $1 ORDER BY joined_at, chat_id LIMIT 1
	`, roll)
	return scanMember(row)
}

// EnsureSuperAdmin forces the configured identity into the admin role on
// every start, inserting a placeholder row on first run.
func (r *Repo) EnsureSuperAdmin(ctx context.Context, chatID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO members (chat_id, name, roll, batch, role)
		VALUES ($1, $2, '000000', 'Admin', $3)
		ON CONFLICT (chat_id) DO UPDATE SET role = $3
	`, chatID, BootstrapName, RoleAdmin)
	return err
}

func collect(rows pgx.Rows) ([]Member, error) {
	var out []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ChatID, &m.Name, &m.Roll, &m.Batch, &m.Gender, &m.Phone,
			&m.PhotoID, &m.FBLink, &m.BloodGroup, &m.Hometown, &m.Email, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
