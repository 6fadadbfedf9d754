package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opforms/opforms/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *repoPG) CreateClinic(ctx context.Context, cl *Clinic) error {
	cl.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO clinic (id, name) VALUES ($1,$2)`, cl.ID, cl.Name)
	return err
}

func (r *repoPG) GetClinic(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	var cl Clinic
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, created_at FROM clinic WHERE id = $1`, id).
		Scan(&cl.ID, &cl.Name, &cl.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &cl, err
}

func (r *repoPG) ListClinics(ctx context.Context) ([]*Clinic, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT id, name, created_at FROM clinic ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Clinic
	for rows.Next() {
		var cl Clinic
		if err := rows.Scan(&cl.ID, &cl.Name, &cl.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &cl)
	}
	return items, nil
}

const userCols = `id, clinic_id, username, password_hash, full_name, role, is_active, created_at, updated_at`

func (r *repoPG) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.ClinicID, &u.Username, &u.PasswordHash, &u.FullName,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &u, err
}

func (r *repoPG) CreateUser(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO app_user (id, clinic_id, username, password_hash, full_name, role, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.ClinicID, u.Username, u.PasswordHash, u.FullName, u.Role, u.IsActive)
	return err
}

func (r *repoPG) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return r.scanUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+userCols+` FROM app_user WHERE username = $1`, username))
}

func (r *repoPG) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.scanUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+userCols+` FROM app_user WHERE id = $1`, id))
}
