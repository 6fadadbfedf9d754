// Package provider is the clinic's provider directory.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opforms/opforms/internal/platform/db"
)

var ErrNotFound = errors.New("provider not found")

type Provider struct {
	ID          uuid.UUID `json:"id"`
	ClinicID    string    `json:"clinic"`
	DisplayName string    `json:"display_name"`
	NPI         string    `json:"npi"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Repository interface {
	Create(ctx context.Context, p *Provider) error
	GetByID(ctx context.Context, clinicID string, id uuid.UUID) (*Provider, error)
	List(ctx context.Context, clinicID string, activeOnly bool, limit, offset int) ([]*Provider, int, error)
	Update(ctx context.Context, p *Provider) error
}

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

const providerCols = `id, clinic_id, display_name, npi, email, phone, is_active, created_at, updated_at`

func (r *repoPG) scanProvider(row pgx.Row) (*Provider, error) {
	var p Provider
	err := row.Scan(&p.ID, &p.ClinicID, &p.DisplayName, &p.NPI, &p.Email, &p.Phone,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Provider) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO provider (id, clinic_id, display_name, npi, email, phone, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.ClinicID, p.DisplayName, p.NPI, p.Email, p.Phone, p.IsActive)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, clinicID string, id uuid.UUID) (*Provider, error) {
	return r.scanProvider(r.conn(ctx).QueryRow(ctx,
		`SELECT `+providerCols+` FROM provider WHERE clinic_id = $1 AND id = $2`, clinicID, id))
}

func (r *repoPG) List(ctx context.Context, clinicID string, activeOnly bool, limit, offset int) ([]*Provider, int, error) {
	where := ` WHERE clinic_id = $1`
	if activeOnly {
		where += ` AND is_active`
	}
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM provider`+where, clinicID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+providerCols+` FROM provider`+where+` ORDER BY display_name LIMIT $2 OFFSET $3`,
		clinicID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Provider
	for rows.Next() {
		p, err := r.scanProvider(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

func (r *repoPG) Update(ctx context.Context, p *Provider) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE provider SET display_name=$3, npi=$4, email=$5, phone=$6, is_active=$7, updated_at=NOW()
		WHERE clinic_id = $1 AND id = $2`,
		p.ClinicID, p.ID, p.DisplayName, p.NPI, p.Email, p.Phone, p.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) Create(ctx context.Context, p *Provider) error {
	if p.DisplayName == "" {
		return fmt.Errorf("display_name is required")
	}
	p.ClinicID = db.ClinicFromContext(ctx)
	p.IsActive = true
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Provider, error) {
	return s.repo.GetByID(ctx, db.ClinicFromContext(ctx), id)
}

func (s *Service) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Provider, int, error) {
	return s.repo.List(ctx, db.ClinicFromContext(ctx), activeOnly, limit, offset)
}

func (s *Service) Update(ctx context.Context, p *Provider) error {
	p.ClinicID = db.ClinicFromContext(ctx)
	return s.repo.Update(ctx, p)
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (*Provider, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.IsActive = false
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
