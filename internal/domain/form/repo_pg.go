package form

import (
	"context"
	"errors"
	"fmt"

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

// NewRepoPG returns the postgres form repository. All form tables share the
// same column layout, so one repository serves every definition.
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

// recordCols is the uniform column set of every form table.
const recordCols = `id, clinic_id, checkin_id, data,
	is_signed, signed_by, signed_by_name, signed_at, signature_data_url,
	content_hash, signature_hash,
	is_locked, locked_by, locked_at, signatures,
	created_at, updated_at`

func (r *repoPG) scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.ClinicID, &rec.CheckinID, &rec.Data,
		&rec.IsSigned, &rec.SignedBy, &rec.SignedByName, &rec.SignedAt, &rec.SignatureDataURL,
		&rec.ContentHash, &rec.SignatureHash,
		&rec.IsLocked, &rec.LockedBy, &rec.LockedAt, &rec.Signatures,
		&rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &rec, err
}

func (r *repoPG) Create(ctx context.Context, def Definition, rec *Record) error {
	rec.ID = uuid.New()
	if rec.Signatures == nil {
		rec.Signatures = []Signature{}
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO `+def.Table+` (id, clinic_id, checkin_id, data, signatures)
		VALUES ($1,$2,$3,$4,$5)`,
		rec.ID, rec.ClinicID, rec.CheckinID, rec.Data, rec.Signatures)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return errDuplicate
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, def Definition, clinicID string, id uuid.UUID) (*Record, error) {
	return r.scanRecord(r.conn(ctx).QueryRow(ctx,
		`SELECT `+recordCols+` FROM `+def.Table+` WHERE clinic_id = $1 AND id = $2`,
		clinicID, id))
}

func (r *repoPG) GetByCheckin(ctx context.Context, def Definition, clinicID string, checkinID uuid.UUID) (*Record, error) {
	return r.scanRecord(r.conn(ctx).QueryRow(ctx,
		`SELECT `+recordCols+` FROM `+def.Table+` WHERE clinic_id = $1 AND checkin_id = $2`,
		clinicID, checkinID))
}

func (r *repoPG) List(ctx context.Context, def Definition, clinicID string, checkinID *uuid.UUID, limit, offset int) ([]*Record, int, error) {
	where := ` WHERE clinic_id = $1`
	args := []interface{}{clinicID}
	if checkinID != nil {
		where += ` AND checkin_id = $2`
		args = append(args, *checkinID)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM `+def.Table+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + recordCols + ` FROM ` + def.Table + where +
		` ORDER BY updated_at DESC LIMIT ` + placeholder(len(args)+1) + ` OFFSET ` + placeholder(len(args)+2)
	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Record
	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, nil
}

func (r *repoPG) Update(ctx context.Context, def Definition, rec *Record) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE `+def.Table+` SET data=$3,
			is_signed=$4, signed_by=$5, signed_by_name=$6, signed_at=$7, signature_data_url=$8,
			content_hash=$9, signature_hash=$10,
			is_locked=$11, locked_by=$12, locked_at=$13, signatures=$14,
			updated_at=NOW()
		WHERE clinic_id = $1 AND id = $2`,
		rec.ClinicID, rec.ID, rec.Data,
		rec.IsSigned, rec.SignedBy, rec.SignedByName, rec.SignedAt, rec.SignatureDataURL,
		rec.ContentHash, rec.SignatureHash,
		rec.IsLocked, rec.LockedBy, rec.LockedAt, rec.Signatures)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Count(ctx context.Context, def Definition, clinicID string) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM `+def.Table+` WHERE clinic_id = $1`, clinicID).Scan(&total)
	return total, err
}

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}
