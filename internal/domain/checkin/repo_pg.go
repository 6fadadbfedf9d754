package checkin

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

const checkinCols = `id, clinic_id, patient_name, status, room, assigned_staff_name, provider_name,
	status_changed_at, roomed_at, ready_at, in_progress_at, completed_at,
	check_in_time, check_out_time, checked_in_by, is_active, created_at, updated_at`

func (r *repoPG) scanCheckIn(row pgx.Row) (*CheckIn, error) {
	var ci CheckIn
	err := row.Scan(&ci.ID, &ci.ClinicID, &ci.PatientName, &ci.Status, &ci.Room, &ci.AssignedStaffName, &ci.ProviderName,
		&ci.StatusChangedAt, &ci.RoomedAt, &ci.ReadyAt, &ci.InProgressAt, &ci.CompletedAt,
		&ci.CheckInTime, &ci.CheckOutTime, &ci.CheckedInBy, &ci.IsActive, &ci.CreatedAt, &ci.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &ci, err
}

func (r *repoPG) Create(ctx context.Context, ci *CheckIn) error {
	ci.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient_checkin (id, clinic_id, patient_name, status, room,
			assigned_staff_name, provider_name, check_in_time, checked_in_by, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		ci.ID, ci.ClinicID, ci.PatientName, ci.Status, ci.Room,
		ci.AssignedStaffName, ci.ProviderName, ci.CheckInTime, ci.CheckedInBy, ci.IsActive)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, clinicID string, id uuid.UUID) (*CheckIn, error) {
	return r.scanCheckIn(r.conn(ctx).QueryRow(ctx,
		`SELECT `+checkinCols+` FROM patient_checkin WHERE clinic_id = $1 AND id = $2`,
		clinicID, id))
}

func (r *repoPG) List(ctx context.Context, clinicID string, activeOnly bool, limit, offset int) ([]*CheckIn, int, error) {
	where := ` WHERE clinic_id = $1`
	if activeOnly {
		where += ` AND is_active`
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient_checkin`+where, clinicID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+checkinCols+` FROM patient_checkin`+where+` ORDER BY check_in_time DESC LIMIT $2 OFFSET $3`,
		clinicID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*CheckIn
	for rows.Next() {
		ci, err := r.scanCheckIn(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, ci)
	}
	return items, total, nil
}

func (r *repoPG) Update(ctx context.Context, ci *CheckIn) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient_checkin SET status=$3, room=$4, assigned_staff_name=$5, provider_name=$6,
			status_changed_at=$7, roomed_at=$8, ready_at=$9, in_progress_at=$10, completed_at=$11,
			check_out_time=$12, is_active=$13, updated_at=NOW()
		WHERE clinic_id = $1 AND id = $2`,
		ci.ClinicID, ci.ID, ci.Status, ci.Room, ci.AssignedStaffName, ci.ProviderName,
		ci.StatusChangedAt, ci.RoomedAt, ci.ReadyAt, ci.InProgressAt, ci.CompletedAt,
		ci.CheckOutTime, ci.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) AddStatusEvent(ctx context.Context, ev *StatusEvent) error {
	ev.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO checkin_status_event (id, clinic_id, checkin_id, status, occurred_at, actor)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		ev.ID, ev.ClinicID, ev.CheckinID, ev.Status, ev.OccurredAt, ev.Actor)
	return err
}

func (r *repoPG) StatusEvents(ctx context.Context, clinicID string, checkinID uuid.UUID) ([]*StatusEvent, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, clinic_id, checkin_id, status, occurred_at, actor
		FROM checkin_status_event
		WHERE clinic_id = $1 AND checkin_id = $2 ORDER BY occurred_at`, clinicID, checkinID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*StatusEvent
	for rows.Next() {
		var ev StatusEvent
		if err := rows.Scan(&ev.ID, &ev.ClinicID, &ev.CheckinID, &ev.Status, &ev.OccurredAt, &ev.Actor); err != nil {
			return nil, err
		}
		items = append(items, &ev)
	}
	return items, nil
}
