package product

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/woundcare/woundcare/internal/platform/db"
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

const applicationCols = `id, episode_id, encounter_id, product_name, hcpcs_code, lot_number,
	serial_number, applied_date, application_number, size_applied_sq_cm,
	size_wasted_sq_cm, wastage_reason, applied_by, note, created_at, updated_at`

func scanApplication(row pgx.Row) (*Application, error) {
	var a Application
	err := row.Scan(&a.ID, &a.EpisodeID, &a.EncounterID, &a.ProductName, &a.HCPCSCode, &a.LotNumber,
		&a.SerialNumber, &a.AppliedDate, &a.ApplicationNumber, &a.SizeAppliedSqCm,
		&a.SizeWastedSqCm, &a.WastageReason, &a.AppliedBy, &a.Note, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Application) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO product_application (id, episode_id, encounter_id, product_name, hcpcs_code,
			lot_number, serial_number, applied_date, application_number, size_applied_sq_cm,
			size_wasted_sq_cm, wastage_reason, applied_by, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		a.ID, a.EpisodeID, a.EncounterID, a.ProductName, a.HCPCSCode,
		a.LotNumber, a.SerialNumber, a.AppliedDate, a.ApplicationNumber, a.SizeAppliedSqCm,
		a.SizeWastedSqCm, a.WastageReason, a.AppliedBy, a.Note)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Application, error) {
	return scanApplication(r.conn(ctx).QueryRow(ctx,
		`SELECT `+applicationCols+` FROM product_application WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Application) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE product_application SET product_name=$2, hcpcs_code=$3, lot_number=$4,
			serial_number=$5, applied_date=$6, application_number=$7, size_applied_sq_cm=$8,
			size_wasted_sq_cm=$9, wastage_reason=$10, applied_by=$11, note=$12, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.ProductName, a.HCPCSCode, a.LotNumber,
		a.SerialNumber, a.AppliedDate, a.ApplicationNumber, a.SizeAppliedSqCm,
		a.SizeWastedSqCm, a.WastageReason, a.AppliedBy, a.Note)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM product_application WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Application, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM product_application`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+applicationCols+` FROM product_application
		ORDER BY applied_date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := collect(rows)
	return out, total, err
}

func (r *repoPG) ListByEpisode(ctx context.Context, episodeID uuid.UUID) ([]*Application, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+applicationCols+` FROM product_application
		WHERE episode_id = $1 ORDER BY applied_date ASC, application_number ASC`, episodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repoPG) CountByEpisode(ctx context.Context, episodeID uuid.UUID) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM product_application WHERE episode_id = $1`, episodeID).Scan(&n)
	return n, err
}

func collect(rows pgx.Rows) ([]*Application, error) {
	var out []*Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
