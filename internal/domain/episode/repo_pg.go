package episode

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

const episodeCols = `id, patient_id, episode_start_date, wound_type, primary_diagnosis,
	wound_location, laterality, status, resolved_date, note, created_at, updated_at`

func scanEpisode(row pgx.Row) (*Episode, error) {
	var e Episode
	err := row.Scan(&e.ID, &e.PatientID, &e.EpisodeStartDate, &e.WoundType, &e.PrimaryDiagnosis,
		&e.WoundLocation, &e.Laterality, &e.Status, &e.ResolvedDate, &e.Note, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *repoPG) Create(ctx context.Context, e *Episode) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO wound_episode (id, patient_id, episode_start_date, wound_type, primary_diagnosis,
			wound_location, laterality, status, resolved_date, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		e.ID, e.PatientID, e.EpisodeStartDate, e.WoundType, e.PrimaryDiagnosis,
		e.WoundLocation, e.Laterality, e.Status, e.ResolvedDate, e.Note)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Episode, error) {
	return scanEpisode(r.conn(ctx).QueryRow(ctx, `SELECT `+episodeCols+` FROM wound_episode WHERE id = $1`, id))
}

// Update never touches episode_start_date: the start date anchors deadline
// arithmetic and is write-once.
func (r *repoPG) Update(ctx context.Context, e *Episode) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE wound_episode SET wound_type=$2, primary_diagnosis=$3, wound_location=$4,
			laterality=$5, status=$6, resolved_date=$7, note=$8, updated_at=NOW()
		WHERE id = $1`,
		e.ID, e.WoundType, e.PrimaryDiagnosis, e.WoundLocation,
		e.Laterality, e.Status, e.ResolvedDate, e.Note)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM wound_episode WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Episode, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM wound_episode`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+episodeCols+` FROM wound_episode
		ORDER BY episode_start_date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Episode, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM wound_episode WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+episodeCols+` FROM wound_episode WHERE patient_id = $1
		ORDER BY episode_start_date DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func collect(rows pgx.Rows, total int) ([]*Episode, int, error) {
	var out []*Episode
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}
