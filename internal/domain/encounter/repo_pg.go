package encounter

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

const encounterCols = `id, episode_id, patient_id, encounter_date, provider_name,
	wound_details, conservative_care, diabetic_status, infection_status,
	comorbidities, note, source_document_id, created_at, updated_at`

// wound_details, conservative_care and comorbidities are JSONB columns; pgx
// v5 marshals them through encoding/json on both directions.
func scanEncounter(row pgx.Row) (*Encounter, error) {
	var e Encounter
	err := row.Scan(&e.ID, &e.EpisodeID, &e.PatientID, &e.Date, &e.ProviderName,
		&e.WoundDetails, &e.ConservativeCare, &e.DiabeticStatus, &e.InfectionStatus,
		&e.Comorbidities, &e.Note, &e.SourceDocumentID, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *repoPG) Create(ctx context.Context, e *Encounter) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO wound_encounter (id, episode_id, patient_id, encounter_date, provider_name,
			wound_details, conservative_care, diabetic_status, infection_status,
			comorbidities, note, source_document_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		e.ID, e.EpisodeID, e.PatientID, e.Date, e.ProviderName,
		e.WoundDetails, e.ConservativeCare, e.DiabeticStatus, e.InfectionStatus,
		e.Comorbidities, e.Note, e.SourceDocumentID)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Encounter, error) {
	return scanEncounter(r.conn(ctx).QueryRow(ctx,
		`SELECT `+encounterCols+` FROM wound_encounter WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, e *Encounter) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE wound_encounter SET encounter_date=$2, provider_name=$3, wound_details=$4,
			conservative_care=$5, diabetic_status=$6, infection_status=$7,
			comorbidities=$8, note=$9, updated_at=NOW()
		WHERE id = $1`,
		e.ID, e.Date, e.ProviderName, e.WoundDetails,
		e.ConservativeCare, e.DiabeticStatus, e.InfectionStatus,
		e.Comorbidities, e.Note)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM wound_encounter WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Encounter, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM wound_encounter`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+encounterCols+` FROM wound_encounter
		ORDER BY encounter_date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := collect(rows)
	return out, total, err
}

func (r *repoPG) ListByEpisode(ctx context.Context, episodeID uuid.UUID) ([]*Encounter, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+encounterCols+` FROM wound_encounter
		WHERE episode_id = $1 ORDER BY encounter_date ASC`, episodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Encounter, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM wound_encounter WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+encounterCols+` FROM wound_encounter WHERE patient_id = $1
		ORDER BY encounter_date DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := collect(rows)
	return out, total, err
}

func collect(rows pgx.Rows) ([]*Encounter, error) {
	var out []*Encounter
	for rows.Next() {
		e, err := scanEncounter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
