package document

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

const documentCols = `id, patient_id, episode_id, filename, content_type, size_bytes, status,
	extracted_fields, failure_reason, created_encounter_id, uploaded_by, created_at, updated_at`

func scanDocument(row pgx.Row) (*SourceDocument, error) {
	var d SourceDocument
	err := row.Scan(&d.ID, &d.PatientID, &d.EpisodeID, &d.Filename, &d.ContentType, &d.SizeBytes,
		&d.Status, &d.ExtractedFields, &d.FailureReason, &d.CreatedEncounterID, &d.UploadedBy,
		&d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, d *SourceDocument) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO source_document (id, patient_id, episode_id, filename, content_type,
			size_bytes, status, extracted_fields, failure_reason, created_encounter_id, uploaded_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		d.ID, d.PatientID, d.EpisodeID, d.Filename, d.ContentType,
		d.SizeBytes, d.Status, d.ExtractedFields, d.FailureReason, d.CreatedEncounterID, d.UploadedBy)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*SourceDocument, error) {
	return scanDocument(r.conn(ctx).QueryRow(ctx,
		`SELECT `+documentCols+` FROM source_document WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, d *SourceDocument) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE source_document SET episode_id=$2, filename=$3, content_type=$4, size_bytes=$5,
			status=$6, extracted_fields=$7, failure_reason=$8, created_encounter_id=$9,
			uploaded_by=$10, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.EpisodeID, d.Filename, d.ContentType, d.SizeBytes,
		d.Status, d.ExtractedFields, d.FailureReason, d.CreatedEncounterID, d.UploadedBy)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM source_document WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*SourceDocument, int, error) {
	return r.list(ctx, `SELECT COUNT(*) FROM source_document`,
		`SELECT `+documentCols+` FROM source_document ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*SourceDocument, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM source_document WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+documentCols+` FROM source_document WHERE patient_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := collectDocuments(rows)
	return out, total, err
}

func (r *repoPG) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*SourceDocument, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM source_document WHERE status = $1`, status).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+documentCols+` FROM source_document WHERE status = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := collectDocuments(rows)
	return out, total, err
}

func (r *repoPG) list(ctx context.Context, countSQL, selectSQL string, limit, offset int) ([]*SourceDocument, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, countSQL).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, selectSQL, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := collectDocuments(rows)
	return out, total, err
}

func collectDocuments(rows pgx.Rows) ([]*SourceDocument, error) {
	var out []*SourceDocument
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
