package document

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *SourceDocument) error
	GetByID(ctx context.Context, id uuid.UUID) (*SourceDocument, error)
	Update(ctx context.Context, d *SourceDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*SourceDocument, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*SourceDocument, int, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*SourceDocument, int, error)
}
