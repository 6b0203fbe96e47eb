package product

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*Application, error)
	Update(ctx context.Context, a *Application) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Application, int, error)
	ListByEpisode(ctx context.Context, episodeID uuid.UUID) ([]*Application, error)
	CountByEpisode(ctx context.Context, episodeID uuid.UUID) (int, error)
}
