package repository

import (
	"context"

	"github.com/honeynil/kapitalist/internal/models"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	CreateDefaults(ctx context.Context, userID int64, names []string) error
	GetByID(ctx context.Context, id, userID int64) (*models.Category, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Category, error)
	Update(ctx context.Context, id, userID int64, patch models.CategoryPatch) (*models.Category, error)
	Delete(ctx context.Context, id, userID int64) error
}
