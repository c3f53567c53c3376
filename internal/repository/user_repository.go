package repository

import (
	"context"

	"github.com/honeynil/kapitalist/internal/models"
)

// UserRepository stores accounts. Update expects patch.Password to hold a
// bcrypt hash, never the plain password.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
}
