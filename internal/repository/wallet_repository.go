package repository

import (
	"context"

	"github.com/honeynil/kapitalist/internal/models"
)

// WalletRepository scopes every lookup to the owning user.
type WalletRepository interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	GetByID(ctx context.Context, id, userID int64) (*models.Wallet, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Wallet, error)
	Update(ctx context.Context, id, userID int64, patch models.WalletPatch) (*models.Wallet, error)
	Delete(ctx context.Context, id, userID int64) error
}
