package repository

import (
	"context"

	"github.com/honeynil/kapitalist/internal/models"
)

// TransactionRepository resolves ownership through the transaction's wallet.
type TransactionRepository interface {
	Create(ctx context.Context, userID int64, tx *models.Transaction) error
	GetByID(ctx context.Context, id, userID int64) (*models.Transaction, error)
	ListByWallet(ctx context.Context, walletID, userID int64, period models.TimeRange) ([]models.Transaction, error)
	Update(ctx context.Context, id, userID int64, patch models.TransactionPatch) (*models.Transaction, error)
	Delete(ctx context.Context, id, userID int64) error
}
