package service

import (
	"context"
	"time"

	"github.com/honeynil/kapitalist/internal/models"
	"github.com/honeynil/kapitalist/internal/repository"
	pkgerrors "github.com/honeynil/kapitalist/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type TransactionService interface {
	Create(ctx context.Context, userID int64, tx *models.Transaction) (*models.Transaction, error)
	Get(ctx context.Context, id, userID int64) (*models.Transaction, error)
	ListByWallet(ctx context.Context, walletID, userID int64, period models.TimeRange) ([]models.Transaction, error)
	Update(ctx context.Context, id, userID int64, patch models.TransactionPatch) (*models.Transaction, error)
	Delete(ctx context.Context, id, userID int64) error
}

type transactionService struct {
	transactionRepo repository.TransactionRepository
	walletRepo      repository.WalletRepository
	publisher       *EventPublisher
	logger          *zap.Logger
	now             func() time.Time
}

func NewTransactionService(
	transactionRepo repository.TransactionRepository,
	walletRepo repository.WalletRepository,
	publisher *EventPublisher,
	logger *zap.Logger,
) *transactionService {
	return &transactionService{
		transactionRepo: transactionRepo,
		walletRepo:      walletRepo,
		publisher:       publisher,
		logger:          logger.Named("transaction-service"),
		now:             time.Now,
	}
}

// Create stamps tx with the current time when it carries none.
func (s *transactionService) Create(ctx context.Context, userID int64, tx *models.Transaction) (*models.Transaction, error) {
	ctx, span := otel.Tracer("transaction-service").Start(ctx, "CreateTransaction")
	defer span.End()

	if tx == nil || tx.WalletID == 0 || tx.CategoryID == 0 {
		return nil, pkgerrors.ErrInvalidInput
	}
	if tx.Ts.IsZero() {
		tx.Ts = s.now().UTC()
	}
	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.Int64("wallet_id", tx.WalletID),
		attribute.Int64("amount", tx.Amount),
	)

	if err := s.transactionRepo.Create(ctx, userID, tx); err != nil {
		span.RecordError(err)
		return nil, translate(err)
	}

	s.publisher.Publish(models.TopicTransactions, models.Event{
		Type:          models.EventTransactionCreated,
		UserID:        userID,
		TransactionID: tx.ID,
		WalletID:      tx.WalletID,
		Amount:        tx.Amount,
	})
	return tx, nil
}

func (s *transactionService) Get(ctx context.Context, id, userID int64) (*models.Transaction, error) {
	ctx, span := otel.Tracer("transaction-service").Start(ctx, "GetTransaction")
	defer span.End()
	span.SetAttributes(attribute.Int64("transaction_id", id), attribute.Int64("user_id", userID))

	return result(s.transactionRepo.GetByID(ctx, id, userID))
}

// ListByWallet answers ErrWalletNotFound for wallets the user does not own,
// so an empty list always means an owned wallet without transactions.
func (s *transactionService) ListByWallet(ctx context.Context, walletID, userID int64, period models.TimeRange) ([]models.Transaction, error) {
	ctx, span := otel.Tracer("transaction-service").Start(ctx, "ListTransactionsByWallet")
	defer span.End()
	span.SetAttributes(attribute.Int64("wallet_id", walletID), attribute.Int64("user_id", userID))

	if !period.From.IsZero() && !period.To.IsZero() && period.From.After(period.To) {
		return nil, pkgerrors.ErrInvalidInput
	}
	if _, err := s.walletRepo.GetByID(ctx, walletID, userID); err != nil {
		return nil, translate(err)
	}
	return result(s.transactionRepo.ListByWallet(ctx, walletID, userID, period))
}

func (s *transactionService) Update(ctx context.Context, id, userID int64, patch models.TransactionPatch) (*models.Transaction, error) {
	ctx, span := otel.Tracer("transaction-service").Start(ctx, "UpdateTransaction")
	defer span.End()
	span.SetAttributes(attribute.Int64("transaction_id", id), attribute.Int64("user_id", userID))

	if patch.IsEmpty() {
		return nil, pkgerrors.ErrEmptyUpdate
	}
	return result(s.transactionRepo.Update(ctx, id, userID, patch))
}

func (s *transactionService) Delete(ctx context.Context, id, userID int64) error {
	ctx, span := otel.Tracer("transaction-service").Start(ctx, "DeleteTransaction")
	defer span.End()
	span.SetAttributes(attribute.Int64("transaction_id", id), attribute.Int64("user_id", userID))

	if err := s.transactionRepo.Delete(ctx, id, userID); err != nil {
		return translate(err)
	}
	s.logger.Info("transaction deleted", zap.Int64("transaction_id", id), zap.Int64("user_id", userID))
	return nil
}
