package service

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkamocks "github.com/honeynil/kapitalist/internal/infrastructure/kafka/mocks"
	"github.com/honeynil/kapitalist/internal/models"
	repositorymocks "github.com/honeynil/kapitalist/internal/repository/mocks"
	pkgerrors "github.com/honeynil/kapitalist/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type transactionFixture struct {
	svc      *transactionService
	txRepo   *repositorymocks.TransactionRepository
	wallets  *repositorymocks.WalletRepository
	producer *kafkamocks.KafkaProducer
}

func newTransactionFixture() *transactionFixture {
	f := &transactionFixture{
		txRepo:   &repositorymocks.TransactionRepository{},
		wallets:  &repositorymocks.WalletRepository{},
		producer: &kafkamocks.KafkaProducer{},
	}
	f.svc = NewTransactionService(f.txRepo, f.wallets, newTestPublisher(f.producer), zap.NewNop())
	return f
}

func TestTransactionService_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("stamps time and publishes", func(t *testing.T) {
		f := newTransactionFixture()
		f.svc.now = func() time.Time { return now }
		f.txRepo.On("Create", mock.Anything, int64(1), mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.Ts.Equal(now)
		})).Run(func(args mock.Arguments) {
			args.Get(2).(*models.Transaction).ID = 100
		}).Return(nil).Once()
		f.producer.On("Send", mock.Anything, models.TopicTransactions, int64(1), mock.Anything).Return(nil).Once()

		tx, err := f.svc.Create(ctx, 1, &models.Transaction{WalletID: 3, CategoryID: 11, Amount: -250})
		require.NoError(t, err)
		assert.Equal(t, int64(100), tx.ID)

		f.svc.publisher.Wait()
		f.txRepo.AssertExpectations(t)
		f.producer.AssertExpectations(t)
	})

	t.Run("keeps explicit time", func(t *testing.T) {
		f := newTransactionFixture()
		explicit := now.Add(-48 * time.Hour)
		f.txRepo.On("Create", mock.Anything, int64(1), mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.Ts.Equal(explicit)
		})).Return(nil).Once()
		f.producer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := f.svc.Create(ctx, 1, &models.Transaction{WalletID: 3, CategoryID: 11, Amount: 5, Ts: explicit})
		require.NoError(t, err)
		f.svc.publisher.Wait()
		f.txRepo.AssertExpectations(t)
	})

	t.Run("foreign wallet", func(t *testing.T) {
		f := newTransactionFixture()
		f.txRepo.On("Create", mock.Anything, int64(2), mock.Anything).Return(pkgerrors.ErrWalletNotFound).Once()

		_, err := f.svc.Create(ctx, 2, &models.Transaction{WalletID: 3, CategoryID: 11, Amount: 5})
		assert.ErrorIs(t, err, pkgerrors.ErrWalletNotFound)
		f.svc.publisher.Wait()
		f.producer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing wallet id", func(t *testing.T) {
		f := newTransactionFixture()
		_, err := f.svc.Create(ctx, 1, &models.Transaction{CategoryID: 11})
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
	})
}

func TestTransactionService_ListByWallet(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("owned wallet", func(t *testing.T) {
		f := newTransactionFixture()
		period := models.TimeRange{From: from, To: to}
		f.wallets.On("GetByID", mock.Anything, int64(3), int64(1)).Return(&models.Wallet{ID: 3, UserID: 1}, nil).Once()
		f.txRepo.On("ListByWallet", mock.Anything, int64(3), int64(1), period).
			Return([]models.Transaction{{ID: 1}, {ID: 2}}, nil).Once()

		txs, err := f.svc.ListByWallet(ctx, 3, 1, period)
		require.NoError(t, err)
		assert.Len(t, txs, 2)
	})

	t.Run("foreign wallet", func(t *testing.T) {
		f := newTransactionFixture()
		f.wallets.On("GetByID", mock.Anything, int64(3), int64(2)).Return(nil, pkgerrors.ErrWalletNotFound).Once()

		_, err := f.svc.ListByWallet(ctx, 3, 2, models.TimeRange{})
		assert.ErrorIs(t, err, pkgerrors.ErrWalletNotFound)
		f.txRepo.AssertNotCalled(t, "ListByWallet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("inverted range", func(t *testing.T) {
		f := newTransactionFixture()
		_, err := f.svc.ListByWallet(ctx, 3, 1, models.TimeRange{From: to, To: from})
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newTransactionFixture()
		f.wallets.On("GetByID", mock.Anything, int64(3), int64(1)).Return(&models.Wallet{ID: 3, UserID: 1}, nil).Once()
		f.txRepo.On("ListByWallet", mock.Anything, int64(3), int64(1), models.TimeRange{}).Return(nil, errors.New("boom")).Once()

		_, err := f.svc.ListByWallet(ctx, 3, 1, models.TimeRange{})
		assert.ErrorIs(t, err, pkgerrors.ErrInternal)
	})
}

func TestTransactionService_UpdateDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("empty update", func(t *testing.T) {
		f := newTransactionFixture()
		_, err := f.svc.Update(ctx, 100, 1, models.TransactionPatch{})
		assert.ErrorIs(t, err, pkgerrors.ErrEmptyUpdate)
	})

	t.Run("update", func(t *testing.T) {
		f := newTransactionFixture()
		amount := int64(7)
		patch := models.TransactionPatch{Amount: &amount}
		f.txRepo.On("Update", mock.Anything, int64(100), int64(1), patch).Return(&models.Transaction{ID: 100, Amount: 7}, nil).Once()

		tx, err := f.svc.Update(ctx, 100, 1, patch)
		require.NoError(t, err)
		assert.Equal(t, int64(7), tx.Amount)
	})

	t.Run("get not found", func(t *testing.T) {
		f := newTransactionFixture()
		f.txRepo.On("GetByID", mock.Anything, int64(100), int64(2)).Return(nil, pkgerrors.ErrTransactionNotFound).Once()

		_, err := f.svc.Get(ctx, 100, 2)
		assert.ErrorIs(t, err, pkgerrors.ErrTransactionNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		f := newTransactionFixture()
		f.txRepo.On("Delete", mock.Anything, int64(100), int64(1)).Return(nil).Once()
		assert.NoError(t, f.svc.Delete(ctx, 100, 1))
	})
}
