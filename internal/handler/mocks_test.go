package handler

import (
	"context"

	"github.com/honeynil/kapitalist/internal/models"
	"github.com/stretchr/testify/mock"
)

type mockUserService struct{ mock.Mock }

func (m *mockUserService) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	args := m.Called(ctx, email, username, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *mockUserService) Me(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserService) UpdateMe(ctx context.Context, userID int64, patch models.UserPatch) (*models.User, error) {
	args := m.Called(ctx, userID, patch)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type mockWalletService struct{ mock.Mock }

func (m *mockWalletService) Create(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	args := m.Called(ctx, wallet)
	w, _ := args.Get(0).(*models.Wallet)
	return w, args.Error(1)
}

func (m *mockWalletService) Get(ctx context.Context, id, userID int64) (*models.Wallet, error) {
	args := m.Called(ctx, id, userID)
	w, _ := args.Get(0).(*models.Wallet)
	return w, args.Error(1)
}

func (m *mockWalletService) List(ctx context.Context, userID int64) ([]models.Wallet, error) {
	args := m.Called(ctx, userID)
	ws, _ := args.Get(0).([]models.Wallet)
	return ws, args.Error(1)
}

func (m *mockWalletService) Update(ctx context.Context, id, userID int64, patch models.WalletPatch) (*models.Wallet, error) {
	args := m.Called(ctx, id, userID, patch)
	w, _ := args.Get(0).(*models.Wallet)
	return w, args.Error(1)
}

func (m *mockWalletService) Delete(ctx context.Context, id, userID int64) error {
	return m.Called(ctx, id, userID).Error(0)
}

type mockCategoryService struct{ mock.Mock }

func (m *mockCategoryService) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	args := m.Called(ctx, category)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}

func (m *mockCategoryService) Get(ctx context.Context, id, userID int64) (*models.Category, error) {
	args := m.Called(ctx, id, userID)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}

func (m *mockCategoryService) List(ctx context.Context, userID int64) ([]models.Category, error) {
	args := m.Called(ctx, userID)
	cs, _ := args.Get(0).([]models.Category)
	return cs, args.Error(1)
}

func (m *mockCategoryService) Update(ctx context.Context, id, userID int64, patch models.CategoryPatch) (*models.Category, error) {
	args := m.Called(ctx, id, userID, patch)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}

func (m *mockCategoryService) Delete(ctx context.Context, id, userID int64) error {
	return m.Called(ctx, id, userID).Error(0)
}

type mockTransactionService struct{ mock.Mock }

func (m *mockTransactionService) Create(ctx context.Context, userID int64, tx *models.Transaction) (*models.Transaction, error) {
	args := m.Called(ctx, userID, tx)
	t, _ := args.Get(0).(*models.Transaction)
	return t, args.Error(1)
}

func (m *mockTransactionService) Get(ctx context.Context, id, userID int64) (*models.Transaction, error) {
	args := m.Called(ctx, id, userID)
	t, _ := args.Get(0).(*models.Transaction)
	return t, args.Error(1)
}

func (m *mockTransactionService) ListByWallet(ctx context.Context, walletID, userID int64, period models.TimeRange) ([]models.Transaction, error) {
	args := m.Called(ctx, walletID, userID, period)
	ts, _ := args.Get(0).([]models.Transaction)
	return ts, args.Error(1)
}

func (m *mockTransactionService) Update(ctx context.Context, id, userID int64, patch models.TransactionPatch) (*models.Transaction, error) {
	args := m.Called(ctx, id, userID, patch)
	t, _ := args.Get(0).(*models.Transaction)
	return t, args.Error(1)
}

func (m *mockTransactionService) Delete(ctx context.Context, id, userID int64) error {
	return m.Called(ctx, id, userID).Error(0)
}
