package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/honeynil/kapitalist/internal/models"
	pkgerrors "github.com/honeynil/kapitalist/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const walletTracer = "wallet-repository"

const walletColumns = `id, user_id, name, initial_balance, current_balance, color, created_at`

type PostgresWalletRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresWalletRepository(db *sql.DB, logger *zap.Logger) *PostgresWalletRepository {
	return &PostgresWalletRepository{db: db, logger: logger.Named("wallet-repository")}
}

// Create stores a wallet whose current balance starts at the initial balance.
func (r *PostgresWalletRepository) Create(ctx context.Context, wallet *models.Wallet) (err error) {
	ctx, span, done := instrument(ctx, walletTracer, "CreateWallet")
	defer done(&err)

	if wallet == nil {
		err = pkgerrors.ErrNilWallet
		return err
	}
	span.SetAttributes(attribute.Int64("user_id", wallet.UserID))

	query := `INSERT INTO wallets (user_id, name, initial_balance, current_balance, color)
		VALUES ($1, $2, $3, $3, $4) RETURNING id, current_balance, created_at`
	err = r.db.QueryRowContext(ctx, query, wallet.UserID, wallet.Name, wallet.InitialBalance, wallet.Color).
		Scan(&wallet.ID, &wallet.CurrentBalance, &wallet.CreatedAt)
	if err != nil {
		r.logger.Error("failed to create wallet", zap.Int64("user_id", wallet.UserID), zap.Error(err))
		err = fmt.Errorf("failed to create wallet: %w", err)
		return err
	}

	r.logger.Info("wallet created", zap.Int64("wallet_id", wallet.ID), zap.Int64("user_id", wallet.UserID))
	return nil
}

func (r *PostgresWalletRepository) GetByID(ctx context.Context, id, userID int64) (wallet *models.Wallet, err error) {
	ctx, span, done := instrument(ctx, walletTracer, "GetWalletByID")
	defer done(&err)
	span.SetAttributes(attribute.Int64("wallet_id", id), attribute.Int64("user_id", userID))

	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 AND user_id = $2`
	wallet, err = scanWallet(r.db.QueryRowContext(ctx, query, id, userID))
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrWalletNotFound
		return nil, err
	}
	if err != nil {
		r.logger.Error("failed to get wallet", zap.Int64("wallet_id", id), zap.Error(err))
		err = fmt.Errorf("failed to get wallet: %w", err)
		return nil, err
	}
	return wallet, nil
}

func (r *PostgresWalletRepository) ListByUser(ctx context.Context, userID int64) (wallets []models.Wallet, err error) {
	ctx, span, done := instrument(ctx, walletTracer, "ListWallets")
	defer done(&err)
	span.SetAttributes(attribute.Int64("user_id", userID))

	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to list wallets", zap.Int64("user_id", userID), zap.Error(err))
		err = fmt.Errorf("failed to list wallets: %w", err)
		return nil, err
	}
	defer rows.Close()

	wallets = make([]models.Wallet, 0)
	for rows.Next() {
		var w models.Wallet
		if err = rows.Scan(&w.ID, &w.UserID, &w.Name, &w.InitialBalance, &w.CurrentBalance, &w.Color, &w.CreatedAt); err != nil {
			err = fmt.Errorf("failed to scan wallet: %w", err)
			return nil, err
		}
		wallets = append(wallets, w)
	}
	if err = rows.Err(); err != nil {
		err = fmt.Errorf("failed to iterate wallets: %w", err)
		return nil, err
	}
	return wallets, nil
}

func (r *PostgresWalletRepository) Update(ctx context.Context, id, userID int64, patch models.WalletPatch) (wallet *models.Wallet, err error) {
	ctx, span, done := instrument(ctx, walletTracer, "UpdateWallet")
	defer done(&err)
	span.SetAttributes(attribute.Int64("wallet_id", id), attribute.Int64("user_id", userID))

	var set setList
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.CurrentBalance != nil {
		set.add("current_balance", *patch.CurrentBalance)
	}
	if patch.Color != nil {
		set.add("color", *patch.Color)
	}
	if set.empty() {
		err = pkgerrors.ErrEmptyUpdate
		return nil, err
	}

	clause, next := set.clause()
	query := fmt.Sprintf(`UPDATE wallets SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`, clause, next, next+1, walletColumns)
	wallet, err = scanWallet(r.db.QueryRowContext(ctx, query, append(set.args, id, userID)...))
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrWalletNotFound
		return nil, err
	}
	if err != nil {
		r.logger.Error("failed to update wallet", zap.Int64("wallet_id", id), zap.Error(err))
		err = fmt.Errorf("failed to update wallet: %w", err)
		return nil, err
	}

	r.logger.Info("wallet updated", zap.Int64("wallet_id", id))
	return wallet, nil
}

// Delete removes the wallet together with its transactions.
func (r *PostgresWalletRepository) Delete(ctx context.Context, id, userID int64) (err error) {
	ctx, span, done := instrument(ctx, walletTracer, "DeleteWallet")
	defer done(&err)
	span.SetAttributes(attribute.Int64("wallet_id", id), attribute.Int64("user_id", userID))

	res, err := r.db.ExecContext(ctx, `DELETE FROM wallets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Error("failed to delete wallet", zap.Int64("wallet_id", id), zap.Error(err))
		err = fmt.Errorf("failed to delete wallet: %w", err)
		return err
	}
	if err = expectAffected(res, pkgerrors.ErrWalletNotFound); err != nil {
		return err
	}

	r.logger.Info("wallet deleted", zap.Int64("wallet_id", id))
	return nil
}

func scanWallet(row *sql.Row) (*models.Wallet, error) {
	var w models.Wallet
	if err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.InitialBalance, &w.CurrentBalance, &w.Color, &w.CreatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

// expectAffected turns a zero-row DELETE into notFound.
func expectAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
