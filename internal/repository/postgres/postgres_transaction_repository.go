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

const transactionTracer = "transaction-repository"

const transactionColumns = `t.id, t.wallet_id, t.category_id, t.amount, t.description, t.ts`

type PostgresTransactionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresTransactionRepository(db *sql.DB, logger *zap.Logger) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{db: db, logger: logger.Named("transaction-repository")}
}

// Create inserts tx only if both its wallet and its category belong to
// userID. Otherwise nothing is written and ErrWalletNotFound is returned.
func (r *PostgresTransactionRepository) Create(ctx context.Context, userID int64, tx *models.Transaction) (err error) {
	ctx, span, done := instrument(ctx, transactionTracer, "CreateTransaction")
	defer done(&err)

	if tx == nil {
		err = pkgerrors.ErrNilTransaction
		return err
	}
	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.Int64("wallet_id", tx.WalletID),
		attribute.Int64("category_id", tx.CategoryID),
		attribute.Int64("amount", tx.Amount),
	)

	query := `INSERT INTO transactions (wallet_id, category_id, amount, description, ts)
		SELECT $1, $2, $3, $4, $5
		WHERE EXISTS (SELECT 1 FROM wallets WHERE id = $1 AND user_id = $6)
		AND EXISTS (SELECT 1 FROM categories WHERE id = $2 AND user_id = $6)
		RETURNING id`
	err = r.db.QueryRowContext(ctx, query, tx.WalletID, tx.CategoryID, tx.Amount, tx.Description, tx.Ts, userID).Scan(&tx.ID)
	if stderrors.Is(err, sql.ErrNoRows) {
		r.logger.Info("transaction rejected, wallet or category not owned",
			zap.Int64("user_id", userID), zap.Int64("wallet_id", tx.WalletID), zap.Int64("category_id", tx.CategoryID))
		err = pkgerrors.ErrWalletNotFound
		return err
	}
	if err != nil {
		r.logger.Error("failed to create transaction", zap.Int64("wallet_id", tx.WalletID), zap.Error(err))
		err = fmt.Errorf("failed to create transaction: %w", err)
		return err
	}

	r.logger.Info("transaction created", zap.Int64("transaction_id", tx.ID), zap.Int64("wallet_id", tx.WalletID))
	return nil
}

func (r *PostgresTransactionRepository) GetByID(ctx context.Context, id, userID int64) (tx *models.Transaction, err error) {
	ctx, span, done := instrument(ctx, transactionTracer, "GetTransactionByID")
	defer done(&err)
	span.SetAttributes(attribute.Int64("transaction_id", id), attribute.Int64("user_id", userID))

	query := `SELECT ` + transactionColumns + ` FROM transactions t
		JOIN wallets w ON w.id = t.wallet_id
		WHERE t.id = $1 AND w.user_id = $2`
	tx, err = scanTransaction(r.db.QueryRowContext(ctx, query, id, userID))
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrTransactionNotFound
		return nil, err
	}
	if err != nil {
		r.logger.Error("failed to get transaction by id", zap.Int64("transaction_id", id), zap.Error(err))
		err = fmt.Errorf("failed to get transaction by id: %w", err)
		return nil, err
	}
	return tx, nil
}

// ListByWallet returns the wallet's transactions ordered by timestamp. Both
// ends of period are inclusive; a zero bound is ignored.
func (r *PostgresTransactionRepository) ListByWallet(ctx context.Context, walletID, userID int64, period models.TimeRange) (txs []models.Transaction, err error) {
	ctx, span, done := instrument(ctx, transactionTracer, "ListTransactionsByWallet")
	defer done(&err)
	span.SetAttributes(attribute.Int64("wallet_id", walletID), attribute.Int64("user_id", userID))

	query := `SELECT ` + transactionColumns + ` FROM transactions t
		JOIN wallets w ON w.id = t.wallet_id
		WHERE t.wallet_id = $1 AND w.user_id = $2`
	args := []any{walletID, userID}
	if !period.From.IsZero() {
		args = append(args, period.From)
		query += fmt.Sprintf(` AND t.ts >= $%d`, len(args))
	}
	if !period.To.IsZero() {
		args = append(args, period.To)
		query += fmt.Sprintf(` AND t.ts <= $%d`, len(args))
	}
	query += ` ORDER BY t.ts, t.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list transactions", zap.Int64("wallet_id", walletID), zap.Error(err))
		err = fmt.Errorf("failed to list transactions: %w", err)
		return nil, err
	}
	defer rows.Close()

	txs = make([]models.Transaction, 0)
	for rows.Next() {
		var t models.Transaction
		if err = rows.Scan(&t.ID, &t.WalletID, &t.CategoryID, &t.Amount, &t.Description, &t.Ts); err != nil {
			err = fmt.Errorf("failed to scan transaction: %w", err)
			return nil, err
		}
		txs = append(txs, t)
	}
	if err = rows.Err(); err != nil {
		err = fmt.Errorf("failed to iterate transactions: %w", err)
		return nil, err
	}
	return txs, nil
}

// Update applies patch to a transaction of userID. A new category must also
// belong to userID.
func (r *PostgresTransactionRepository) Update(ctx context.Context, id, userID int64, patch models.TransactionPatch) (tx *models.Transaction, err error) {
	ctx, span, done := instrument(ctx, transactionTracer, "UpdateTransaction")
	defer done(&err)
	span.SetAttributes(attribute.Int64("transaction_id", id), attribute.Int64("user_id", userID))

	var set setList
	if patch.CategoryID != nil {
		set.add("category_id", *patch.CategoryID)
	}
	if patch.Amount != nil {
		set.add("amount", *patch.Amount)
	}
	if patch.Description != nil {
		set.add("description", *patch.Description)
	}
	if patch.Ts != nil {
		set.add("ts", *patch.Ts)
	}
	if set.empty() {
		err = pkgerrors.ErrEmptyUpdate
		return nil, err
	}

	clause, next := set.clause()
	query := fmt.Sprintf(`UPDATE transactions t SET %s FROM wallets w
		WHERE t.id = $%d AND t.wallet_id = w.id AND w.user_id = $%d`, clause, next, next+1)
	if patch.CategoryID != nil {
		// category_id is always the first placeholder.
		query += ` AND EXISTS (SELECT 1 FROM categories c WHERE c.id = $1 AND c.user_id = w.user_id)`
	}
	query += ` RETURNING ` + transactionColumns

	tx, err = scanTransaction(r.db.QueryRowContext(ctx, query, append(set.args, id, userID)...))
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrTransactionNotFound
		return nil, err
	}
	if err != nil {
		r.logger.Error("failed to update transaction", zap.Int64("transaction_id", id), zap.Error(err))
		err = fmt.Errorf("failed to update transaction: %w", err)
		return nil, err
	}

	r.logger.Info("transaction updated", zap.Int64("transaction_id", id))
	return tx, nil
}

func (r *PostgresTransactionRepository) Delete(ctx context.Context, id, userID int64) (err error) {
	ctx, span, done := instrument(ctx, transactionTracer, "DeleteTransaction")
	defer done(&err)
	span.SetAttributes(attribute.Int64("transaction_id", id), attribute.Int64("user_id", userID))

	query := `DELETE FROM transactions t USING wallets w
		WHERE t.id = $1 AND t.wallet_id = w.id AND w.user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("failed to delete transaction", zap.Int64("transaction_id", id), zap.Error(err))
		err = fmt.Errorf("failed to delete transaction: %w", err)
		return err
	}
	return expectAffected(res, pkgerrors.ErrTransactionNotFound)
}

func scanTransaction(row *sql.Row) (*models.Transaction, error) {
	var t models.Transaction
	if err := row.Scan(&t.ID, &t.WalletID, &t.CategoryID, &t.Amount, &t.Description, &t.Ts); err != nil {
		return nil, err
	}
	return &t, nil
}
