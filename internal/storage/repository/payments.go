package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/Mystick682/X-TremeData/internal/models"
)

// CreditBalance зачисляет сумму на баланс пользователя и фиксирует
// использованный transaction reference одной транзакцией.
//
// Инкремент выполняется одним UPDATE на стороне базы, без чтения-изменения-записи,
// поэтому параллельные зачисления одному пользователю не теряют обновлений.
// Повторный reference нарушает уникальный индекс и откатывает транзакцию целиком.
func (s *Storage) CreditBalance(ctx context.Context, username, reference string,
	amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	const op = "storage.CreditBalance"
	select {
	case <-ctx.Done():
		return decimal.Decimal{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w", op, err)
	}
	// Освобождение на любом пути выхода; после Commit откат становится no-op.
	defer func() {
		_ = tx.Rollback()
	}()

	var newBalance decimal.Decimal
	queryCredit := `UPDATE users
			  SET balance = balance + $1
			  WHERE username = $2
			  RETURNING balance`
	if err = tx.QueryRowContext(ctx, queryCredit, amount, username).Scan(&newBalance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Decimal{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return decimal.Decimal{}, fmt.Errorf("%s: %w", op, err)
	}

	queryInsert := `INSERT INTO payments (username, reference, amount, currency)
			  VALUES ($1, $2, $3, $4)`
	if _, err = tx.ExecContext(ctx, queryInsert, username, reference, amount, currency); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				return decimal.Decimal{}, fmt.Errorf("%s: %w", op, ErrReferenceAlreadyUsed)
			case foreignKeyViolation:
				return decimal.Decimal{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
			}
		}
		return decimal.Decimal{}, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w", op, err)
	}
	return newBalance, nil
}

// ListPayments возвращает историю зачислений пользователя, новые первыми.
func (s *Storage) ListPayments(ctx context.Context, username string) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, reference, amount, currency, created_at
			  FROM payments
			  WHERE username = $1
			  ORDER BY created_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err = rows.Scan(&p.ID, &p.Username, &p.Reference, &p.Amount,
			&p.Currency, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
