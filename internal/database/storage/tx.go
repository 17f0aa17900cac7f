package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/GoArmGo/Albumy/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// withTx выполняет fn в транзакции. Ошибка fn или паника откатывает транзакцию
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("не удалось начать транзакцию: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("не удалось зафиксировать транзакцию: %w", err)
	}
	return nil
}

// selectPage выполняет запрос количества и запрос страницы.
// listQuery должен принимать LIMIT и OFFSET последними двумя параметрами
func selectPage[T any](ctx context.Context, db sqlx.QueryerContext, countQuery, listQuery string, page, perPage int, args ...any) ([]T, int, error) {
	var total int
	if err := sqlx.GetContext(ctx, db, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета записей: %w", err)
	}

	items := []T{}
	if total == 0 {
		return items, 0, nil
	}

	listArgs := append(append([]any{}, args...), perPage, domain.Offset(page, perPage))
	if err := sqlx.SelectContext(ctx, db, &items, listQuery, listArgs...); err != nil {
		return nil, 0, fmt.Errorf("ошибка выборки страницы: %w", err)
	}
	return items, total, nil
}

// foreign_key_violation
const pqForeignKeyViolation = "23503"

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation
}
