package simpletxmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/tripointhq/TPD-BookingService/pkg/dbmetrics"
)

const maxRetries = 3

// TxManager управляет сериализуемыми транзакциями поверх обычного *sql.DB,
// без сбора метрик. Используется там, где метрики отключены конфигом.
type TxManager struct {
	db *sql.DB
}

// NewTransactionManager создает TxManager
func NewTransactionManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// DoSerializable выполняет fn в сериализуемой транзакции с повтором при 40001
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		lastErr = m.runOnce(ctx, fn)
		if lastErr == nil {
			return nil
		}
		if !isSerializationFailure(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("serializable transaction retries exhausted: %w", lastErr)
}

func (m *TxManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txCtx := dbmetrics.WithExecutor(ctx, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001"
	}
	return false
}
