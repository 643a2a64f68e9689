package paymentevent

import (
	"context"
	"fmt"

	"github.com/tripointhq/TPD-BookingService/pkg/dbmetrics"
	"github.com/tripointhq/TPD-BookingService/pkg/psqlbuilder"
)

// Repository журнал обработанных платежных событий.
// Уникальный индекс по provider_event_id гарантирует, что каждое событие
// провайдера применяется к бронированию ровно один раз.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр журнала платежных событий
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Record записывает событие провайдера в журнал.
// Возвращает true, если событие записано впервые, и false, если такое
// provider_event_id уже встречалось (повторная доставка).
func (r *Repository) Record(ctx context.Context, bookingID, eventID, eventType string, amountPence int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payment_events").
		Columns("booking_id", "provider_event_id", "event_type", "amount").
		Values(bookingID, eventID, eventType, amountPence).
		Suffix("ON CONFLICT (provider_event_id) DO NOTHING").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Record - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Record - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Record - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}
