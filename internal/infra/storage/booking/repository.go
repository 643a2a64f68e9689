package booking

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
	"github.com/tripointhq/TPD-BookingService/pkg/dbmetrics"
	"github.com/tripointhq/TPD-BookingService/pkg/psqlbuilder"
)

// bookingColumns полный список колонок таблицы bookings в порядке сканирования
var bookingColumns = []string{
	"id",
	"status",
	"payment_link_token",
	"customer_name",
	"customer_email",
	"customer_phone",
	"postcode",
	"address_line",
	"safe_location",
	"vehicle_reg",
	"vehicle_make",
	"vehicle_model",
	"fault_summary",
	"service_ids",
	"slot_start",
	"slot_end",
	"zone",
	"drive_time_mins",
	"travel_buffer_mins",
	"total_amount",
	"deposit_amount",
	"balance_due",
	"currency",
	"stripe_checkout_session_id",
	"stripe_payment_intent_id",
	"stripe_customer_id",
	"stripe_balance_session_id",
	"calendar_event_id",
	"created_at",
	"updated_at",
	"deposit_paid_at",
	"completed_at",
}

// ListFilter фильтр для выборки бронирований в админ-панели
type ListFilter struct {
	Status   *domain.BookingStatus
	FromDate *time.Time
	ToDate   *time.Time
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её:
// создание слота всегда должно идти в одной транзакции с проверкой пересечений.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"status",
			"payment_link_token",
			"customer_name",
			"customer_email",
			"customer_phone",
			"postcode",
			"address_line",
			"safe_location",
			"vehicle_reg",
			"vehicle_make",
			"vehicle_model",
			"fault_summary",
			"service_ids",
			"slot_start",
			"slot_end",
			"zone",
			"drive_time_mins",
			"travel_buffer_mins",
			"total_amount",
			"deposit_amount",
			"balance_due",
			"currency",
		).
		Values(
			b.ID,
			b.Status,
			b.PaymentLinkToken,
			b.CustomerName,
			b.CustomerEmail,
			b.CustomerPhone,
			b.Postcode,
			b.AddressLine,
			b.SafeLocation,
			b.VehicleReg,
			b.VehicleMake,
			b.VehicleModel,
			b.FaultSummary,
			strings.Join(b.ServiceIDs, ","),
			b.SlotStart,
			b.SlotEnd,
			b.Zone,
			b.DriveTimeMins,
			b.TravelBufferMins,
			b.TotalAmount,
			b.DepositAmount,
			b.BalanceDue,
			b.Currency,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByToken получает бронирование по токену платежной страницы
func (r *Repository) GetByToken(ctx context.Context, token string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByToken", squirrel.Eq{"payment_link_token": token})
}

// GetByStripeSession получает бронирование по ID checkout-сессии
// (депозитной или балансовой)
func (r *Repository) GetByStripeSession(ctx context.Context, sessionID string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByStripeSession", squirrel.Or{
		squirrel.Eq{"stripe_checkout_session_id": sessionID},
		squirrel.Eq{"stripe_balance_session_id": sessionID},
	})
}

func (r *Repository) getOne(ctx context.Context, method string, pred interface{}) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(pred).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	b, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, method, err)
	}

	return b, nil
}

// GetActiveInWindow получает активные бронирования, чьи слоты попадают в окно
// [from, to). Внутри транзакции добавляет FOR UPDATE, чтобы конкурирующие
// резервации одного слота сериализовались.
func (r *Repository) GetActiveInWindow(ctx context.Context, from, to time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, status := range domain.ActiveStatuses {
		activeStatuses[i] = string(status)
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": activeStatuses}).
		Where(squirrel.Lt{"slot_start": to}).
		Where(squirrel.Gt{"slot_end": from}).
		OrderBy("slot_start ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveInWindow - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveInWindow - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// List получает бронирования для админ-панели с опциональной фильтрацией
// по статусу и периоду слота
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		OrderBy("slot_start ASC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.FromDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"slot_start": *filter.FromDate})
	}
	if filter.ToDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"slot_start": *filter.ToDate})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// SetDepositSession сохраняет ID депозитной checkout-сессии
func (r *Repository) SetDepositSession(ctx context.Context, id, sessionID string) error {
	return r.update(ctx, "SetDepositSession", psqlbuilder.Update("bookings").
		Set("stripe_checkout_session_id", sessionID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// SetBalanceSession сохраняет ID checkout-сессии для оплаты остатка
func (r *Repository) SetBalanceSession(ctx context.Context, id, sessionID string) error {
	return r.update(ctx, "SetBalanceSession", psqlbuilder.Update("bookings").
		Set("stripe_balance_session_id", sessionID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// SetCalendarEvent сохраняет ID созданного события календаря
func (r *Repository) SetCalendarEvent(ctx context.Context, id, eventID string) error {
	return r.update(ctx, "SetCalendarEvent", psqlbuilder.Update("bookings").
		Set("calendar_event_id", eventID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// SetDepositPaid переводит бронирование PENDING_DEPOSIT -> DEPOSIT_PAID.
// Условие по исходному статусу делает переход идемпотентным: повторный
// webhook не изменит уже оплаченное бронирование.
func (r *Repository) SetDepositPaid(ctx context.Context, id string, paymentIntentID, customerID *string) error {
	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", domain.StatusDepositPaid).
		Set("deposit_paid_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusPendingDeposit})

	if paymentIntentID != nil {
		updateBuilder = updateBuilder.Set("stripe_payment_intent_id", *paymentIntentID)
	}
	if customerID != nil {
		updateBuilder = updateBuilder.Set("stripe_customer_id", *customerID)
	}

	return r.updateTransition(ctx, "SetDepositPaid", updateBuilder)
}

// MarkCompleted переводит бронирование DEPOSIT_PAID -> COMPLETED_UNPAID
func (r *Repository) MarkCompleted(ctx context.Context, id string) error {
	return r.updateTransition(ctx, "MarkCompleted", psqlbuilder.Update("bookings").
		Set("status", domain.StatusCompletedUnpaid).
		Set("completed_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusDepositPaid}))
}

// SetBalancePaid переводит бронирование COMPLETED_UNPAID -> COMPLETED_PAID
// и обнуляет остаток
func (r *Repository) SetBalancePaid(ctx context.Context, id string) error {
	return r.updateTransition(ctx, "SetBalancePaid", psqlbuilder.Update("bookings").
		Set("status", domain.StatusCompletedPaid).
		Set("balance_due", 0).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusCompletedUnpaid}))
}

// ExpirePending отменяет неоплаченные бронирования, созданные до cutoff.
// Возвращает количество отменённых строк.
func (r *Repository) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.StatusPendingDeposit}).
		Where(squirrel.Lt{"created_at": cutoff}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: ExpirePending - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ExpirePending - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ExpirePending - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// update выполняет UPDATE, где отсутствие строки означает "не найдено"
func (r *Repository) update(ctx context.Context, method string, updateBuilder squirrel.UpdateBuilder) error {
	rowsAffected, err := r.exec(ctx, method, updateBuilder)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// updateTransition выполняет условный UPDATE перехода статуса.
// Отсутствие строки означает, что бронирование не существует либо
// уже находится в другом статусе.
func (r *Repository) updateTransition(ctx context.Context, method string, updateBuilder squirrel.UpdateBuilder) error {
	rowsAffected, err := r.exec(ctx, method, updateBuilder)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrIllegalTransition
	}
	return nil
}

func (r *Repository) exec(ctx context.Context, method string, updateBuilder squirrel.UpdateBuilder) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, method, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	return rowsAffected, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку в доменную модель
func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var serviceIDs string
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.Status,
		&b.PaymentLinkToken,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.Postcode,
		&b.AddressLine,
		&b.SafeLocation,
		&b.VehicleReg,
		&b.VehicleMake,
		&b.VehicleModel,
		&b.FaultSummary,
		&serviceIDs,
		&b.SlotStart,
		&b.SlotEnd,
		&b.Zone,
		&b.DriveTimeMins,
		&b.TravelBufferMins,
		&b.TotalAmount,
		&b.DepositAmount,
		&b.BalanceDue,
		&b.Currency,
		&b.StripeCheckoutSessionID,
		&b.StripePaymentIntentID,
		&b.StripeCustomerID,
		&b.StripeBalanceSessionID,
		&b.CalendarEventID,
		&createdAt,
		&updatedAt,
		&b.DepositPaidAt,
		&b.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	b.ServiceIDs = strings.Split(serviceIDs, ",")
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
