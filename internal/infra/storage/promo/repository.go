package promo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// DBExecutor интерфейс исполнителя запросов из dbmetrics
type DBExecutor = dbmetrics.DBExecutor

var promoColumns = []string{
	"id",
	"shop_id",
	"name",
	"discount_type",
	"discount_value",
	"starts_at",
	"ends_at",
	"min_spend_cents",
	"service_ids",
	"priority",
	"active",
	"per_customer_limit",
	"created_at",
	"updated_at",
}

// Repository репозиторий промо-акций (read-only для движка бронирования)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория промо
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает промо по ID
func (r *Repository) GetByID(ctx context.Context, shopID, promoID int64) (*domain.Promo, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(promoColumns...).
		From("promos").
		Where(squirrel.Eq{"id": promoID, "shop_id": shopID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	p, err := scanPromo(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrPromoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan promo: %v", ErrScanRow, err)
	}

	return p, nil
}

// ListActive получает активные промо салона, чьё окно действия покрывает момент now
// Сортировка по priority DESC, id ASC даёт детерминированный порядок перебора:
// при прочих равных выигрывает промо с меньшим id
func (r *Repository) ListActive(ctx context.Context, shopID int64, now time.Time) ([]*domain.Promo, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(promoColumns...).
		From("promos").
		Where(squirrel.Eq{"shop_id": shopID, "active": true}).
		Where(squirrel.LtOrEq{"starts_at": now}).
		Where(squirrel.Gt{"ends_at": now}).
		OrderBy("priority DESC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	promos := make([]*domain.Promo, 0)
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan row: %v", ErrScanRow, err)
		}
		promos = append(promos, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - rows error: %v", ErrScanRow, err)
	}

	return promos, nil
}

// CountCustomerUsage подсчитывает, сколько раз клиент уже использовал промо
// в занимающих или завершённых бронях (для ограничения per_customer_limit)
func (r *Repository) CountCustomerUsage(ctx context.Context, promoID, customerUserID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"promo_id": promoID, "customer_user_id": customerUserID}).
		Where(squirrel.Eq{"status": []domain.BookingStatus{domain.StatusHold, domain.StatusConfirmed}}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountCustomerUsage - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountCustomerUsage - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPromo(row rowScanner) (*domain.Promo, error) {
	var p domain.Promo
	var serviceIDs pq.Int64Array
	var perCustomerLimit sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.ShopID,
		&p.Name,
		&p.Type,
		&p.Value,
		&p.StartsAt,
		&p.EndsAt,
		&p.MinSpendCents,
		&serviceIDs,
		&p.Priority,
		&p.Active,
		&perCustomerLimit,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.ServiceIDs = []int64(serviceIDs)
	if perCustomerLimit.Valid {
		limit := int(perCustomerLimit.Int64)
		p.PerCustomerLimit = &limit
	}
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}
