package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Repository репозиторий каталога: салоны, мастера, услуги, комбо-правила
// Каталог для движка бронирования read-only, изменяется сервисом онбординга
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetShop получает салон по ID
func (r *Repository) GetShop(ctx context.Context, shopID int64) (*domain.Shop, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"timezone",
		"working_days",
		"open_time",
		"close_time",
		"manager_ids",
		"created_at",
		"updated_at",
	).
		From("shops").
		Where(squirrel.Eq{"id": shopID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetShop - build select query: %v", ErrBuildQuery, err)
	}

	var shop domain.Shop
	var workingDays pq.Int64Array
	var managerIDs pq.Int64Array
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&shop.ID,
		&shop.Name,
		&shop.Timezone,
		&workingDays,
		&shop.OpenTime,
		&shop.CloseTime,
		&managerIDs,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetShop - scan shop: %v", ErrScanRow, err)
	}

	shop.WorkingDays = toIntSlice(workingDays)
	shop.ManagerIDs = []int64(managerIDs)
	shop.CreatedAt = createdAt.Time
	shop.UpdatedAt = updatedAt.Time

	return &shop, nil
}

// GetStylist получает мастера салона по ID
func (r *Repository) GetStylist(ctx context.Context, shopID, stylistID int64) (*domain.Stylist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := stylistSelect().
		Where(squirrel.Eq{"id": stylistID, "shop_id": shopID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStylist - build select query: %v", ErrBuildQuery, err)
	}

	stylist, err := scanStylist(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrStylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStylist - scan stylist: %v", ErrScanRow, err)
	}

	return stylist, nil
}

// ListActiveStylists получает всех активных мастеров салона
// Порядок стабильный (по id) - от него зависит детерминированность списка слотов
func (r *Repository) ListActiveStylists(ctx context.Context, shopID int64) ([]*domain.Stylist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := stylistSelect().
		Where(squirrel.Eq{"shop_id": shopID, "active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveStylists - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveStylists - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	stylists := make([]*domain.Stylist, 0)
	for rows.Next() {
		stylist, err := scanStylist(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveStylists - scan row: %v", ErrScanRow, err)
		}
		stylists = append(stylists, stylist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveStylists - rows error: %v", ErrScanRow, err)
	}

	return stylists, nil
}

// GetService получает услугу салона по ID
func (r *Repository) GetService(ctx context.Context, shopID, serviceID int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"shop_id",
		"name",
		"duration_minutes",
		"price_cents",
		"combo_eligible",
		"active",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": serviceID, "shop_id": shopID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.ShopID,
		&service.Name,
		&service.DurationMinutes,
		&service.PriceCents,
		&service.ComboEligible,
		&service.Active,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time

	return &service, nil
}

// GetComboRule получает комбо-правило для пары услуг (в любом порядке)
func (r *Repository) GetComboRule(ctx context.Context, shopID, serviceAID, serviceBID int64) (*domain.ComboRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"shop_id",
		"service_a_id",
		"service_b_id",
		"discount_cents",
	).
		From("combo_rules").
		Where(squirrel.Eq{"shop_id": shopID}).
		Where(squirrel.Or{
			squirrel.Eq{"service_a_id": serviceAID, "service_b_id": serviceBID},
			squirrel.Eq{"service_a_id": serviceBID, "service_b_id": serviceAID},
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetComboRule - build select query: %v", ErrBuildQuery, err)
	}

	var rule domain.ComboRule
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rule.ID,
		&rule.ShopID,
		&rule.ServiceAID,
		&rule.ServiceBID,
		&rule.DiscountCents,
	)

	if err == sql.ErrNoRows {
		return nil, ErrComboRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetComboRule - scan rule: %v", ErrScanRow, err)
	}

	return &rule, nil
}

func stylistSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"shop_id",
		"name",
		"active",
		"working_days",
		"open_time",
		"close_time",
		"created_at",
		"updated_at",
	).From("stylists")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStylist(row rowScanner) (*domain.Stylist, error) {
	var stylist domain.Stylist
	var workingDays pq.Int64Array
	var openTime, closeTime types.TimeString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&stylist.ID,
		&stylist.ShopID,
		&stylist.Name,
		&stylist.Active,
		&workingDays,
		&openTime,
		&closeTime,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	// NULL в БД означает наследование графика салона
	if workingDays != nil {
		stylist.WorkingDays = toIntSlice(workingDays)
	}
	if !openTime.IsZero() {
		stylist.OpenTime = &openTime
	}
	if !closeTime.IsZero() {
		stylist.CloseTime = &closeTime
	}
	stylist.CreatedAt = createdAt.Time
	stylist.UpdatedAt = updatedAt.Time

	return &stylist, nil
}

func toIntSlice(arr pq.Int64Array) []int {
	result := make([]int, len(arr))
	for i, v := range arr {
		result[i] = int(v)
	}
	return result
}
