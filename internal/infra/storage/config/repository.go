package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
	"github.com/m04kA/CWB-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/CWB-ReservationService/pkg/psqlbuilder"
)

// Переиспользуем интерфейс исполнителя из dbmetrics
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с конфигурацией слотов автомоек
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByCarwash получает конфигурацию слотов автомойки
// Если в контексте передана активная транзакция, использует её
func (r *Repository) GetByCarwash(ctx context.Context, carwashID int64) (*domain.CarwashSlotConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"carwash_id",
		"capacity",
		"slot_step_minutes",
		"duration_policy",
		"advance_booking_days",
		"min_booking_notice_minutes",
		"created_at",
		"updated_at",
	).
		From("carwash_slot_config").
		Where(squirrel.Eq{"carwash_id": carwashID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByCarwash - build select query: %v", ErrBuildQuery, err)
	}

	var config domain.CarwashSlotConfig
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&config.ID,
		&config.CarwashID,
		&config.Capacity,
		&config.SlotStepMinutes,
		&config.DurationPolicy,
		&config.AdvanceBookingDays,
		&config.MinBookingNoticeMinutes,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCarwash - scan config: %v", ErrScanRow, err)
	}

	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return &config, nil
}

// Upsert создает или обновляет конфигурацию слотов автомойки
// Одна автомойка имеет не больше одной конфигурации (уникальный carwash_id)
func (r *Repository) Upsert(ctx context.Context, config *domain.CarwashSlotConfig) (*domain.CarwashSlotConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("carwash_slot_config").
		Columns(
			"carwash_id",
			"capacity",
			"slot_step_minutes",
			"duration_policy",
			"advance_booking_days",
			"min_booking_notice_minutes",
		).
		Values(
			config.CarwashID,
			config.Capacity,
			config.SlotStepMinutes,
			config.DurationPolicy,
			config.AdvanceBookingDays,
			config.MinBookingNoticeMinutes,
		).
		Suffix(`ON CONFLICT (carwash_id) DO UPDATE SET
			capacity = EXCLUDED.capacity,
			slot_step_minutes = EXCLUDED.slot_step_minutes,
			duration_policy = EXCLUDED.duration_policy,
			advance_booking_days = EXCLUDED.advance_booking_days,
			min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&config.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return config, nil
}

// Delete удаляет конфигурацию слотов автомойки
// После удаления применяются дефолтные значения из domain
func (r *Repository) Delete(ctx context.Context, carwashID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("carwash_slot_config").
		Where(squirrel.Eq{"carwash_id": carwashID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrConfigNotFound
	}

	return nil
}
