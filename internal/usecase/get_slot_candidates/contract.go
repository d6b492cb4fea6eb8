package get_slot_candidates

import (
	"context"
	"time"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
	"github.com/m04kA/CWB-ReservationService/internal/integrations/partnerservice"
	"github.com/m04kA/CWB-ReservationService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetOccupyingForDate получает бронирования, занимающие слоты автомойки на дату
	// (подтвержденные и tentative с живым hold)
	GetOccupyingForDate(ctx context.Context, carwashID int64, date time.Time, now time.Time) ([]*domain.Booking, error)
}

// ConfigRepository интерфейс репозитория конфигурации слотов
type ConfigRepository interface {
	GetByCarwash(ctx context.Context, carwashID int64) (*domain.CarwashSlotConfig, error)
}

// PartnerServiceClient интерфейс клиента для PartnerService
type PartnerServiceClient interface {
	GetCarwash(ctx context.Context, carwashID int64) (*partnerservice.Carwash, error)
	GetServices(ctx context.Context, carwashID int64, serviceIDs []int64) ([]*partnerservice.WashService, error)
}

// PricingService интерфейс менеджера динамического ценообразования
// Fail open: при сбоях возвращает множитель 1.0, а не ошибку
type PricingService interface {
	GetDemandMultiplier(ctx context.Context, carwashID int64, date time.Time, slotStart types.TimeString) float64
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
