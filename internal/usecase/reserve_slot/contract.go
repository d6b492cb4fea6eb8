package reserve_slot

import (
	"context"
	"time"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
	"github.com/m04kA/CWB-ReservationService/internal/infra/events"
	"github.com/m04kA/CWB-ReservationService/internal/integrations/partnerservice"
	"github.com/m04kA/CWB-ReservationService/internal/integrations/userservice"
	"github.com/m04kA/CWB-ReservationService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	// GetOccupyingForDate получает бронирования, занимающие слоты автомойки на дату,
	// с блокировкой строк (FOR UPDATE) внутри транзакции
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

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	// GetSelectedCarWithGracefulDegradation возвращает выбранный автомобиль
	// либо nil, если UserService недоступен — резервирование не блокируется
	GetSelectedCarWithGracefulDegradation(ctx context.Context, userID int64) (*userservice.Car, error)
}

// SlotLocker интерфейс распределенной блокировки слота
type SlotLocker interface {
	AcquireWait(ctx context.Context, key string, ttl, waitTimeout, retryInterval time.Duration) (string, error)
	Release(ctx context.Context, key, token string) error
}

// PricingService интерфейс менеджера динамического ценообразования
type PricingService interface {
	GetDemandMultiplier(ctx context.Context, carwashID int64, date time.Time, slotStart types.TimeString) float64
}

// EventPublisher интерфейс публикации событий бронирований
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, event events.BookingEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsCollector интерфейс метрик резервирования
type MetricsCollector interface {
	IncReservationOutcome(outcome string)
	ObserveLockWait(seconds float64)
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
