package pricing

import (
	"context"
	"time"

	"github.com/m04kA/CWB-ReservationService/pkg/types"
)

const (
	// BaseMultiplier минимальный множитель спроса
	BaseMultiplier = 1.0
	// StepPerBooking прирост множителя за каждое бронирование в часовом интервале
	StepPerBooking = 0.05
	// MaxMultiplier потолок множителя спроса
	MaxMultiplier = 1.5
)

// Service менеджер динамического ценообразования
// Считает множитель спроса по количеству бронирований в том же часовом интервале
// Справочный сигнал для клиента: на корректность доступности не влияет
// и не блокирует резервирование при сбоях (fail open, множитель 1.0)
type Service struct {
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает менеджер динамического ценообразования
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetDemandMultiplier возвращает множитель спроса (>= 1.0) для слота
// При любой ошибке зависимостей возвращает 1.0 — ценовой сигнал не должен
// мешать выдаче кандидатов и резервированию
func (s *Service) GetDemandMultiplier(ctx context.Context, carwashID int64, date time.Time, slotStart types.TimeString) float64 {
	bucketStart, bucketEnd, err := hourBucket(slotStart)
	if err != nil {
		s.logger.Warn("GetDemandMultiplier: invalid slot start %s: %v", slotStart, err)
		return BaseMultiplier
	}

	count, err := s.bookingRepo.CountForHourBucket(ctx, carwashID, date, bucketStart, bucketEnd, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("GetDemandMultiplier: failed to count bookings for carwash=%d: %v", carwashID, err)
		return BaseMultiplier
	}

	multiplier := BaseMultiplier + StepPerBooking*float64(count)
	if multiplier > MaxMultiplier {
		multiplier = MaxMultiplier
	}
	return multiplier
}

// hourBucket возвращает границы часового интервала, содержащего start
func hourBucket(start types.TimeString) (string, string, error) {
	minutes, err := start.Minutes()
	if err != nil {
		return "", "", err
	}

	bucketStartMin := (minutes / 60) * 60
	bucketStart, err := types.NewTimeStringFromMinutes(bucketStartMin)
	if err != nil {
		return "", "", err
	}
	bucketEnd, err := types.NewTimeStringFromMinutes(bucketStartMin + 60)
	if err != nil {
		return "", "", err
	}

	return bucketStart.String(), bucketEnd.String(), nil
}
