package confirm_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
	"github.com/m04kA/CWB-ReservationService/internal/infra/events"
	bookingRepo "github.com/m04kA/CWB-ReservationService/internal/infra/storage/booking"
)

// UseCase use case подтверждения резервирования
//
// Идемпотентный: повторное подтверждение тем же токеном возвращает успех
// без изменения состояния бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	publisher    EventPublisher
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		publisher:    publisher,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case подтверждения резервирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmReservation: user=%d", req.UserID)

	// 1. Валидация входных данных
	if req.Token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var result *domain.Booking
	alreadyConfirmed := false

	// 3. Подтверждение в сериализуемой транзакции: строка бронирования
	// блокируется (FOR UPDATE), гонка с janitor и повторным confirm исключена
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByToken(txCtx, req.Token)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrTokenNotFound) {
				return ErrTokenNotFound
			}
			return fmt.Errorf("%w: failed to get booking by token: %v", ErrInternal, err)
		}

		if booking.UserID != req.UserID {
			uc.logger.Warn("ConfirmReservation: token of booking id=%d belongs to user %d, not %d",
				booking.ID, booking.UserID, req.UserID)
			return ErrAccessDenied
		}

		switch booking.Status {
		case domain.StatusConfirmed:
			// Повторное подтверждение тем же токеном — идемпотентный успех
			alreadyConfirmed = true
			result = booking
			return nil

		case domain.StatusTentative:
			if !booking.IsHoldLive(now) {
				uc.logger.Warn("ConfirmReservation: hold of booking id=%d expired at %v", booking.ID, booking.HoldExpiresAt)
				return ErrReservationExpired
			}
			if err := uc.bookingRepo.UpdateStatus(txCtx, booking.ID, domain.StatusConfirmed); err != nil {
				return fmt.Errorf("%w: failed to confirm booking: %v", ErrInternal, err)
			}
			booking.Status = domain.StatusConfirmed
			result = booking
			return nil

		case domain.StatusExpired:
			return ErrReservationExpired

		case domain.StatusCancelledByUser, domain.StatusCancelledByCarwash:
			return ErrReservationCancelled

		default:
			uc.logger.Warn("ConfirmReservation: booking id=%d has unexpected status %s", booking.ID, booking.Status)
			return ErrTokenNotFound
		}
	})

	if err != nil {
		return nil, err
	}

	if alreadyConfirmed {
		uc.logger.Info("ConfirmReservation: booking id=%d already confirmed, idempotent success", result.ID)
	} else {
		uc.logger.Info("ConfirmReservation: confirmed booking id=%d", result.ID)
		// 4. Публикуем событие (fire-and-forget)
		uc.publishConfirmed(result)
	}

	return &Response{
		BookingID:        result.ID,
		CarwashID:        result.CarwashID,
		UserID:           result.UserID,
		BookingDate:      result.BookingDate,
		StartTime:        result.StartTime,
		DurationMinutes:  result.DurationMinutes,
		Status:           string(result.Status),
		AlreadyConfirmed: alreadyConfirmed,
		ServiceNames:     result.ServiceNames,
		TotalPrice:       result.TotalPrice,
		DemandMultiplier: result.DemandMultiplier,
		ConfirmedAt:      now,
	}, nil
}

// publishConfirmed публикует событие booking.confirmed
func (uc *UseCase) publishConfirmed(b *domain.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	event := events.BookingEvent{
		Type:        events.EventBookingConfirmed,
		BookingID:   b.ID,
		CarwashID:   b.CarwashID,
		UserID:      b.UserID,
		BookingDate: b.BookingDate.Format(domain.DateFormat),
		StartTime:   b.StartTime.String(),
		OccurredAt:  time.Now(),
	}
	if err := uc.publisher.PublishBookingEvent(ctx, event); err != nil {
		uc.logger.Warn("ConfirmReservation: failed to publish %s for booking %d: %v", event.Type, b.ID, err)
	}
}
