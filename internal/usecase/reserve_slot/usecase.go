package reserve_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
	"github.com/m04kA/CWB-ReservationService/internal/infra/events"
	"github.com/m04kA/CWB-ReservationService/internal/infra/lockstore"
	bookingRepo "github.com/m04kA/CWB-ReservationService/internal/infra/storage/booking"
	configRepo "github.com/m04kA/CWB-ReservationService/internal/infra/storage/config"
	partnerClient "github.com/m04kA/CWB-ReservationService/internal/integrations/partnerservice"
)

// Итоги резервирования для метрики reservation_attempts_total
const (
	outcomeReserved         = "reserved"
	outcomeSlotTaken        = "slot_taken"
	outcomeSlotContended    = "slot_contended"
	outcomeStoreUnavailable = "store_unavailable"
	outcomeRejected         = "rejected"
	outcomeInternalError    = "internal_error"
)

// alternativesLimit сколько альтернативных слотов предлагать при отказе
const alternativesLimit = 3

// Settings параметры механизма резервирования
type Settings struct {
	// LockTTL TTL распределенной блокировки слота
	LockTTL time.Duration
	// LockWaitTimeout ограничение ожидания блокировки на стороне клиента
	LockWaitTimeout time.Duration
	// LockRetryInterval пауза между попытками захвата блокировки
	LockRetryInterval time.Duration
	// HoldTTL время жизни tentative-бронирования до подтверждения
	HoldTTL time.Duration
}

// UseCase use case резервирования слота
//
// Критическая секция "перепроверка конфликтов -> вставка tentative" выполняется
// под распределенной блокировкой слота и в сериализуемой транзакции: блокировка
// сериализует конкурентов между процессами, транзакция — страховка внутри БД
type UseCase struct {
	bookingRepo  BookingRepository
	configRepo   ConfigRepository
	partner      PartnerServiceClient
	userClient   UserServiceClient
	locker       SlotLocker
	pricing      PricingService
	publisher    EventPublisher
	txManager    TransactionManager
	metrics      MetricsCollector
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	partner PartnerServiceClient,
	userClient UserServiceClient,
	locker SlotLocker,
	pricing PricingService,
	publisher EventPublisher,
	txManager TransactionManager,
	metrics MetricsCollector,
	settings Settings,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		configRepo:   configRepo,
		partner:      partner,
		userClient:   userClient,
		locker:       locker,
		pricing:      pricing,
		publisher:    publisher,
		txManager:    txManager,
		metrics:      metrics,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case резервирования слота
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveSlot: user=%d, carwash=%d, services=%v, date=%s, time=%s",
		req.UserID, req.CarwashID, req.ServiceIDs, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReserveSlot: validation failed: %v", err)
		uc.metrics.IncReservationOutcome(outcomeRejected)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем автомойку
	carwash, err := uc.partner.GetCarwash(ctx, req.CarwashID)
	if err != nil {
		if errors.Is(err, partnerClient.ErrCarwashNotFound) {
			uc.logger.Warn("ReserveSlot: carwash id=%d not found", req.CarwashID)
			uc.metrics.IncReservationOutcome(outcomeRejected)
			return nil, ErrCarwashNotFound
		}
		uc.logger.Error("ReserveSlot: failed to get carwash id=%d: %v", req.CarwashID, err)
		uc.metrics.IncReservationOutcome(outcomeInternalError)
		return nil, fmt.Errorf("%w: failed to get carwash: %v", ErrInternal, err)
	}

	// 4. Получаем услуги и проверяем их принадлежность автомойке
	services, err := uc.partner.GetServices(ctx, req.CarwashID, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, partnerClient.ErrServiceNotFound) {
			uc.logger.Warn("ReserveSlot: some of services %v not found", req.ServiceIDs)
			uc.metrics.IncReservationOutcome(outcomeRejected)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("ReserveSlot: failed to get services %v: %v", req.ServiceIDs, err)
		uc.metrics.IncReservationOutcome(outcomeInternalError)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}
	if err := validateServicesBelongToCarwash(services, req.CarwashID); err != nil {
		uc.logger.Warn("ReserveSlot: %v", err)
		uc.metrics.IncReservationOutcome(outcomeRejected)
		return nil, err
	}

	// 5. Получаем выбранный автомобиль пользователя
	// Graceful degradation: при недоступности UserService бронируем без данных авто
	car, err := uc.userClient.GetSelectedCarWithGracefulDegradation(ctx, req.UserID)
	if err != nil {
		uc.logger.Warn("ReserveSlot: failed to get selected car for user id=%d: %v", req.UserID, err)
		car = nil
	}

	// 6. Получаем конфигурацию слотов автомойки
	config, err := uc.configRepo.GetByCarwash(ctx, req.CarwashID)
	if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
		uc.logger.Error("ReserveSlot: failed to get config: %v", err)
		uc.metrics.IncReservationOutcome(outcomeInternalError)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}
	if config == nil {
		config = &domain.CarwashSlotConfig{
			CarwashID:               req.CarwashID,
			Capacity:                domain.DefaultCapacity,
			SlotStepMinutes:         domain.DefaultSlotStepMinutes,
			DurationPolicy:          domain.DefaultDurationPolicy,
			AdvanceBookingDays:      domain.DefaultAdvanceBookingDays,
			MinBookingNoticeMinutes: domain.DefaultMinBookingNoticeMinutes,
		}
		uc.logger.Info("ReserveSlot: using default config for carwash=%d", req.CarwashID)
	}

	// 7. Валидация даты и времени с учетом конфигурации
	if err := validateDate(req.Date, now, config.AdvanceBookingDays); err != nil {
		uc.logger.Warn("ReserveSlot: date validation failed: %v", err)
		uc.metrics.IncReservationOutcome(outcomeRejected)
		return nil, err
	}
	if err := validateBookingTime(req.Date, req.StartTime, now, config.MinBookingNoticeMinutes); err != nil {
		uc.logger.Warn("ReserveSlot: booking time validation failed: %v", err)
		uc.metrics.IncReservationOutcome(outcomeRejected)
		return nil, err
	}

	// 8. Рабочие часы на указанную дату
	working, open := workingWindow(resolveWorkingHours(carwash, req.Date))
	if !open {
		uc.logger.Warn("ReserveSlot: carwash id=%d is closed on %s", req.CarwashID, req.Date.Format(domain.DateFormat))
		uc.metrics.IncReservationOutcome(outcomeRejected)
		return nil, ErrCarwashClosed
	}

	// 9. Вычисляем окно слота и проверяем его против рабочих часов и сетки
	slotDuration := slotDurationFor(services, config.DurationPolicy)
	requiredCapacity := requiredCapacityFor(services)

	slotEnd, err := req.StartTime.AddMinutes(slotDuration)
	if err != nil {
		uc.logger.Warn("ReserveSlot: invalid slot end: %v", err)
		uc.metrics.IncReservationOutcome(outcomeRejected)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}
	slot := domain.TimeWindow{Start: req.StartTime, End: slotEnd}

	if err := validateSlotWindow(slot, working, config.SlotStepMinutes, slotDuration); err != nil {
		uc.logger.Warn("ReserveSlot: slot window validation failed: %v", err)
		uc.metrics.IncReservationOutcome(outcomeRejected)
		return nil, err
	}

	// 10. Захватываем распределенную блокировку слота с ограниченным ожиданием
	lockKey := lockstore.Key(req.CarwashID, req.Date, req.StartTime)
	lockWaitStart := time.Now()

	lockToken, err := uc.locker.AcquireWait(ctx, lockKey, uc.settings.LockTTL, uc.settings.LockWaitTimeout, uc.settings.LockRetryInterval)
	uc.metrics.ObserveLockWait(time.Since(lockWaitStart).Seconds())
	if err != nil {
		if errors.Is(err, lockstore.ErrLockBusy) {
			uc.logger.Warn("ReserveSlot: lock %s is contended", lockKey)
			uc.metrics.IncReservationOutcome(outcomeSlotContended)
			return uc.rejectionResponse(ctx, req, working, config, slotDuration, requiredCapacity, now), ErrSlotContended
		}
		uc.logger.Error("ReserveSlot: lock store unavailable: %v", err)
		uc.metrics.IncReservationOutcome(outcomeStoreUnavailable)
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := uc.locker.Release(releaseCtx, lockKey, lockToken); err != nil {
			uc.logger.Warn("ReserveSlot: failed to release lock %s: %v", lockKey, err)
		}
	}()

	// 11. Критическая секция: перепроверка конфликтов и вставка tentative
	reservationToken := uuid.NewString()
	holdExpiresAt := now.Add(uc.settings.HoldTTL)
	multiplier := uc.pricing.GetDemandMultiplier(ctx, req.CarwashID, req.Date, req.StartTime)

	var result *domain.Booking
	var busy []busyInterval

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 11.1. Занимающие слоты бронирования на дату, с блокировкой строк
		bookings, err := uc.bookingRepo.GetOccupyingForDate(txCtx, req.CarwashID, req.Date, now)
		if err != nil {
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		busy = busyIntervalsFrom(bookings, now)

		// 11.2. Проверяем, что свободных постов хватает на требуемую вместимость
		occupied := occupiedUnits(slot, busy)
		if config.Capacity-occupied < requiredCapacity {
			uc.logger.Warn("ReserveSlot: slot %s taken, occupied %d/%d, required %d",
				req.StartTime, occupied, config.Capacity, requiredCapacity)
			return ErrSlotTaken
		}

		// 11.3. Создаем tentative-бронирование с токеном и сроком hold
		booking := &domain.Booking{
			UserID:           req.UserID,
			CarwashID:        req.CarwashID,
			ServiceIDs:       req.ServiceIDs,
			BookingDate:      req.Date,
			StartTime:        req.StartTime,
			DurationMinutes:  slotDuration,
			RequiredCapacity: requiredCapacity,
			Status:           domain.StatusTentative,
			ReservationToken: &reservationToken,
			HoldExpiresAt:    &holdExpiresAt,
			ServiceNames:     serviceNamesFor(services),
			TotalPrice:       basePriceFor(services) * multiplier,
			DemandMultiplier: multiplier,
			Notes:            req.Notes,
		}
		if car != nil {
			booking.CarBrand = &car.Brand
			booking.CarModel = &car.Model
			booking.CarLicensePlate = &car.LicensePlate
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			// Уникальный индекс — страховка на случай отказа хранилища блокировок
			if errors.Is(err, bookingRepo.ErrDuplicateSlot) {
				return ErrSlotTaken
			}
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			uc.metrics.IncReservationOutcome(outcomeSlotTaken)
			resp := &Response{
				Alternatives: nearestAlternatives(req.StartTime, working, config.SlotStepMinutes, slotDuration, busy, config.Capacity, requiredCapacity, alternativesLimit),
			}
			return resp, ErrSlotTaken
		}
		uc.metrics.IncReservationOutcome(outcomeInternalError)
		return nil, err
	}

	uc.metrics.IncReservationOutcome(outcomeReserved)
	uc.logger.Info("ReserveSlot: reserved booking id=%d, token expires at %s",
		result.ID, holdExpiresAt.Format(time.RFC3339))

	// 12. Публикуем событие (fire-and-forget: сбой не откатывает резервирование)
	uc.publishReserved(result)

	issued := domain.ReservationToken{
		Token:           reservationToken,
		BookingID:       result.ID,
		CarwashID:       result.CarwashID,
		SlotStart:       result.StartTime,
		SlotEnd:         slotEnd,
		BookingDate:     result.BookingDate,
		IssuedAt:        now,
		ExpiresAt:       holdExpiresAt,
		DurationMinutes: result.DurationMinutes,
	}

	return &Response{
		Token:            issued.Token,
		BookingID:        issued.BookingID,
		CarwashID:        issued.CarwashID,
		UserID:           result.UserID,
		BookingDate:      issued.BookingDate,
		StartTime:        issued.SlotStart,
		EndTime:          issued.SlotEnd,
		DurationMinutes:  issued.DurationMinutes,
		RequiredCapacity: result.RequiredCapacity,
		ExpiresAt:        issued.ExpiresAt,
		TTLSeconds:       int(issued.TTL(now).Seconds()),
		TotalPrice:       result.TotalPrice,
		DemandMultiplier: result.DemandMultiplier,
		ServiceNames:     result.ServiceNames,
	}, nil
}

// rejectionResponse собирает ответ с альтернативами для отказа без транзакции
// Доступность оценивается по снимку бронирований без блокировок — best effort
func (uc *UseCase) rejectionResponse(
	ctx context.Context,
	req *Request,
	working domain.TimeWindow,
	config *domain.CarwashSlotConfig,
	slotDuration int,
	requiredCapacity int,
	now time.Time,
) *Response {
	bookings, err := uc.bookingRepo.GetOccupyingForDate(ctx, req.CarwashID, req.Date, now)
	if err != nil {
		uc.logger.Warn("ReserveSlot: failed to load bookings for alternatives: %v", err)
		return &Response{Alternatives: []domain.SlotCandidate{}}
	}
	busy := busyIntervalsFrom(bookings, now)
	return &Response{
		Alternatives: nearestAlternatives(req.StartTime, working, config.SlotStepMinutes, slotDuration, busy, config.Capacity, requiredCapacity, alternativesLimit),
	}
}

// publishReserved публикует событие booking.reserved
func (uc *UseCase) publishReserved(b *domain.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	event := events.BookingEvent{
		Type:        events.EventBookingReserved,
		BookingID:   b.ID,
		CarwashID:   b.CarwashID,
		UserID:      b.UserID,
		BookingDate: b.BookingDate.Format(domain.DateFormat),
		StartTime:   b.StartTime.String(),
		OccurredAt:  time.Now(),
	}
	if err := uc.publisher.PublishBookingEvent(ctx, event); err != nil {
		uc.logger.Warn("ReserveSlot: failed to publish %s for booking %d: %v", event.Type, b.ID, err)
	}
}
