package get_slot_candidates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
	configRepo "github.com/m04kA/CWB-ReservationService/internal/infra/storage/config"
	partnerClient "github.com/m04kA/CWB-ReservationService/internal/integrations/partnerservice"
)

// UseCase use case для получения слотов-кандидатов
type UseCase struct {
	bookingRepo  BookingRepository
	configRepo   ConfigRepository
	partner      PartnerServiceClient
	pricing      PricingService
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	partner PartnerServiceClient,
	pricing PricingService,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		configRepo:   configRepo,
		partner:      partner,
		pricing:      pricing,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения слотов-кандидатов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetSlotCandidates: user=%d, carwash=%d, services=%v, date=%s",
		req.UserID, req.CarwashID, req.ServiceIDs, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetSlotCandidates: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем автомойку
	carwash, err := uc.partner.GetCarwash(ctx, req.CarwashID)
	if err != nil {
		if errors.Is(err, partnerClient.ErrCarwashNotFound) {
			uc.logger.Warn("GetSlotCandidates: carwash id=%d not found", req.CarwashID)
			return nil, ErrCarwashNotFound
		}
		uc.logger.Error("GetSlotCandidates: failed to get carwash id=%d: %v", req.CarwashID, err)
		return nil, fmt.Errorf("%w: failed to get carwash: %v", ErrInternal, err)
	}

	// 4. Получаем услуги и проверяем их принадлежность автомойке
	services, err := uc.partner.GetServices(ctx, req.CarwashID, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, partnerClient.ErrServiceNotFound) {
			uc.logger.Warn("GetSlotCandidates: some of services %v not found", req.ServiceIDs)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetSlotCandidates: failed to get services %v: %v", req.ServiceIDs, err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}
	if err := validateServicesBelongToCarwash(services, req.CarwashID); err != nil {
		uc.logger.Warn("GetSlotCandidates: %v", err)
		return nil, err
	}

	// 5. Получаем конфигурацию слотов автомойки
	config, err := uc.configRepo.GetByCarwash(ctx, req.CarwashID)
	if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
		uc.logger.Error("GetSlotCandidates: failed to get config: %v", err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}

	// Если конфигурация не найдена, используем дефолтные значения
	if config == nil {
		config = &domain.CarwashSlotConfig{
			CarwashID:               req.CarwashID,
			Capacity:                domain.DefaultCapacity,
			SlotStepMinutes:         domain.DefaultSlotStepMinutes,
			DurationPolicy:          domain.DefaultDurationPolicy,
			AdvanceBookingDays:      domain.DefaultAdvanceBookingDays,
			MinBookingNoticeMinutes: domain.DefaultMinBookingNoticeMinutes,
		}
		uc.logger.Info("GetSlotCandidates: using default config for carwash=%d", req.CarwashID)
	}

	// 6. Валидация даты с учетом конфигурации
	if err := validateDate(req.Date, now, config.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetSlotCandidates: date validation failed: %v", err)
		return nil, err
	}

	// 7. Длительность и требуемая вместимость для запрошенного набора услуг
	slotDuration := slotDurationFor(services, config.DurationPolicy)
	requiredCapacity := requiredCapacityFor(services)

	// 8. Рабочие часы на указанную дату; закрытый день — не ошибка
	window, open := workingWindow(resolveWorkingHours(carwash, req.Date))
	if !open {
		next := nextOpenDate(carwash, req.Date)
		uc.logger.Info("GetSlotCandidates: carwash id=%d is closed on %s", req.CarwashID, req.Date.Format(domain.DateFormat))
		return &Response{
			Date:                req.Date,
			CarwashID:           req.CarwashID,
			ServiceIDs:          req.ServiceIDs,
			Closed:              true,
			NextOpenDate:        next,
			SlotDurationMinutes: slotDuration,
			RequiredCapacity:    requiredCapacity,
			Slots:               []domain.SlotCandidate{},
		}, nil
	}

	// 9. Нарезаем рабочее окно на кандидатов
	windows := domain.SliceWindow(window.Start, window.End, slotDuration, config.SlotStepMinutes)

	// 10. Получаем занимающие слоты бронирования на эту дату
	// (подтвержденные и tentative с живым hold)
	bookings, err := uc.bookingRepo.GetOccupyingForDate(ctx, req.CarwashID, req.Date, now)
	if err != nil {
		uc.logger.Error("GetSlotCandidates: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 11. Вычисляем доступность каждого кандидата
	slots := uc.buildCandidates(ctx, req, windows, bookings, config, requiredCapacity, slotDuration, now)

	uc.logger.Info("GetSlotCandidates: generated %d candidates for carwash=%d, date=%s",
		len(slots), req.CarwashID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:                req.Date,
		CarwashID:           req.CarwashID,
		ServiceIDs:          req.ServiceIDs,
		SlotDurationMinutes: slotDuration,
		RequiredCapacity:    requiredCapacity,
		Slots:               slots,
	}, nil
}

// buildCandidates вычисляет доступность каждого окна-кандидата
// Недоступные кандидаты не отбрасываются, а помечаются причиной
func (uc *UseCase) buildCandidates(
	ctx context.Context,
	req *Request,
	windows []domain.TimeWindow,
	bookings []*domain.Booking,
	config *domain.CarwashSlotConfig,
	requiredCapacity int,
	slotDuration int,
	now time.Time,
) []domain.SlotCandidate {
	busy := busyIntervalsFrom(bookings, now)
	minStart := minAllowedStart(req.Date, now, config.MinBookingNoticeMinutes)

	slots := make([]domain.SlotCandidate, 0, len(windows))
	for _, w := range windows {
		available := config.Capacity - occupiedUnits(w, busy)
		if available < 0 {
			available = 0
		}

		candidate := domain.SlotCandidate{
			StartTime:        w.Start,
			EndTime:          w.End,
			DurationMinutes:  slotDuration,
			AvailableSpots:   available,
			TotalSpots:       config.Capacity,
			DemandMultiplier: uc.pricing.GetDemandMultiplier(ctx, req.CarwashID, req.Date, w.Start),
		}

		switch {
		case minStart != nil && w.Start.IsBefore(*minStart):
			candidate.Reason = domain.ReasonTooSoon
		case available < requiredCapacity:
			candidate.Reason = domain.ReasonFullyBooked
		}

		slots = append(slots, candidate)
	}
	return slots
}
