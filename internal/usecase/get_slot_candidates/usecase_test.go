package get_slot_candidates

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
	"github.com/m04kA/CWB-ReservationService/internal/integrations/partnerservice"
	"github.com/m04kA/CWB-ReservationService/pkg/ptr"
	"github.com/m04kA/CWB-ReservationService/pkg/types"
)

type stubBookingRepo struct {
	getOccupyingFunc func(ctx context.Context, carwashID int64, date, now time.Time) ([]*domain.Booking, error)
}

func (s *stubBookingRepo) GetOccupyingForDate(ctx context.Context, carwashID int64, date, now time.Time) ([]*domain.Booking, error) {
	if s.getOccupyingFunc != nil {
		return s.getOccupyingFunc(ctx, carwashID, date, now)
	}
	return nil, nil
}

type stubConfigRepo struct {
	config *domain.CarwashSlotConfig
	err    error
}

func (s *stubConfigRepo) GetByCarwash(ctx context.Context, carwashID int64) (*domain.CarwashSlotConfig, error) {
	return s.config, s.err
}

type stubPartner struct {
	carwash     *partnerservice.Carwash
	carwashErr  error
	services    []*partnerservice.WashService
	servicesErr error
}

func (s *stubPartner) GetCarwash(ctx context.Context, carwashID int64) (*partnerservice.Carwash, error) {
	return s.carwash, s.carwashErr
}

func (s *stubPartner) GetServices(ctx context.Context, carwashID int64, serviceIDs []int64) ([]*partnerservice.WashService, error) {
	return s.services, s.servicesErr
}

type stubPricing struct {
	multiplier float64
}

func (s *stubPricing) GetDemandMultiplier(ctx context.Context, carwashID int64, date time.Time, slotStart types.TimeString) float64 {
	if s.multiplier == 0 {
		return 1.0
	}
	return s.multiplier
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func openDay(open, close string) partnerservice.DaySchedule {
	return partnerservice.DaySchedule{IsOpen: true, OpenTime: ptr.Ptr(open), CloseTime: ptr.Ptr(close)}
}

// testCarwash автомойка, работающая каждый день с 09:00 до 12:00
func testCarwash() *partnerservice.Carwash {
	day := openDay("09:00", "12:00")
	return &partnerservice.Carwash{
		ID:       1,
		Name:     "Чистый кузов",
		IsActive: true,
		WorkingHours: partnerservice.WorkingHours{
			Monday:    day,
			Tuesday:   day,
			Wednesday: day,
			Thursday:  day,
			Friday:    day,
			Saturday:  day,
			Sunday:    day,
		},
	}
}

func testService(id int64, duration int) *partnerservice.WashService {
	return &partnerservice.WashService{
		ID:              id,
		CarwashID:       1,
		Name:            "Мойка кузова",
		DurationMinutes: duration,
		ResourceUnits:   1,
	}
}

func testConfig(capacity int) *domain.CarwashSlotConfig {
	return &domain.CarwashSlotConfig{
		CarwashID:               1,
		Capacity:                capacity,
		SlotStepMinutes:         60,
		DurationPolicy:          domain.PolicySum,
		AdvanceBookingDays:      14,
		MinBookingNoticeMinutes: 60,
	}
}

func newTestUseCase(
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	partner PartnerServiceClient,
	now time.Time,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		configRepo:   configRepo,
		partner:      partner,
		pricing:      &stubPricing{},
		timeProvider: &fixedTime{now: now},
		logger:       nopLogger{},
	}
}

func TestExecute_SlicesWorkingWindowIntoCandidates(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&stubBookingRepo{},
		&stubConfigRepo{config: testConfig(1)},
		&stubPartner{carwash: testCarwash(), services: []*partnerservice.WashService{testService(10, 60)}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID:     7,
		CarwashID:  1,
		ServiceIDs: []int64{10},
		Date:       date,
	})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)
	assert.False(t, resp.Closed)
	assert.Equal(t, 60, resp.SlotDurationMinutes)
	assert.Equal(t, 1, resp.RequiredCapacity)

	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("10:00"), resp.Slots[1].StartTime)
	assert.Equal(t, types.TimeString("11:00"), resp.Slots[2].StartTime)
	for _, slot := range resp.Slots {
		assert.True(t, slot.IsAvailable())
		assert.Equal(t, 1.0, slot.DemandMultiplier)
	}
}

func TestExecute_OccupiedSlotMarkedFullyBooked(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	bookingRepo := &stubBookingRepo{
		getOccupyingFunc: func(ctx context.Context, carwashID int64, d, n time.Time) ([]*domain.Booking, error) {
			return []*domain.Booking{
				{
					ID:               100,
					CarwashID:        1,
					StartTime:        "10:00",
					DurationMinutes:  60,
					RequiredCapacity: 1,
					Status:           domain.StatusConfirmed,
				},
			}, nil
		},
	}

	uc := newTestUseCase(
		bookingRepo,
		&stubConfigRepo{config: testConfig(1)},
		&stubPartner{carwash: testCarwash(), services: []*partnerservice.WashService{testService(10, 60)}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID:     7,
		CarwashID:  1,
		ServiceIDs: []int64{10},
		Date:       date,
	})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)

	assert.True(t, resp.Slots[0].IsAvailable())
	assert.Equal(t, domain.ReasonFullyBooked, resp.Slots[1].Reason)
	assert.Equal(t, 0, resp.Slots[1].AvailableSpots)
	assert.True(t, resp.Slots[2].IsAvailable())
}

func TestExecute_CapacityWeighting(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	// Два поста, один занят на 10:00 - слот остаётся доступным
	bookingRepo := &stubBookingRepo{
		getOccupyingFunc: func(ctx context.Context, carwashID int64, d, n time.Time) ([]*domain.Booking, error) {
			return []*domain.Booking{
				{
					ID:               100,
					StartTime:        "10:00",
					DurationMinutes:  60,
					RequiredCapacity: 1,
					Status:           domain.StatusConfirmed,
				},
			}, nil
		},
	}

	uc := newTestUseCase(
		bookingRepo,
		&stubConfigRepo{config: testConfig(2)},
		&stubPartner{carwash: testCarwash(), services: []*partnerservice.WashService{testService(10, 60)}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID:     7,
		CarwashID:  1,
		ServiceIDs: []int64{10},
		Date:       date,
	})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)

	assert.True(t, resp.Slots[1].IsAvailable())
	assert.Equal(t, 1, resp.Slots[1].AvailableSpots)
	assert.Equal(t, 2, resp.Slots[1].TotalSpots)
	assert.True(t, resp.Slots[1].IsPartiallyAvailable())
}

func TestExecute_ExpiredTentativeDoesNotOccupy(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	expired := now.Add(-time.Minute)

	bookingRepo := &stubBookingRepo{
		getOccupyingFunc: func(ctx context.Context, carwashID int64, d, n time.Time) ([]*domain.Booking, error) {
			return []*domain.Booking{
				{
					ID:               100,
					StartTime:        "10:00",
					DurationMinutes:  60,
					RequiredCapacity: 1,
					Status:           domain.StatusTentative,
					HoldExpiresAt:    &expired,
				},
			}, nil
		},
	}

	uc := newTestUseCase(
		bookingRepo,
		&stubConfigRepo{config: testConfig(1)},
		&stubPartner{carwash: testCarwash(), services: []*partnerservice.WashService{testService(10, 60)}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID:     7,
		CarwashID:  1,
		ServiceIDs: []int64{10},
		Date:       date,
	})

	require.NoError(t, err)
	for _, slot := range resp.Slots {
		assert.True(t, slot.IsAvailable(), "slot %s should be free", slot.StartTime)
	}
}

func TestExecute_LiveTentativeOccupies(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	live := now.Add(5 * time.Minute)

	bookingRepo := &stubBookingRepo{
		getOccupyingFunc: func(ctx context.Context, carwashID int64, d, n time.Time) ([]*domain.Booking, error) {
			return []*domain.Booking{
				{
					ID:               100,
					StartTime:        "09:00",
					DurationMinutes:  60,
					RequiredCapacity: 1,
					Status:           domain.StatusTentative,
					HoldExpiresAt:    &live,
				},
			}, nil
		},
	}

	uc := newTestUseCase(
		bookingRepo,
		&stubConfigRepo{config: testConfig(1)},
		&stubPartner{carwash: testCarwash(), services: []*partnerservice.WashService{testService(10, 60)}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID:     7,
		CarwashID:  1,
		ServiceIDs: []int64{10},
		Date:       date,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ReasonFullyBooked, resp.Slots[0].Reason)
}

func TestExecute_ClosedDayReturnsNextOpenDate(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	// 2026-09-06 - воскресенье
	sunday := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)

	carwash := testCarwash()
	carwash.WorkingHours.Sunday = partnerservice.DaySchedule{IsOpen: false}

	uc := newTestUseCase(
		&stubBookingRepo{},
		&stubConfigRepo{config: testConfig(1)},
		&stubPartner{carwash: carwash, services: []*partnerservice.WashService{testService(10, 60)}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID:     7,
		CarwashID:  1,
		ServiceIDs: []int64{10},
		Date:       sunday,
	})

	require.NoError(t, err)
	assert.True(t, resp.Closed)
	assert.Empty(t, resp.Slots)
	require.NotNil(t, resp.NextOpenDate)
	assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), *resp.NextOpenDate)
}

func TestExecute_SameDayNoticeMarksSlotsTooSoon(t *testing.T) {
	// Сегодня 09:30, notice 60 минут: слоты 09:00 и 10:00 недоступны
	now := time.Date(2026, 9, 2, 9, 30, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&stubBookingRepo{},
		&stubConfigRepo{config: testConfig(1)},
		&stubPartner{carwash: testCarwash(), services: []*partnerservice.WashService{testService(10, 60)}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID:     7,
		CarwashID:  1,
		ServiceIDs: []int64{10},
		Date:       date,
	})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, domain.ReasonTooSoon, resp.Slots[0].Reason)
	assert.Equal(t, domain.ReasonTooSoon, resp.Slots[1].Reason)
	assert.True(t, resp.Slots[2].IsAvailable())
}

func TestExecute_DurationPolicyMax(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	config := testConfig(2)
	config.DurationPolicy = domain.PolicyMax

	services := []*partnerservice.WashService{
		testService(10, 30),
		testService(11, 45),
	}
	services[1].ResourceUnits = 2

	uc := newTestUseCase(
		&stubBookingRepo{},
		&stubConfigRepo{config: config},
		&stubPartner{carwash: testCarwash(), services: services},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID:     7,
		CarwashID:  1,
		ServiceIDs: []int64{10, 11},
		Date:       date,
	})

	require.NoError(t, err)
	assert.Equal(t, 45, resp.SlotDurationMinutes)
	assert.Equal(t, 2, resp.RequiredCapacity)
}

func TestExecute_CarwashNotFound(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&stubBookingRepo{},
		&stubConfigRepo{config: testConfig(1)},
		&stubPartner{carwashErr: partnerservice.ErrCarwashNotFound},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     7,
		CarwashID:  999,
		ServiceIDs: []int64{10},
		Date:       time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, ErrCarwashNotFound)
}

func TestExecute_ServiceFromAnotherCarwash(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	foreign := testService(10, 60)
	foreign.CarwashID = 2

	uc := newTestUseCase(
		&stubBookingRepo{},
		&stubConfigRepo{config: testConfig(1)},
		&stubPartner{carwash: testCarwash(), services: []*partnerservice.WashService{foreign}},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     7,
		CarwashID:  1,
		ServiceIDs: []int64{10},
		Date:       time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, ErrServiceWrongCarwash)
}

func TestExecute_DateInPast(t *testing.T) {
	now := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&stubBookingRepo{},
		&stubConfigRepo{config: testConfig(1)},
		&stubPartner{carwash: testCarwash(), services: []*partnerservice.WashService{testService(10, 60)}},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     7,
		CarwashID:  1,
		ServiceIDs: []int64{10},
		Date:       time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_DateTooFarInFuture(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&stubBookingRepo{},
		&stubConfigRepo{config: testConfig(1)},
		&stubPartner{carwash: testCarwash(), services: []*partnerservice.WashService{testService(10, 60)}},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     7,
		CarwashID:  1,
		ServiceIDs: []int64{10},
		Date:       time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}
