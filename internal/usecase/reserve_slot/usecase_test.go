package reserve_slot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
	"github.com/m04kA/CWB-ReservationService/internal/infra/events"
	"github.com/m04kA/CWB-ReservationService/internal/infra/lockstore"
	bookingRepo "github.com/m04kA/CWB-ReservationService/internal/infra/storage/booking"
	"github.com/m04kA/CWB-ReservationService/internal/integrations/partnerservice"
	"github.com/m04kA/CWB-ReservationService/internal/integrations/userservice"
	"github.com/m04kA/CWB-ReservationService/pkg/ptr"
	"github.com/m04kA/CWB-ReservationService/pkg/types"
)

type stubBookingRepo struct {
	createFunc       func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	getOccupyingFunc func(ctx context.Context, carwashID int64, date, now time.Time) ([]*domain.Booking, error)

	created *domain.Booking
}

func (s *stubBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s.created = booking
	if s.createFunc != nil {
		return s.createFunc(ctx, booking)
	}
	out := *booking
	out.ID = 1001
	return &out, nil
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

type stubUserClient struct {
	car *userservice.Car
	err error
}

func (s *stubUserClient) GetSelectedCarWithGracefulDegradation(ctx context.Context, userID int64) (*userservice.Car, error) {
	return s.car, s.err
}

type stubLocker struct {
	acquireErr error

	acquired  []string
	released  []string
	lockToken string
}

func (s *stubLocker) AcquireWait(ctx context.Context, key string, ttl, waitTimeout, retryInterval time.Duration) (string, error) {
	if s.acquireErr != nil {
		return "", s.acquireErr
	}
	s.acquired = append(s.acquired, key)
	if s.lockToken == "" {
		s.lockToken = "lock-token"
	}
	return s.lockToken, nil
}

func (s *stubLocker) Release(ctx context.Context, key, token string) error {
	s.released = append(s.released, key)
	return nil
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

type stubPublisher struct {
	events []events.BookingEvent
	err    error
}

func (s *stubPublisher) PublishBookingEvent(ctx context.Context, event events.BookingEvent) error {
	s.events = append(s.events, event)
	return s.err
}

type stubTxManager struct{}

func (stubTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubMetrics struct {
	outcomes  []string
	lockWaits int
}

func (s *stubMetrics) IncReservationOutcome(outcome string) {
	s.outcomes = append(s.outcomes, outcome)
}

func (s *stubMetrics) ObserveLockWait(seconds float64) {
	s.lockWaits++
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

func testService(id int64, duration int, price float64) *partnerservice.WashService {
	return &partnerservice.WashService{
		ID:              id,
		CarwashID:       1,
		Name:            "Мойка кузова",
		DurationMinutes: duration,
		Price:           &price,
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

func testSettings() Settings {
	return Settings{
		LockTTL:           3 * time.Second,
		LockWaitTimeout:   time.Second,
		LockRetryInterval: 50 * time.Millisecond,
		HoldTTL:           10 * time.Minute,
	}
}

type testEnv struct {
	bookingRepo *stubBookingRepo
	configRepo  *stubConfigRepo
	partner     *stubPartner
	userClient  *stubUserClient
	locker      *stubLocker
	pricing     *stubPricing
	publisher   *stubPublisher
	metrics     *stubMetrics
	now         time.Time
}

func newTestEnv() *testEnv {
	return &testEnv{
		bookingRepo: &stubBookingRepo{},
		configRepo:  &stubConfigRepo{config: testConfig(1)},
		partner:     &stubPartner{carwash: testCarwash(), services: []*partnerservice.WashService{testService(10, 60, 500)}},
		userClient:  &stubUserClient{},
		locker:      &stubLocker{},
		pricing:     &stubPricing{},
		publisher:   &stubPublisher{},
		metrics:     &stubMetrics{},
		now:         time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (e *testEnv) useCase() *UseCase {
	return &UseCase{
		bookingRepo:  e.bookingRepo,
		configRepo:   e.configRepo,
		partner:      e.partner,
		userClient:   e.userClient,
		locker:       e.locker,
		pricing:      e.pricing,
		publisher:    e.publisher,
		txManager:    stubTxManager{},
		metrics:      e.metrics,
		settings:     testSettings(),
		timeProvider: &fixedTime{now: e.now},
		logger:       nopLogger{},
	}
}

func validRequest() *Request {
	return &Request{
		UserID:     7,
		CarwashID:  1,
		ServiceIDs: []int64{10},
		Date:       time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		StartTime:  "10:00",
	}
}

func TestExecute_ReservesSlot(t *testing.T) {
	env := newTestEnv()
	uc := env.useCase()

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(1001), resp.BookingID)
	assert.Equal(t, types.TimeString("10:00"), resp.StartTime)
	assert.Equal(t, types.TimeString("11:00"), resp.EndTime)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, env.now.Add(10*time.Minute), resp.ExpiresAt)
	assert.Equal(t, 600, resp.TTLSeconds)
	assert.Equal(t, 500.0, resp.TotalPrice)

	// Создано tentative-бронирование с токеном и hold
	created := env.bookingRepo.created
	require.NotNil(t, created)
	assert.Equal(t, domain.StatusTentative, created.Status)
	require.NotNil(t, created.ReservationToken)
	assert.Equal(t, resp.Token, *created.ReservationToken)
	require.NotNil(t, created.HoldExpiresAt)
	assert.Equal(t, resp.ExpiresAt, *created.HoldExpiresAt)

	// Блокировка захвачена и освобождена
	require.Len(t, env.locker.acquired, 1)
	assert.Equal(t, env.locker.acquired, env.locker.released)
	assert.Equal(t, lockstore.Key(1, validRequest().Date, "10:00"), env.locker.acquired[0])

	assert.Equal(t, []string{outcomeReserved}, env.metrics.outcomes)
	assert.Equal(t, 1, env.metrics.lockWaits)

	// Событие booking.reserved опубликовано
	require.Len(t, env.publisher.events, 1)
	assert.Equal(t, events.EventBookingReserved, env.publisher.events[0].Type)
	assert.Equal(t, int64(1001), env.publisher.events[0].BookingID)
}

func TestExecute_SlotTakenReturnsAlternatives(t *testing.T) {
	env := newTestEnv()
	live := env.now.Add(5 * time.Minute)
	env.bookingRepo.getOccupyingFunc = func(ctx context.Context, carwashID int64, date, now time.Time) ([]*domain.Booking, error) {
		return []*domain.Booking{
			{
				ID:               100,
				StartTime:        "10:00",
				DurationMinutes:  60,
				RequiredCapacity: 1,
				Status:           domain.StatusTentative,
				HoldExpiresAt:    &live,
			},
		}, nil
	}
	uc := env.useCase()

	resp, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotTaken)
	require.NotNil(t, resp)
	require.NotEmpty(t, resp.Alternatives)

	// Ближайшие свободные слоты: 09:00 и 11:00, запрошенный 10:00 исключен
	starts := make([]types.TimeString, 0, len(resp.Alternatives))
	for _, alt := range resp.Alternatives {
		starts = append(starts, alt.StartTime)
		assert.NotEqual(t, types.TimeString("10:00"), alt.StartTime)
	}
	assert.ElementsMatch(t, []types.TimeString{"09:00", "11:00"}, starts)

	assert.Equal(t, []string{outcomeSlotTaken}, env.metrics.outcomes)
	// Блокировка всё равно освобождается
	assert.Equal(t, env.locker.acquired, env.locker.released)
}

func TestExecute_LockContention(t *testing.T) {
	env := newTestEnv()
	env.locker.acquireErr = lockstore.ErrLockBusy
	uc := env.useCase()

	resp, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotContended)
	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.Alternatives)
	assert.Equal(t, []string{outcomeSlotContended}, env.metrics.outcomes)
	assert.Nil(t, env.bookingRepo.created)
}

func TestExecute_LockStoreUnavailable(t *testing.T) {
	env := newTestEnv()
	env.locker.acquireErr = lockstore.ErrStoreUnavailable
	uc := env.useCase()

	resp, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Nil(t, resp)
	assert.Equal(t, []string{outcomeStoreUnavailable}, env.metrics.outcomes)
	assert.Nil(t, env.bookingRepo.created)
}

func TestExecute_DuplicateSlotInsuranceMapsToSlotTaken(t *testing.T) {
	env := newTestEnv()
	env.bookingRepo.createFunc = func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
		return nil, bookingRepo.ErrDuplicateSlot
	}
	uc := env.useCase()

	resp, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotTaken)
	require.NotNil(t, resp)
	assert.Equal(t, []string{outcomeSlotTaken}, env.metrics.outcomes)
}

func TestExecute_CapacityWeighting(t *testing.T) {
	env := newTestEnv()
	env.configRepo.config = testConfig(2)
	live := env.now.Add(5 * time.Minute)
	env.bookingRepo.getOccupyingFunc = func(ctx context.Context, carwashID int64, date, now time.Time) ([]*domain.Booking, error) {
		return []*domain.Booking{
			{
				ID:               100,
				StartTime:        "10:00",
				DurationMinutes:  60,
				RequiredCapacity: 1,
				Status:           domain.StatusTentative,
				HoldExpiresAt:    &live,
			},
		}, nil
	}
	uc := env.useCase()

	// Второй пост свободен: при capacity=2 слот резервируется
	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestExecute_DemandMultiplierAppliedToPrice(t *testing.T) {
	env := newTestEnv()
	env.pricing.multiplier = 1.5
	uc := env.useCase()

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, 750.0, resp.TotalPrice)
	assert.Equal(t, 1.5, resp.DemandMultiplier)
}

func TestExecute_UserServiceDegradation(t *testing.T) {
	env := newTestEnv()
	env.userClient.err = errors.New("userservice: connection refused")
	uc := env.useCase()

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Nil(t, env.bookingRepo.created.CarBrand)
	assert.Nil(t, env.bookingRepo.created.CarModel)
}

func TestExecute_SelectedCarDenormalized(t *testing.T) {
	env := newTestEnv()
	env.userClient.car = &userservice.Car{
		Brand:        "Lada",
		Model:        "Vesta",
		LicensePlate: "А123БВ77",
	}
	uc := env.useCase()

	_, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	require.NotNil(t, env.bookingRepo.created.CarBrand)
	assert.Equal(t, "Lada", *env.bookingRepo.created.CarBrand)
	assert.Equal(t, "Vesta", *env.bookingRepo.created.CarModel)
}

func TestExecute_ValidationRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(env *testEnv, req *Request)
		wantErr error
	}{
		{
			name: "слот вне рабочих часов",
			mutate: func(env *testEnv, req *Request) {
				req.StartTime = "08:00"
			},
			wantErr: ErrInvalidTimeSlot,
		},
		{
			name: "слот не выровнен по сетке",
			mutate: func(env *testEnv, req *Request) {
				req.StartTime = "10:15"
			},
			wantErr: ErrInvalidTimeSlot,
		},
		{
			name: "слот не помещается до закрытия",
			mutate: func(env *testEnv, req *Request) {
				req.StartTime = "11:30"
			},
			wantErr: ErrInvalidTimeSlot,
		},
		{
			name: "слишком поздно для сегодняшнего слота",
			mutate: func(env *testEnv, req *Request) {
				env.now = time.Date(2026, 9, 2, 9, 30, 0, 0, time.UTC)
				req.StartTime = "10:00"
			},
			wantErr: ErrTooLateToBook,
		},
		{
			name: "дата в прошлом",
			mutate: func(env *testEnv, req *Request) {
				req.Date = time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
			},
			wantErr: ErrInvalidDate,
		},
		{
			name: "дата за пределами advance booking",
			mutate: func(env *testEnv, req *Request) {
				req.Date = time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
			},
			wantErr: ErrDateTooFarInFuture,
		},
		{
			name: "пустой набор услуг",
			mutate: func(env *testEnv, req *Request) {
				req.ServiceIDs = nil
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			req := validRequest()
			tt.mutate(env, req)

			resp, err := env.useCase().Execute(context.Background(), req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, resp)
			assert.Equal(t, []string{outcomeRejected}, env.metrics.outcomes)
			assert.Nil(t, env.bookingRepo.created)
		})
	}
}

func TestExecute_ClosedDay(t *testing.T) {
	env := newTestEnv()
	env.partner.carwash.WorkingHours.Wednesday = partnerservice.DaySchedule{IsOpen: false}
	uc := env.useCase()

	// 2026-09-02 - среда
	resp, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrCarwashClosed)
	assert.Nil(t, resp)
}

func TestExecute_CarwashNotFound(t *testing.T) {
	env := newTestEnv()
	env.partner.carwash = nil
	env.partner.carwashErr = partnerservice.ErrCarwashNotFound
	uc := env.useCase()

	resp, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrCarwashNotFound)
	assert.Nil(t, resp)
}

func TestNearestAlternatives_OrderedByDistance(t *testing.T) {
	working := domain.TimeWindow{Start: "09:00", End: "14:00"}

	// Занят только запрошенный 11:00
	busy := []busyInterval{
		{window: domain.TimeWindow{Start: "11:00", End: "12:00"}, units: 1},
	}

	alts := nearestAlternatives("11:00", working, 60, 60, busy, 1, 1, 3)

	require.Len(t, alts, 3)
	assert.Equal(t, types.TimeString("10:00"), alts[0].StartTime)
	assert.Equal(t, types.TimeString("12:00"), alts[1].StartTime)
	assert.Equal(t, types.TimeString("09:00"), alts[2].StartTime)
}

func TestNearestAlternatives_SkipsOccupied(t *testing.T) {
	working := domain.TimeWindow{Start: "09:00", End: "12:00"}

	busy := []busyInterval{
		{window: domain.TimeWindow{Start: "10:00", End: "11:00"}, units: 1},
		{window: domain.TimeWindow{Start: "11:00", End: "12:00"}, units: 1},
	}

	alts := nearestAlternatives("10:00", working, 60, 60, busy, 1, 1, 3)

	require.Len(t, alts, 1)
	assert.Equal(t, types.TimeString("09:00"), alts[0].StartTime)
}
