package confirm_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
	"github.com/m04kA/CWB-ReservationService/internal/infra/events"
	bookingRepo "github.com/m04kA/CWB-ReservationService/internal/infra/storage/booking"
)

type stubBookingRepo struct {
	booking    *domain.Booking
	getErr     error
	updateErr  error
	newStatus  *domain.BookingStatus
	updateRuns int
}

func (s *stubBookingRepo) GetByToken(ctx context.Context, token string) (*domain.Booking, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.booking, nil
}

func (s *stubBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	s.updateRuns++
	if s.updateErr != nil {
		return s.updateErr
	}
	s.newStatus = &status
	return nil
}

type stubPublisher struct {
	events []events.BookingEvent
}

func (s *stubPublisher) PublishBookingEvent(ctx context.Context, event events.BookingEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubTxManager struct{}

func (stubTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func tentativeBooking(holdExpiresAt time.Time) *domain.Booking {
	token := "8400a0f2-24dc-43f0-a65a-4f81e375a014"
	return &domain.Booking{
		ID:               1001,
		UserID:           7,
		CarwashID:        1,
		BookingDate:      time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		StartTime:        "10:00",
		DurationMinutes:  60,
		RequiredCapacity: 1,
		Status:           domain.StatusTentative,
		ReservationToken: &token,
		HoldExpiresAt:    &holdExpiresAt,
		ServiceNames:     []string{"Мойка кузова"},
		TotalPrice:       500,
		DemandMultiplier: 1.0,
	}
}

func newTestUseCase(repo *stubBookingRepo, publisher *stubPublisher) *UseCase {
	return &UseCase{
		bookingRepo:  repo,
		publisher:    publisher,
		txManager:    stubTxManager{},
		timeProvider: &fixedTime{now: testNow},
		logger:       nopLogger{},
	}
}

func TestExecute_ConfirmsLiveHold(t *testing.T) {
	repo := &stubBookingRepo{booking: tentativeBooking(testNow.Add(5 * time.Minute))}
	publisher := &stubPublisher{}
	uc := newTestUseCase(repo, publisher)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 7,
		Token:  *repo.booking.ReservationToken,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1001), resp.BookingID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.False(t, resp.AlreadyConfirmed)
	assert.Equal(t, testNow, resp.ConfirmedAt)

	require.NotNil(t, repo.newStatus)
	assert.Equal(t, domain.StatusConfirmed, *repo.newStatus)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, events.EventBookingConfirmed, publisher.events[0].Type)
}

func TestExecute_SecondConfirmIsIdempotent(t *testing.T) {
	booking := tentativeBooking(testNow.Add(5 * time.Minute))
	booking.Status = domain.StatusConfirmed
	repo := &stubBookingRepo{booking: booking}
	publisher := &stubPublisher{}
	uc := newTestUseCase(repo, publisher)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 7,
		Token:  *booking.ReservationToken,
	})

	require.NoError(t, err)
	assert.True(t, resp.AlreadyConfirmed)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

	// Статус не перезаписывается, событие не публикуется повторно
	assert.Equal(t, 0, repo.updateRuns)
	assert.Empty(t, publisher.events)
}

func TestExecute_ExpiredHold(t *testing.T) {
	repo := &stubBookingRepo{booking: tentativeBooking(testNow.Add(-time.Minute))}
	uc := newTestUseCase(repo, &stubPublisher{})

	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 7,
		Token:  *repo.booking.ReservationToken,
	})

	assert.ErrorIs(t, err, ErrReservationExpired)
	assert.Nil(t, resp)
	assert.Equal(t, 0, repo.updateRuns)
}

func TestExecute_ExpiredStatus(t *testing.T) {
	booking := tentativeBooking(testNow.Add(-time.Hour))
	booking.Status = domain.StatusExpired
	repo := &stubBookingRepo{booking: booking}
	uc := newTestUseCase(repo, &stubPublisher{})

	_, err := uc.Execute(context.Background(), &Request{
		UserID: 7,
		Token:  *booking.ReservationToken,
	})

	assert.ErrorIs(t, err, ErrReservationExpired)
}

func TestExecute_CancelledBooking(t *testing.T) {
	booking := tentativeBooking(testNow.Add(5 * time.Minute))
	booking.Status = domain.StatusCancelledByUser
	repo := &stubBookingRepo{booking: booking}
	uc := newTestUseCase(repo, &stubPublisher{})

	_, err := uc.Execute(context.Background(), &Request{
		UserID: 7,
		Token:  *booking.ReservationToken,
	})

	assert.ErrorIs(t, err, ErrReservationCancelled)
}

func TestExecute_UnknownToken(t *testing.T) {
	repo := &stubBookingRepo{getErr: bookingRepo.ErrTokenNotFound}
	uc := newTestUseCase(repo, &stubPublisher{})

	_, err := uc.Execute(context.Background(), &Request{
		UserID: 7,
		Token:  "unknown-token",
	})

	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestExecute_ForeignToken(t *testing.T) {
	repo := &stubBookingRepo{booking: tentativeBooking(testNow.Add(5 * time.Minute))}
	uc := newTestUseCase(repo, &stubPublisher{})

	_, err := uc.Execute(context.Background(), &Request{
		UserID: 99,
		Token:  *repo.booking.ReservationToken,
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, 0, repo.updateRuns)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&stubBookingRepo{}, &stubPublisher{})

	_, err := uc.Execute(context.Background(), &Request{UserID: 7, Token: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{UserID: 0, Token: "some-token"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
