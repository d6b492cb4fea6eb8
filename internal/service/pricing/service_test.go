package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubBookingRepo struct {
	count       int64
	err         error
	bucketStart string
	bucketEnd   string
}

func (s *stubBookingRepo) CountForHourBucket(ctx context.Context, carwashID int64, date time.Time, bucketStart, bucketEnd string, now time.Time) (int, error) {
	s.bucketStart = bucketStart
	s.bucketEnd = bucketEnd
	return int(s.count), s.err
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

func newTestService(repo *stubBookingRepo) *Service {
	return &Service{
		bookingRepo:  repo,
		timeProvider: &fixedTime{now: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)},
		logger:       nopLogger{},
	}
}

func TestGetDemandMultiplier(t *testing.T) {
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		count int64
		want  float64
	}{
		{name: "no bookings", count: 0, want: 1.0},
		{name: "two bookings", count: 2, want: 1.1},
		{name: "capped at max", count: 20, want: 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&stubBookingRepo{count: tt.count})
			got := svc.GetDemandMultiplier(context.Background(), 1, date, "10:30")
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestGetDemandMultiplier_HourBucketBounds(t *testing.T) {
	repo := &stubBookingRepo{}
	svc := newTestService(repo)

	svc.GetDemandMultiplier(context.Background(), 1, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), "10:45")

	assert.Equal(t, "10:00", repo.bucketStart)
	assert.Equal(t, "11:00", repo.bucketEnd)
}

func TestGetDemandMultiplier_FailsOpen(t *testing.T) {
	repo := &stubBookingRepo{err: errors.New("db is down")}
	svc := newTestService(repo)

	got := svc.GetDemandMultiplier(context.Background(), 1, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), "10:00")

	assert.Equal(t, 1.0, got)
}

func TestGetDemandMultiplier_InvalidSlotStart(t *testing.T) {
	svc := newTestService(&stubBookingRepo{count: 5})

	got := svc.GetDemandMultiplier(context.Background(), 1, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), "bad")

	assert.Equal(t, 1.0, got)
}
