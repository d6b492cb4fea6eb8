package domain

import (
	"time"

	"github.com/m04kA/CWB-ReservationService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	// StatusTentative бронирование создано движком резервирования, но не подтверждено
	// Занимает слот только пока не истёк hold (HoldExpiresAt)
	StatusTentative          BookingStatus = "tentative"
	StatusConfirmed          BookingStatus = "confirmed"
	StatusInProgress         BookingStatus = "in_progress"
	StatusCompleted          BookingStatus = "completed"
	StatusCancelledByUser    BookingStatus = "cancelled_by_user"
	StatusCancelledByCarwash BookingStatus = "cancelled_by_carwash"
	StatusNoShow             BookingStatus = "no_show"
	// StatusExpired проставляется фоновой очисткой протухших tentative-бронирований
	// Очистка — оптимизация: просроченный tentative не занимает слот и без неё
	StatusExpired BookingStatus = "expired"
)

// Booking represents a car wash booking in the system
type Booking struct {
	ID              int64
	UserID          int64
	CarwashID       int64
	ServiceIDs      []int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	// RequiredCapacity сколько постов мойки занимает бронирование одновременно
	RequiredCapacity int
	Status           BookingStatus

	// ReservationToken opaque-токен, выданный при резервировании
	// Используется для подтверждения tentative-бронирования
	ReservationToken *string
	// HoldExpiresAt момент истечения hold для tentative-бронирования
	HoldExpiresAt *time.Time

	// Denormalized data for history
	ServiceNames     []string
	TotalPrice       float64
	DemandMultiplier float64
	CarBrand         *string
	CarModel         *string
	CarLicensePlate  *string
	Notes            *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OccupiesSlot returns true if the booking occupies its slot at the given moment
// Подтвержденные и выполняемые бронирования занимают слот всегда,
// tentative — только пока не истёк hold (liveness вычисляется, а не хранится)
func (b *Booking) OccupiesSlot(now time.Time) bool {
	switch b.Status {
	case StatusConfirmed, StatusInProgress, StatusCompleted:
		return true
	case StatusTentative:
		return b.HoldExpiresAt != nil && now.Before(*b.HoldExpiresAt)
	default:
		return false
	}
}

// IsHoldLive returns true if the booking is a tentative hold that has not expired yet
func (b *Booking) IsHoldLive(now time.Time) bool {
	return b.Status == StatusTentative && b.HoldExpiresAt != nil && now.Before(*b.HoldExpiresAt)
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusTentative || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByUser || b.Status == StatusCancelledByCarwash
}

// IsCompleted returns true if the booking is completed or was a no-show
func (b *Booking) IsCompleted() bool {
	return b.Status == StatusCompleted || b.Status == StatusNoShow
}

// End возвращает время окончания бронирования
func (b *Booking) End() (types.TimeString, error) {
	return b.StartTime.AddMinutes(b.DurationMinutes)
}

// Window возвращает интервал бронирования [start, end)
func (b *Booking) Window() (TimeWindow, error) {
	end, err := b.End()
	if err != nil {
		return TimeWindow{}, err
	}
	return TimeWindow{Start: b.StartTime, End: end}, nil
}

// CarwashBookingsFilter фильтр для получения бронирований автомойки
type CarwashBookingsFilter struct {
	CarwashID       int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли неактивные бронирования (отмененные, no-show, expired)
}
