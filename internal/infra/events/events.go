package events

import "time"

// EventType тип события бронирования
type EventType string

const (
	// EventBookingReserved слот зарезервирован, выдан reservation token
	EventBookingReserved EventType = "booking.reserved"
	// EventBookingConfirmed tentative-бронирование подтверждено
	EventBookingConfirmed EventType = "booking.confirmed"
	// EventBookingCancelled бронирование отменено
	EventBookingCancelled EventType = "booking.cancelled"
)

// BookingEvent событие, публикуемое для сервиса уведомлений
// Fire-and-forget: сбой публикации не откатывает бронирование
type BookingEvent struct {
	Type        EventType `json:"type"`
	BookingID   int64     `json:"booking_id"`
	CarwashID   int64     `json:"carwash_id"`
	UserID      int64     `json:"user_id"`
	BookingDate string    `json:"booking_date"` // YYYY-MM-DD
	StartTime   string    `json:"start_time"`   // HH:MM
	OccurredAt  time.Time `json:"occurred_at"`
}
