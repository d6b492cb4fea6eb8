package domain

import (
	"time"

	"github.com/m04kA/CWB-ReservationService/pkg/types"
)

// ReservationToken эфемерный результат успешного резервирования слота
// Ссылается на tentative-бронирование; действует до ExpiresAt,
// после чего слот снова становится доступным без участия фоновых задач
type ReservationToken struct {
	Token           string
	BookingID       int64
	CarwashID       int64
	SlotStart       types.TimeString
	SlotEnd         types.TimeString
	BookingDate     time.Time
	IssuedAt        time.Time
	ExpiresAt       time.Time
	DurationMinutes int
}

// TTL возвращает оставшееся время жизни токена на момент now
func (t *ReservationToken) TTL(now time.Time) time.Duration {
	if !now.Before(t.ExpiresAt) {
		return 0
	}
	return t.ExpiresAt.Sub(now)
}
