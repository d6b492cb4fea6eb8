package confirm_reservation

import (
	"time"

	"github.com/m04kA/CWB-ReservationService/pkg/types"
)

// Request модель запроса на подтверждение резервирования
type Request struct {
	UserID int64  // ID пользователя (из заголовка X-User-ID)
	Token  string // Reservation token, выданный при резервировании
}

// Response модель ответа на подтверждение резервирования
type Response struct {
	BookingID int64
	CarwashID int64
	UserID    int64

	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int

	Status string
	// AlreadyConfirmed повторное подтверждение тем же токеном (идемпотентный успех)
	AlreadyConfirmed bool

	ServiceNames     []string
	TotalPrice       float64
	DemandMultiplier float64

	ConfirmedAt time.Time
}
