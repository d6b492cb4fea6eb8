package reserve_slot

import (
	"time"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
	"github.com/m04kA/CWB-ReservationService/pkg/types"
)

// Request модель запроса на резервирование слота
type Request struct {
	UserID     int64            // ID пользователя (из заголовка X-User-ID)
	CarwashID  int64            // ID автомойки
	ServiceIDs []int64          // Набор запрошенных услуг
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Начало слота "HH:MM"
	Notes      *string          // Заметки пользователя (опционально)
}

// Response модель ответа на резервирование слота
//
// При ErrSlotTaken и ErrSlotContended usecase возвращает ненулевой Response
// вместе с ошибкой: в Alternatives лежат ближайшие доступные слоты того же дня,
// чтобы клиент мог сразу предложить замену
type Response struct {
	// Token opaque reservation token для подтверждения бронирования
	Token     string
	BookingID int64
	CarwashID int64
	UserID    int64

	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	// RequiredCapacity сколько постов займет бронирование
	RequiredCapacity int

	// ExpiresAt момент истечения hold: до него нужно подтвердить бронирование
	ExpiresAt  time.Time
	TTLSeconds int

	// TotalPrice стоимость с учетом множителя спроса
	TotalPrice       float64
	DemandMultiplier float64
	ServiceNames     []string

	// Alternatives ближайшие доступные слоты (заполняется при отказе)
	Alternatives []domain.SlotCandidate
}
