package get_slot_candidates

import (
	"time"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
)

// Request модель запроса на получение слотов-кандидатов
type Request struct {
	UserID     int64     // ID пользователя (для логирования, не влияет на результат)
	CarwashID  int64     // ID автомойки
	ServiceIDs []int64   // Набор запрошенных услуг
	Date       time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком слотов-кандидатов
type Response struct {
	Date       time.Time // Дата, на которую запрашивались слоты
	CarwashID  int64     // ID автомойки
	ServiceIDs []int64   // Запрошенные услуги

	// Closed автомойка не работает в этот день
	Closed bool
	// NextOpenDate ближайшая дата работы автомойки (подсказка при Closed)
	NextOpenDate *time.Time

	// SlotDurationMinutes длительность слота для запрошенного набора услуг
	SlotDurationMinutes int
	// RequiredCapacity сколько постов займет бронирование
	RequiredCapacity int

	Slots []domain.SlotCandidate // Список слотов-кандидатов
}
