package domain

import "github.com/m04kA/CWB-ReservationService/pkg/types"

// Причины недоступности слота-кандидата
const (
	ReasonFullyBooked = "fully_booked"
	ReasonTooSoon     = "too_soon"
)

// SlotCandidate represents a candidate time slot computed for a request
// Transient: вычисляется на каждый запрос, не хранится
type SlotCandidate struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	AvailableSpots  int // Свободные посты мойки на этот интервал
	TotalSpots      int // Всего постов (capacity автомойки)
	// Reason причина недоступности; пустая строка для доступного слота
	Reason string
	// DemandMultiplier ценовой множитель спроса (>= 1.0), справочный
	DemandMultiplier float64
}

// IsAvailable returns true if the slot can be booked
func (s *SlotCandidate) IsAvailable() bool {
	return s.Reason == "" && s.AvailableSpots > 0
}

// IsFull returns true if the slot has no available spots
func (s *SlotCandidate) IsFull() bool {
	return s.AvailableSpots <= 0
}

// IsPartiallyAvailable returns true if the slot has some but not all spots available
func (s *SlotCandidate) IsPartiallyAvailable() bool {
	return s.AvailableSpots > 0 && s.AvailableSpots < s.TotalSpots
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (s *SlotCandidate) OccupancyRate() float64 {
	if s.TotalSpots == 0 {
		return 0
	}
	occupied := s.TotalSpots - s.AvailableSpots
	return float64(occupied) / float64(s.TotalSpots) * 100
}

// Window возвращает интервал слота
func (s *SlotCandidate) Window() TimeWindow {
	return TimeWindow{Start: s.StartTime, End: s.EndTime}
}
