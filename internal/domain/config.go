package domain

import "time"

// DurationPolicy политика вычисления длительности слота при нескольких услугах
type DurationPolicy string

const (
	// PolicySum услуги выполняются последовательно на одном посту,
	// длительность слота равна сумме длительностей услуг
	PolicySum DurationPolicy = "sum"
	// PolicyMax услуги выполняются параллельно на разных постах,
	// длительность слота равна максимальной из длительностей
	PolicyMax DurationPolicy = "max"
)

// IsValid проверяет допустимость политики
func (p DurationPolicy) IsValid() bool {
	return p == PolicySum || p == PolicyMax
}

// CarwashSlotConfig represents the booking configuration for a car wash
type CarwashSlotConfig struct {
	ID        int64
	CarwashID int64
	// Capacity количество постов мойки, работающих одновременно
	Capacity int
	// SlotStepMinutes шаг генерации кандидатов; 0 = шаг равен длительности слота
	SlotStepMinutes int
	// DurationPolicy политика вычисления длительности при нескольких услугах
	DurationPolicy          DurationPolicy
	AdvanceBookingDays      int // 0 = unlimited
	MinBookingNoticeMinutes int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (c *CarwashSlotConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// SupportsParallelBookings returns true if the car wash has more than one bay
func (c *CarwashSlotConfig) SupportsParallelBookings() bool {
	return c.Capacity > 1
}
