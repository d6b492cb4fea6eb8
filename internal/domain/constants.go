package domain

// Default configuration values
const (
	DefaultCapacity                = 1
	DefaultSlotStepMinutes         = 0 // 0 = шаг равен длительности слота
	DefaultDurationPolicy          = PolicySum
	DefaultAdvanceBookingDays      = 0  // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 60 // 1 hour
)

// Business validation constants
const (
	MinCapacity                 = 1
	MaxCapacity                 = 100
	MinSlotStepMinutes          = 0
	MaxSlotStepMinutes          = 480
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MinBookingNoticeMinutes     = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxServicesPerBooking       = 10
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, при которых бронирование не занимает слот
// независимо от времени (для tentative занятость зависит от hold и вычисляется отдельно)
var InactiveStatuses = []BookingStatus{
	StatusCancelledByUser,
	StatusCancelledByCarwash,
	StatusNoShow,
	StatusExpired,
}

// CommittedStatuses список статусов, при которых бронирование занимает слот безусловно
var CommittedStatuses = []BookingStatus{
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}
