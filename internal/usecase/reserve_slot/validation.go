package reserve_slot

import (
	"fmt"
	"time"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
	"github.com/m04kA/CWB-ReservationService/internal/integrations/partnerservice"
	"github.com/m04kA/CWB-ReservationService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.CarwashID <= 0 {
		return fmt.Errorf("%w: carwashID must be positive", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: at most %d services per booking", ErrInvalidInput, domain.MaxServicesPerBooking)
	}

	seen := make(map[int64]struct{}, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate serviceID %d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата подходит для бронирования
func validateDate(requestDate time.Time, now time.Time, advanceBookingDays int) error {
	if isDateInPast(requestDate, now) {
		return ErrInvalidDate
	}

	// Если advanceBookingDays = 0, нет ограничений на дату
	if advanceBookingDays == 0 {
		return nil
	}

	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, advanceBookingDays)

	requestDateOnly := time.Date(requestDate.Year(), requestDate.Month(), requestDate.Day(), 0, 0, 0, 0, requestDate.Location())

	if requestDateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// validateBookingTime проверяет, что до начала слота остается не меньше
// minBookingNoticeMinutes (актуально только для бронирования на сегодня)
func validateBookingTime(requestDate time.Time, startTime types.TimeString, now time.Time, minNoticeMinutes int) error {
	if !isSameDay(requestDate, now) {
		return nil
	}

	startMinutes, err := startTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	nowMinutes := now.Hour()*60 + now.Minute()

	if startMinutes < nowMinutes+minNoticeMinutes {
		return fmt.Errorf("%w: booking requires at least %d minutes notice", ErrTooLateToBook, minNoticeMinutes)
	}

	return nil
}

// validateSlotWindow проверяет, что запрошенный слот лежит внутри рабочих часов
// и выровнен по сетке генерации кандидатов
func validateSlotWindow(slot domain.TimeWindow, working domain.TimeWindow, step int, slotDuration int) error {
	if !slot.IsValid() {
		return fmt.Errorf("%w: slot window is malformed", ErrInvalidTimeSlot)
	}

	if slot.Start.IsBefore(working.Start) || working.End.IsBefore(slot.End) {
		return fmt.Errorf("%w: slot is outside working hours %s-%s", ErrInvalidTimeSlot, working.Start, working.End)
	}

	if step <= 0 {
		step = slotDuration
	}

	slotStart, err := slot.Start.Minutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}
	workStart, err := working.Start.Minutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}

	if (slotStart-workStart)%step != 0 {
		return fmt.Errorf("%w: slot start %s is not aligned to %d-minute grid", ErrInvalidTimeSlot, slot.Start, step)
	}

	return nil
}

// validateServicesBelongToCarwash проверяет, что все услуги принадлежат указанной автомойке
func validateServicesBelongToCarwash(services []*partnerservice.WashService, carwashID int64) error {
	for _, svc := range services {
		if svc.CarwashID != carwashID {
			return fmt.Errorf("%w: service %d belongs to carwash %d", ErrServiceWrongCarwash, svc.ID, svc.CarwashID)
		}
	}
	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
