package get_slot_candidates

import (
	"time"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
	"github.com/m04kA/CWB-ReservationService/internal/integrations/partnerservice"
	"github.com/m04kA/CWB-ReservationService/pkg/types"
)

// busyInterval занятый интервал с количеством занимаемых постов
type busyInterval struct {
	window domain.TimeWindow
	units  int
}

// slotDurationFor вычисляет длительность слота для набора услуг по политике
// sum — услуги последовательно на одном посту, max — параллельно на разных
func slotDurationFor(services []*partnerservice.WashService, policy domain.DurationPolicy) int {
	total := 0
	max := 0
	for _, svc := range services {
		total += svc.DurationMinutes
		if svc.DurationMinutes > max {
			max = svc.DurationMinutes
		}
	}
	if policy == domain.PolicyMax {
		return max
	}
	return total
}

// requiredCapacityFor вычисляет количество постов, необходимых для набора услуг
// Минимум 1; услуга может декларировать большее значение
func requiredCapacityFor(services []*partnerservice.WashService) int {
	required := 1
	for _, svc := range services {
		if svc.ResourceUnits > required {
			required = svc.ResourceUnits
		}
	}
	return required
}

// busyIntervalsFrom собирает занятые интервалы из бронирований
// Бронирования с нечитаемым временем пропускаются
func busyIntervalsFrom(bookings []*domain.Booking, now time.Time) []busyInterval {
	busy := make([]busyInterval, 0, len(bookings))
	for _, b := range bookings {
		if !b.OccupiesSlot(now) {
			continue
		}
		window, err := b.Window()
		if err != nil {
			continue
		}
		units := b.RequiredCapacity
		if units < 1 {
			units = 1
		}
		busy = append(busy, busyInterval{window: window, units: units})
	}
	return busy
}

// occupiedUnits возвращает суммарное количество постов, занятых бронированиями,
// пересекающимися с кандидатом (полуоткрытая семантика, границы не пересекаются)
func occupiedUnits(candidate domain.TimeWindow, busy []busyInterval) int {
	occupied := 0
	for _, b := range busy {
		if candidate.Overlaps(b.window) {
			occupied += b.units
		}
	}
	return occupied
}

// resolveWorkingHours возвращает расписание работы автомойки на указанный день недели
func resolveWorkingHours(carwash *partnerservice.Carwash, date time.Time) partnerservice.DaySchedule {
	switch date.Weekday() {
	case time.Monday:
		return carwash.WorkingHours.Monday
	case time.Tuesday:
		return carwash.WorkingHours.Tuesday
	case time.Wednesday:
		return carwash.WorkingHours.Wednesday
	case time.Thursday:
		return carwash.WorkingHours.Thursday
	case time.Friday:
		return carwash.WorkingHours.Friday
	case time.Saturday:
		return carwash.WorkingHours.Saturday
	case time.Sunday:
		return carwash.WorkingHours.Sunday
	default:
		return partnerservice.DaySchedule{IsOpen: false}
	}
}

// workingWindow парсит рабочие часы дня в интервал [open, close)
// Возвращает false, если автомойка закрыта или часы не настроены
func workingWindow(schedule partnerservice.DaySchedule) (domain.TimeWindow, bool) {
	if !schedule.IsOpen || schedule.OpenTime == nil || schedule.CloseTime == nil {
		return domain.TimeWindow{}, false
	}
	open, err := types.NewTimeStringFromString(*schedule.OpenTime)
	if err != nil {
		return domain.TimeWindow{}, false
	}
	close, err := types.NewTimeStringFromString(*schedule.CloseTime)
	if err != nil {
		return domain.TimeWindow{}, false
	}
	return domain.TimeWindow{Start: open, End: close}, true
}

// nextOpenDate ищет ближайшую дату работы автомойки после from (до 2 недель вперёд)
func nextOpenDate(carwash *partnerservice.Carwash, from time.Time) *time.Time {
	for i := 1; i <= 14; i++ {
		candidate := from.AddDate(0, 0, i)
		if _, ok := workingWindow(resolveWorkingHours(carwash, candidate)); ok {
			return &candidate
		}
	}
	return nil
}

// minAllowedStart вычисляет минимально допустимое время начала слота на сегодня
// Для дат в будущем ограничения нет (возвращает nil)
func minAllowedStart(requestDate time.Time, now time.Time, noticeMinutes int) *types.TimeString {
	if !isSameDay(requestDate, now) {
		return nil
	}
	current := types.NewTimeString(now)
	min, err := current.AddMinutes(noticeMinutes)
	if err != nil {
		// Минимальное время ушло за конец суток: сегодня недоступен ни один слот
		endOfDay := types.TimeString("24:00")
		return &endOfDay
	}
	return &min
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
