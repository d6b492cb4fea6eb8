package reserve_slot

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
func requiredCapacityFor(services []*partnerservice.WashService) int {
	required := 1
	for _, svc := range services {
		if svc.ResourceUnits > required {
			required = svc.ResourceUnits
		}
	}
	return required
}

// serviceNamesFor собирает имена услуг для денормализации в бронировании
func serviceNamesFor(services []*partnerservice.WashService) []string {
	names := make([]string, 0, len(services))
	for _, svc := range services {
		names = append(names, svc.Name)
	}
	return names
}

// basePriceFor суммирует базовые цены услуг; услуги без цены считаются бесплатными
func basePriceFor(services []*partnerservice.WashService) float64 {
	total := 0.0
	for _, svc := range services {
		if svc.Price != nil {
			total += *svc.Price
		}
	}
	return total
}

// busyIntervalsFrom собирает занятые интервалы из бронирований
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

// nearestAlternatives выбирает до limit доступных слотов, ближайших к requested
// Кандидаты сортируются по расстоянию от запрошенного начала слота
func nearestAlternatives(requested types.TimeString, working domain.TimeWindow, step, slotDuration int, busy []busyInterval, capacity, requiredCapacity, limit int) []domain.SlotCandidate {
	requestedMin, err := requested.Minutes()
	if err != nil {
		return []domain.SlotCandidate{}
	}

	windows := domain.SliceWindow(working.Start, working.End, slotDuration, step)

	type scored struct {
		candidate domain.SlotCandidate
		distance  int
	}

	available := make([]scored, 0, len(windows))
	for _, w := range windows {
		free := capacity - occupiedUnits(w, busy)
		if free < requiredCapacity {
			continue
		}
		startMin, err := w.Start.Minutes()
		if err != nil {
			continue
		}
		distance := startMin - requestedMin
		if distance < 0 {
			distance = -distance
		}
		if distance == 0 {
			// Сам запрошенный слот альтернативой не считается
			continue
		}
		available = append(available, scored{
			candidate: domain.SlotCandidate{
				StartTime:       w.Start,
				EndTime:         w.End,
				DurationMinutes: slotDuration,
				AvailableSpots:  free,
				TotalSpots:      capacity,
			},
			distance: distance,
		})
	}

	// Вставочная сортировка по расстоянию: кандидатов в пределах дня немного
	for i := 1; i < len(available); i++ {
		for j := i; j > 0 && available[j].distance < available[j-1].distance; j-- {
			available[j], available[j-1] = available[j-1], available[j]
		}
	}

	if limit > len(available) {
		limit = len(available)
	}

	result := make([]domain.SlotCandidate, 0, limit)
	for _, s := range available[:limit] {
		result = append(result, s.candidate)
	}
	return result
}
