package domain

import "github.com/m04kA/CWB-ReservationService/pkg/types"

// TimeWindow временной интервал [Start, End) внутри одного дня
type TimeWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// IsValid возвращает true, если интервал непустой и корректный
func (w TimeWindow) IsValid() bool {
	if w.Start.Validate() != nil || w.End.Validate() != nil {
		return false
	}
	return w.Start.IsBefore(w.End)
}

// Overlaps возвращает true, если интервалы пересекаются на непустом диапазоне
// Полуоткрытая семантика: граничащие интервалы (a.End == b.Start) не пересекаются
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start.IsBefore(other.End) && other.Start.IsBefore(w.End)
}

// DurationMinutes возвращает длительность интервала в минутах
func (w TimeWindow) DurationMinutes() int {
	start, err := w.Start.Minutes()
	if err != nil {
		return 0
	}
	end, err := w.End.Minutes()
	if err != nil {
		return 0
	}
	if end < start {
		return 0
	}
	return end - start
}

// SliceWindow нарезает рабочее окно [open, close) на кандидатов фиксированной длительности
// Кандидаты начинаются в open, open+step, ... пока start+slotDuration <= close
// Результат детерминирован и отсортирован по возрастанию start
// Некорректный вход (close <= open, slotDuration <= 0) дает пустой результат, не ошибку
func SliceWindow(open, close types.TimeString, slotDuration, step int) []TimeWindow {
	openMin, err := open.Minutes()
	if err != nil {
		return []TimeWindow{}
	}
	closeMin, err := close.Minutes()
	if err != nil {
		return []TimeWindow{}
	}
	if slotDuration <= 0 || closeMin <= openMin {
		return []TimeWindow{}
	}
	if step <= 0 {
		step = slotDuration
	}

	windows := make([]TimeWindow, 0)
	for start := openMin; start+slotDuration <= closeMin; start += step {
		ws, err := types.NewTimeStringFromMinutes(start)
		if err != nil {
			break
		}
		we, err := types.NewTimeStringFromMinutes(start + slotDuration)
		if err != nil {
			break
		}
		windows = append(windows, TimeWindow{Start: ws, End: we})
	}
	return windows
}

// SubtractBusy возвращает кандидатов, не пересекающихся ни с одним занятым интервалом
func SubtractBusy(candidates []TimeWindow, busy []TimeWindow) []TimeWindow {
	free := make([]TimeWindow, 0, len(candidates))
	for _, c := range candidates {
		if !overlapsAny(c, busy) {
			free = append(free, c)
		}
	}
	return free
}

// CountOverlapping возвращает количество занятых интервалов, пересекающихся с кандидатом
func CountOverlapping(candidate TimeWindow, busy []TimeWindow) int {
	count := 0
	for _, b := range busy {
		if candidate.Overlaps(b) {
			count++
		}
	}
	return count
}

func overlapsAny(w TimeWindow, busy []TimeWindow) bool {
	for _, b := range busy {
		if w.Overlaps(b) {
			return true
		}
	}
	return false
}
