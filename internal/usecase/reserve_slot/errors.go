package reserve_slot

import "errors"

var (
	// ErrCarwashNotFound возвращается, когда автомойка не найдена
	ErrCarwashNotFound = errors.New("reserve_slot: carwash not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("reserve_slot: wash service not found")

	// ErrServiceWrongCarwash возвращается, когда услуга принадлежит другой автомойке
	ErrServiceWrongCarwash = errors.New("reserve_slot: service belongs to another carwash")

	// ErrCarwashClosed возвращается, когда автомойка не работает в выбранный день
	ErrCarwashClosed = errors.New("reserve_slot: carwash is closed on this date")

	// ErrInvalidDate возвращается при некорректной дате (например, в прошлом)
	ErrInvalidDate = errors.New("reserve_slot: invalid date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("reserve_slot: date is too far in the future")

	// ErrTooLateToBook возвращается, когда слот начинается раньше minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("reserve_slot: too late to book this slot")

	// ErrInvalidTimeSlot возвращается, когда слот выходит за рабочие часы
	// или не выровнен по сетке слотов
	ErrInvalidTimeSlot = errors.New("reserve_slot: invalid time slot")

	// ErrSlotTaken возвращается, когда на запрошенный интервал не хватает свободных постов
	ErrSlotTaken = errors.New("reserve_slot: slot is already taken")

	// ErrSlotContended возвращается, когда блокировку слота не удалось получить
	// за отведенное время ожидания — слот прямо сейчас резервирует кто-то другой
	ErrSlotContended = errors.New("reserve_slot: slot is being reserved by another request")

	// ErrServiceUnavailable возвращается при недоступности хранилища блокировок
	ErrServiceUnavailable = errors.New("reserve_slot: reservation temporarily unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reserve_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_slot: internal error")
)
