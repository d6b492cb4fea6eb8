package get_slot_candidates

import "errors"

var (
	// ErrCarwashNotFound возвращается, когда автомойка не найдена
	ErrCarwashNotFound = errors.New("get_slot_candidates: carwash not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("get_slot_candidates: wash service not found")

	// ErrServiceWrongCarwash возвращается, когда услуга принадлежит другой автомойке
	ErrServiceWrongCarwash = errors.New("get_slot_candidates: service belongs to another carwash")

	// ErrInvalidDate возвращается при некорректной дате (например, в прошлом)
	ErrInvalidDate = errors.New("get_slot_candidates: invalid date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("get_slot_candidates: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_slot_candidates: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_slot_candidates: internal error")
)
