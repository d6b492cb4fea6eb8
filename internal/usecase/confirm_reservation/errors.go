package confirm_reservation

import "errors"

var (
	// ErrTokenNotFound возвращается, когда токен не соответствует ни одному бронированию
	ErrTokenNotFound = errors.New("confirm_reservation: reservation token not found")

	// ErrReservationExpired возвращается, когда hold tentative-бронирования истёк
	// Отличается от ErrTokenNotFound: клиенту нужно резервировать слот заново
	ErrReservationExpired = errors.New("confirm_reservation: reservation has expired")

	// ErrReservationCancelled возвращается при попытке подтвердить отмененное бронирование
	ErrReservationCancelled = errors.New("confirm_reservation: reservation has been cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_reservation: invalid input data")

	// ErrAccessDenied возвращается, когда токен принадлежит другому пользователю
	ErrAccessDenied = errors.New("confirm_reservation: access denied")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_reservation: internal error")
)
