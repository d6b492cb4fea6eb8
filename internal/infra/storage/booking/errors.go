package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrTokenNotFound возвращается, когда бронирование с таким reservation token не найдено
	ErrTokenNotFound = errors.New("booking.repository: reservation token not found")

	// ErrDuplicateSlot возвращается при нарушении уникальности живого бронирования на слот
	// Страховка на случай отказа хранилища блокировок
	ErrDuplicateSlot = errors.New("booking.repository: duplicate live booking for slot")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrInvalidStatus возвращается при попытке установить недопустимый статус
	ErrInvalidStatus = errors.New("booking.repository: invalid booking status")
)
