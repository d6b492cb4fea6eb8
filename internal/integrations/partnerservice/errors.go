package partnerservice

import "errors"

var (
	// ErrCarwashNotFound возвращается, когда автомойка не найдена
	ErrCarwashNotFound = errors.New("carwash not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("wash service not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("partnerservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("partnerservice client: invalid response")
)
