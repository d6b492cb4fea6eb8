package lockstore

import "errors"

var (
	// ErrLockBusy возвращается, когда блокировка слота уже удерживается другим запросом
	// Ожидаемый исход при конкурентном резервировании, не системная ошибка
	ErrLockBusy = errors.New("lockstore: slot lock is held by another request")

	// ErrStoreUnavailable возвращается при недоступности Redis
	// Движок резервирования обязан не продолжать без блокировки
	ErrStoreUnavailable = errors.New("lockstore: lock store unavailable")

	// ErrInvalidTTL возвращается при некорректном TTL блокировки
	ErrInvalidTTL = errors.New("lockstore: ttl must be positive")
)
