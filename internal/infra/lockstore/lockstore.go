package lockstore

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
	"github.com/m04kA/CWB-ReservationService/pkg/types"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// releaseScript атомарно удаляет блокировку, только если токен совпадает
// Защищает от снятия чужой блокировки после истечения TTL и повторного захвата
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`)

// SlotLock распределенная time-boxed блокировка слота поверх Redis
// Сериализует критическую секцию "перепроверка конфликтов -> вставка tentative"
// между процессами сервиса; живет не дольше TTL даже при падении держателя
type SlotLock struct {
	client *redis.Client
	log    Logger
}

// NewSlotLock создает хранилище блокировок слотов
func NewSlotLock(client *redis.Client, log Logger) *SlotLock {
	return &SlotLock{client: client, log: log}
}

// Key строит ключ блокировки для пары (автомойка, начало слота)
func Key(carwashID int64, date time.Time, start types.TimeString) string {
	return fmt.Sprintf("slotlock:%d:%s:%s", carwashID, date.Format(domain.DateFormat), start)
}

// Acquire атомарно создает запись блокировки, если её ещё нет (SET NX PX)
// Возвращает уникальный токен держателя либо ErrLockBusy
// Никогда не выполняется как отдельные check-then-set операции
func (s *SlotLock) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", ErrInvalidTTL
	}

	token := uuid.NewString()

	ok, err := s.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("%w: acquire %s: %v", ErrStoreUnavailable, key, err)
	}
	if !ok {
		return "", ErrLockBusy
	}

	return token, nil
}

// AcquireWait пытается захватить блокировку в течение waitTimeout с паузами retryInterval
// Ограниченное ожидание на стороне клиента, отдельное от TTL самой блокировки:
// по истечении возвращается ErrLockBusy, запрос не виснет
func (s *SlotLock) AcquireWait(ctx context.Context, key string, ttl, waitTimeout, retryInterval time.Duration) (string, error) {
	deadline := time.Now().Add(waitTimeout)

	for {
		token, err := s.Acquire(ctx, key, ttl)
		if err == nil {
			return token, nil
		}
		if err != ErrLockBusy {
			return "", err
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return "", ErrLockBusy
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: wait cancelled: %v", ErrStoreUnavailable, ctx.Err())
		case <-time.After(retryInterval):
		}
	}
}

// Release снимает блокировку, только если token совпадает с текущим держателем
// Несовпадение означает, что блокировка истекла и была перезахвачена — это не ошибка
func (s *SlotLock) Release(ctx context.Context, key, token string) error {
	deleted, err := releaseScript.Run(ctx, s.client, []string{key}, token).Int()
	if err != nil {
		return fmt.Errorf("%w: release %s: %v", ErrStoreUnavailable, key, err)
	}
	if deleted == 0 {
		s.log.Warn("Release: lock %s already expired or reacquired by another holder", key)
	}
	return nil
}
