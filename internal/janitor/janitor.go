package janitor

import (
	"context"
	"time"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// ExpireStaleHolds помечает протухшие tentative-бронирования статусом expired
	// Возвращает количество обновленных строк
	ExpireStaleHolds(ctx context.Context, now time.Time) (int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Janitor фоновая очистка протухших tentative-бронирований
//
// Очистка — оптимизация для читаемости данных: просроченный hold перестает
// занимать слот в момент истечения и без нее, поскольку занятость вычисляется
// по hold_expires_at на каждом запросе
type Janitor struct {
	bookingRepo BookingRepository
	interval    time.Duration
	logger      Logger
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// New создает новый janitor с указанным интервалом обхода
func New(bookingRepo BookingRepository, interval time.Duration, logger Logger) *Janitor {
	return &Janitor{
		bookingRepo: bookingRepo,
		interval:    interval,
		logger:      logger,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start запускает цикл очистки в отдельной горутине
func (j *Janitor) Start() {
	go j.run()
	j.logger.Info("Janitor: started with interval %s", j.interval)
}

// Stop останавливает цикл очистки и дожидается завершения текущего прохода
func (j *Janitor) Stop() {
	close(j.stopCh)
	<-j.doneCh
	j.logger.Info("Janitor: stopped")
}

func (j *Janitor) run() {
	defer close(j.doneCh)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stopCh:
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

// sweep выполняет один проход очистки
func (j *Janitor) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	expired, err := j.bookingRepo.ExpireStaleHolds(ctx, time.Now())
	if err != nil {
		j.logger.Error("Janitor: failed to expire stale holds: %v", err)
		return
	}

	if expired > 0 {
		j.logger.Info("Janitor: expired %d stale holds", expired)
	}
}
