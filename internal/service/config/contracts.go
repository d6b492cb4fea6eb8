package config

import (
	"context"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
	"github.com/m04kA/CWB-ReservationService/internal/integrations/partnerservice"
)

// ConfigRepository интерфейс репозитория конфигурации слотов
type ConfigRepository interface {
	GetByCarwash(ctx context.Context, carwashID int64) (*domain.CarwashSlotConfig, error)
	Upsert(ctx context.Context, config *domain.CarwashSlotConfig) (*domain.CarwashSlotConfig, error)
	Delete(ctx context.Context, carwashID int64) error
}

// PartnerServiceClient интерфейс клиента для PartnerService
type PartnerServiceClient interface {
	GetCarwash(ctx context.Context, carwashID int64) (*partnerservice.Carwash, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
