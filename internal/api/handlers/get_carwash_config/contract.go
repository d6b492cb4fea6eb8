package get_carwash_config

import (
	"context"

	"github.com/m04kA/CWB-ReservationService/internal/service/config/models"
)

type ConfigService interface {
	GetByCarwash(ctx context.Context, carwashID int64) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
