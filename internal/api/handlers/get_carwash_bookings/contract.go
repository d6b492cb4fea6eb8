package get_carwash_bookings

import (
	"context"

	"github.com/m04kA/CWB-ReservationService/internal/service/bookings/models"
)

type BookingService interface {
	GetCarwashBookings(ctx context.Context, req *models.GetCarwashBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
