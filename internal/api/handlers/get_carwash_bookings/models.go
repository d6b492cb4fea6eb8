package get_carwash_bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
	"github.com/m04kA/CWB-ReservationService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	carwashID int64,
	userID int64,
	statusStr string,
	dateStr string,
	includeInactiveStr string,
) (*models.GetCarwashBookingsRequest, error) {
	req := &models.GetCarwashBookingsRequest{
		UserID:          userID,
		CarwashID:       carwashID,
		IncludeInactive: false, // По умолчанию только активные
	}

	// Парсим status если указан
	if statusStr != "" {
		req.Status = &statusStr
	}

	// Парсим date если указана
	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &date
		req.EndDate = &date
	}

	// Парсим includeInactive если указан
	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
