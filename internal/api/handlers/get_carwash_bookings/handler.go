package get_carwash_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/CWB-ReservationService/internal/api/handlers"
	"github.com/m04kA/CWB-ReservationService/internal/api/middleware"
	"github.com/m04kA/CWB-ReservationService/internal/service/bookings"
)

const (
	msgInvalidCarwashID = "некорректный ID автомойки"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgInvalidParams    = "некорректные параметры запроса"
	msgCarwashNotFound  = "автомойка не найдена"
	msgForbidden        = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/carwashes/{carwashId}/bookings
// Query params: status, date, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем carwashId из URL
	vars := mux.Vars(r)
	carwashIDStr := vars["carwashId"]

	carwashID, err := strconv.ParseInt(carwashIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /carwashes/{id}/bookings - Invalid carwash ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCarwashID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /carwashes/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Получаем опциональные query параметры
	statusStr := r.URL.Query().Get("status")
	dateStr := r.URL.Query().Get("date")
	includeInactiveStr := r.URL.Query().Get("includeInactive")

	// Формируем запрос к сервису
	serviceReq, err := ToServiceRequest(carwashID, userID, statusStr, dateStr, includeInactiveStr)
	if err != nil {
		h.logger.Warn("GET /carwashes/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Получаем бронирования автомойки (сервис сам проверит права менеджера)
	result, err := h.service.GetCarwashBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrCarwashNotFound):
			h.logger.Warn("GET /carwashes/{id}/bookings - Carwash not found: carwash_id=%d", carwashID)
			handlers.RespondNotFound(w, msgCarwashNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /carwashes/{id}/bookings - Access denied: carwash_id=%d, user_id=%d",
				carwashID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /carwashes/{id}/bookings - Invalid filter: carwash_id=%d, error=%v", carwashID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /carwashes/{id}/bookings - Failed to get bookings: carwash_id=%d, error=%v",
				carwashID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /carwashes/{id}/bookings - Bookings retrieved successfully: carwash_id=%d, count=%d",
		carwashID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
