package get_carwash_config

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/CWB-ReservationService/internal/api/handlers"
)

const (
	msgInvalidCarwashID = "некорректный ID автомойки"
)

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/carwashes/{carwashId}/config
// Публичный роут: если конфигурация не задана, отдаются дефолтные значения
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем carwashId из URL
	vars := mux.Vars(r)
	carwashIDStr := vars["carwashId"]

	carwashID, err := strconv.ParseInt(carwashIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /carwashes/{id}/config - Invalid carwash ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCarwashID)
		return
	}

	config, err := h.service.GetByCarwash(r.Context(), carwashID)
	if err != nil {
		h.logger.Error("GET /carwashes/{id}/config - Failed to get config: carwash_id=%d, error=%v",
			carwashID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /carwashes/{id}/config - Config retrieved successfully: carwash_id=%d", carwashID)
	handlers.RespondJSON(w, http.StatusOK, config)
}
