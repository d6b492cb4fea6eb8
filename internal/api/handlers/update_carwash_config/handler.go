package update_carwash_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/CWB-ReservationService/internal/api/handlers"
	"github.com/m04kA/CWB-ReservationService/internal/api/middleware"
	configSvc "github.com/m04kA/CWB-ReservationService/internal/service/config"
	"github.com/m04kA/CWB-ReservationService/internal/service/config/models"
)

const (
	msgInvalidCarwashID   = "некорректный ID автомойки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgCarwashNotFound    = "автомойка не найдена"
	msgConfigNotFound     = "конфигурация не найдена"
	msgForbidden          = "доступ запрещен"
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

// Handle PUT /api/v1/carwashes/{carwashId}/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	carwashID, userID, ok := h.parseIDs(w, r, "PUT")
	if !ok {
		return
	}

	// Декодируем body
	var req UpdateConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /carwashes/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Сохраняем конфигурацию (сервис сам проверит права менеджера)
	result, err := h.service.Upsert(r.Context(), req.ToServiceRequest(userID, carwashID))
	if err != nil {
		switch {
		case errors.Is(err, configSvc.ErrCarwashNotFound):
			h.logger.Warn("PUT /carwashes/{id}/config - Carwash not found: carwash_id=%d", carwashID)
			handlers.RespondNotFound(w, msgCarwashNotFound)

		case errors.Is(err, configSvc.ErrAccessDenied):
			h.logger.Warn("PUT /carwashes/{id}/config - Access denied: carwash_id=%d, user_id=%d",
				carwashID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, configSvc.ErrInvalidInput):
			h.logger.Warn("PUT /carwashes/{id}/config - Invalid config: carwash_id=%d, error=%v", carwashID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /carwashes/{id}/config - Failed to save config: carwash_id=%d, error=%v",
				carwashID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /carwashes/{id}/config - Config saved successfully: carwash_id=%d, config_id=%d",
		carwashID, result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDelete DELETE /api/v1/carwashes/{carwashId}/config
// После удаления автомойка обслуживается с дефолтными настройками
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	carwashID, userID, ok := h.parseIDs(w, r, "DELETE")
	if !ok {
		return
	}

	err := h.service.Delete(r.Context(), &models.DeleteConfigRequest{
		UserID:    userID,
		CarwashID: carwashID,
	})
	if err != nil {
		switch {
		case errors.Is(err, configSvc.ErrConfigNotFound):
			h.logger.Warn("DELETE /carwashes/{id}/config - Config not found: carwash_id=%d", carwashID)
			handlers.RespondNotFound(w, msgConfigNotFound)

		case errors.Is(err, configSvc.ErrCarwashNotFound):
			h.logger.Warn("DELETE /carwashes/{id}/config - Carwash not found: carwash_id=%d", carwashID)
			handlers.RespondNotFound(w, msgCarwashNotFound)

		case errors.Is(err, configSvc.ErrAccessDenied):
			h.logger.Warn("DELETE /carwashes/{id}/config - Access denied: carwash_id=%d, user_id=%d",
				carwashID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /carwashes/{id}/config - Failed to delete config: carwash_id=%d, error=%v",
				carwashID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /carwashes/{id}/config - Config deleted successfully: carwash_id=%d", carwashID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}

// parseIDs извлекает carwashId из URL и userID из контекста
func (h *Handler) parseIDs(w http.ResponseWriter, r *http.Request, method string) (int64, int64, bool) {
	vars := mux.Vars(r)
	carwashIDStr := vars["carwashId"]

	carwashID, err := strconv.ParseInt(carwashIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("%s /carwashes/{id}/config - Invalid carwash ID: %v", method, err)
		handlers.RespondBadRequest(w, msgInvalidCarwashID)
		return 0, 0, false
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s /carwashes/{id}/config - Missing user ID", method)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return 0, 0, false
	}

	return carwashID, userID, true
}
