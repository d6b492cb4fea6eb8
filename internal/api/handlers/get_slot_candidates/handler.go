package get_slot_candidates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/CWB-ReservationService/internal/api/handlers"
	getSlotCandidates "github.com/m04kA/CWB-ReservationService/internal/usecase/get_slot_candidates"
)

const (
	msgInvalidCarwashID    = "некорректный ID автомойки"
	msgMissingServiceIDs   = "список ID услуг обязателен"
	msgInvalidServiceIDs   = "некорректный список ID услуг"
	msgMissingDate         = "дата обязательна"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgCarwashNotFound     = "автомойка не найдена"
	msgServiceNotFound     = "услуга не найдена"
	msgServiceWrongCarwash = "услуга принадлежит другой автомойке"
	msgInvalidBookingDate  = "некорректная дата"
	msgDateTooFar          = "дата слишком далеко в будущем"
)

type Handler struct {
	useCase GetSlotCandidatesUseCase
	logger  Logger
}

func NewHandler(useCase GetSlotCandidatesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/carwashes/{carwashId}/slot-candidates
// Query params: serviceIds (required, "1,2,3"), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Извлекаем carwashId из URL
	carwashIDStr := vars["carwashId"]
	carwashID, err := strconv.ParseInt(carwashIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /carwashes/{id}/slot-candidates - Invalid carwash ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCarwashID)
		return
	}

	// Извлекаем serviceIds из query параметров
	serviceIDsStr := r.URL.Query().Get("serviceIds")
	if serviceIDsStr == "" {
		h.logger.Warn("GET /carwashes/{id}/slot-candidates - Missing service IDs")
		handlers.RespondBadRequest(w, msgMissingServiceIDs)
		return
	}

	serviceIDs, err := ParseServiceIDs(serviceIDsStr)
	if err != nil {
		h.logger.Warn("GET /carwashes/{id}/slot-candidates - Invalid service IDs: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceIDs)
		return
	}

	// Извлекаем date из query параметров
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /carwashes/{id}/slot-candidates - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	// Роут публичный: user_id опционален и используется только для логирования
	var userID int64
	if raw := r.Header.Get("X-User-ID"); raw != "" {
		userID, _ = strconv.ParseInt(raw, 10, 64)
	}

	// Формируем запрос к use case (с парсингом даты)
	useCaseReq, err := ToUseCaseRequest(userID, carwashID, serviceIDs, dateStr)
	if err != nil {
		h.logger.Warn("GET /carwashes/{id}/slot-candidates - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getSlotCandidates.ErrCarwashNotFound):
			h.logger.Warn("GET /carwashes/{id}/slot-candidates - Carwash not found: carwash_id=%d", carwashID)
			handlers.RespondNotFound(w, msgCarwashNotFound)

		case errors.Is(err, getSlotCandidates.ErrServiceNotFound):
			h.logger.Warn("GET /carwashes/{id}/slot-candidates - Service not found: carwash_id=%d", carwashID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getSlotCandidates.ErrServiceWrongCarwash):
			h.logger.Warn("GET /carwashes/{id}/slot-candidates - Service belongs to another carwash: carwash_id=%d", carwashID)
			handlers.RespondBadRequest(w, msgServiceWrongCarwash)

		case errors.Is(err, getSlotCandidates.ErrInvalidDate):
			h.logger.Warn("GET /carwashes/{id}/slot-candidates - Invalid date: carwash_id=%d, date=%s", carwashID, dateStr)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, getSlotCandidates.ErrDateTooFarInFuture):
			h.logger.Warn("GET /carwashes/{id}/slot-candidates - Date too far in future: carwash_id=%d, date=%s", carwashID, dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getSlotCandidates.ErrInvalidInput):
			h.logger.Warn("GET /carwashes/{id}/slot-candidates - Invalid input: carwash_id=%d, error=%v", carwashID, err)
			handlers.RespondBadRequest(w, msgInvalidServiceIDs)

		default:
			h.logger.Error("GET /carwashes/{id}/slot-candidates - Failed to get candidates: carwash_id=%d, error=%v", carwashID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("GET /carwashes/{id}/slot-candidates - Candidates retrieved successfully: carwash_id=%d, slots_count=%d",
		carwashID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
