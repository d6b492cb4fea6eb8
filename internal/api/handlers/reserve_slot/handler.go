package reserve_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/CWB-ReservationService/internal/api/handlers"
	"github.com/m04kA/CWB-ReservationService/internal/api/middleware"
	reserveSlot "github.com/m04kA/CWB-ReservationService/internal/usecase/reserve_slot"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDate         = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidTime         = "некорректный формат времени начала, ожидается HH:MM"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgCarwashNotFound     = "автомойка не найдена"
	msgServiceNotFound     = "услуга не найдена"
	msgServiceWrongCarwash = "услуга принадлежит другой автомойке"
	msgCarwashClosed       = "автомойка закрыта в выбранную дату"
	msgInvalidBookingDate  = "некорректная дата бронирования"
	msgDateTooFar          = "дата бронирования слишком далеко в будущем"
	msgInvalidTimeSlot     = "некорректный временной слот"
	msgTooLateToBook       = "слишком поздно для бронирования этого слота"
	msgSlotTaken           = "выбранный временной слот уже занят"
	msgSlotContended       = "слот прямо сейчас резервирует другой пользователь, попробуйте ещё раз"
	msgServiceUnavailable  = "сервис резервирования временно недоступен"
)

type Handler struct {
	useCase ReserveSlotUseCase
	logger  Logger
}

func NewHandler(useCase ReserveSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ReserveSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		if len(req.BookingDate) == 10 {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, reserveSlot.ErrSlotTaken):
			h.logger.Warn("POST /reservations - Slot taken: user_id=%d, carwash_id=%d, time=%s",
				userID, req.CarwashID, req.StartTime)
			handlers.RespondJSON(w, http.StatusConflict,
				ToRejectionResponse(http.StatusConflict, msgSlotTaken, result))

		case errors.Is(err, reserveSlot.ErrSlotContended):
			h.logger.Warn("POST /reservations - Slot contended: user_id=%d, carwash_id=%d, time=%s",
				userID, req.CarwashID, req.StartTime)
			handlers.RespondJSON(w, http.StatusConflict,
				ToRejectionResponse(http.StatusConflict, msgSlotContended, result))

		case errors.Is(err, reserveSlot.ErrServiceUnavailable):
			h.logger.Error("POST /reservations - Lock store unavailable: user_id=%d, carwash_id=%d, error=%v",
				userID, req.CarwashID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgServiceUnavailable)

		case errors.Is(err, reserveSlot.ErrCarwashNotFound):
			h.logger.Warn("POST /reservations - Carwash not found: carwash_id=%d", req.CarwashID)
			handlers.RespondNotFound(w, msgCarwashNotFound)

		case errors.Is(err, reserveSlot.ErrServiceNotFound):
			h.logger.Warn("POST /reservations - Service not found: user_id=%d, carwash_id=%d", userID, req.CarwashID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, reserveSlot.ErrServiceWrongCarwash):
			h.logger.Warn("POST /reservations - Service belongs to another carwash: carwash_id=%d", req.CarwashID)
			handlers.RespondBadRequest(w, msgServiceWrongCarwash)

		case errors.Is(err, reserveSlot.ErrCarwashClosed):
			h.logger.Warn("POST /reservations - Carwash closed: user_id=%d, carwash_id=%d", userID, req.CarwashID)
			handlers.RespondBadRequest(w, msgCarwashClosed)

		case errors.Is(err, reserveSlot.ErrInvalidDate):
			h.logger.Warn("POST /reservations - Invalid booking date: user_id=%d, carwash_id=%d", userID, req.CarwashID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, reserveSlot.ErrDateTooFarInFuture):
			h.logger.Warn("POST /reservations - Date too far in future: user_id=%d, carwash_id=%d", userID, req.CarwashID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, reserveSlot.ErrInvalidTimeSlot):
			h.logger.Warn("POST /reservations - Invalid time slot: user_id=%d, carwash_id=%d, time=%s",
				userID, req.CarwashID, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, reserveSlot.ErrTooLateToBook):
			h.logger.Warn("POST /reservations - Too late to book: user_id=%d, carwash_id=%d, time=%s",
				userID, req.CarwashID, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, reserveSlot.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /reservations - Failed to reserve slot: user_id=%d, carwash_id=%d, error=%v",
				userID, req.CarwashID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /reservations - Slot reserved successfully: booking_id=%d, user_id=%d, carwash_id=%d, expires_at=%s",
		result.BookingID, userID, req.CarwashID, response.ExpiresAt)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
