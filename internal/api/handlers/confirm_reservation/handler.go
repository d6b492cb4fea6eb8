package confirm_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/CWB-ReservationService/internal/api/handlers"
	"github.com/m04kA/CWB-ReservationService/internal/api/middleware"
	confirmReservation "github.com/m04kA/CWB-ReservationService/internal/usecase/confirm_reservation"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgMissingToken        = "reservation token обязателен"
	msgTokenNotFound       = "reservation token не найден"
	msgReservationExpired  = "срок действия резервирования истёк, зарезервируйте слот заново"
	msgReservationCanceled = "резервирование было отменено"
	msgForbidden           = "доступ запрещен"
)

type Handler struct {
	useCase ConfirmReservationUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations/confirm - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ConfirmReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.Token == "" {
		h.logger.Warn("POST /reservations/confirm - Missing token: user_id=%d", userID)
		handlers.RespondBadRequest(w, msgMissingToken)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), &confirmReservation.Request{
		UserID: userID,
		Token:  req.Token,
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmReservation.ErrTokenNotFound):
			h.logger.Warn("POST /reservations/confirm - Token not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgTokenNotFound)

		case errors.Is(err, confirmReservation.ErrReservationExpired):
			h.logger.Warn("POST /reservations/confirm - Reservation expired: user_id=%d", userID)
			handlers.RespondError(w, http.StatusGone, msgReservationExpired)

		case errors.Is(err, confirmReservation.ErrReservationCancelled):
			h.logger.Warn("POST /reservations/confirm - Reservation cancelled: user_id=%d", userID)
			handlers.RespondConflict(w, msgReservationCanceled)

		case errors.Is(err, confirmReservation.ErrAccessDenied):
			h.logger.Warn("POST /reservations/confirm - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, confirmReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations/confirm - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /reservations/confirm - Failed to confirm reservation: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /reservations/confirm - Reservation confirmed: booking_id=%d, user_id=%d, already_confirmed=%v",
		result.BookingID, userID, result.AlreadyConfirmed)
	handlers.RespondJSON(w, http.StatusOK, response)
}
