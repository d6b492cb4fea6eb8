package confirm_reservation

import (
	"time"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
	confirmReservation "github.com/m04kA/CWB-ReservationService/internal/usecase/confirm_reservation"
)

// ConfirmReservationRequest HTTP request model
type ConfirmReservationRequest struct {
	Token string `json:"token"`
}

// ConfirmationResponse HTTP response model
type ConfirmationResponse struct {
	BookingID        int64    `json:"bookingId"`
	CarwashID        int64    `json:"carwashId"`
	UserID           int64    `json:"userId"`
	BookingDate      string   `json:"bookingDate"`
	StartTime        string   `json:"startTime"`
	DurationMinutes  int      `json:"durationMinutes"`
	Status           string   `json:"status"`
	AlreadyConfirmed bool     `json:"alreadyConfirmed"`
	ServiceNames     []string `json:"serviceNames"`
	TotalPrice       float64  `json:"totalPrice"`
	DemandMultiplier float64  `json:"demandMultiplier"`
	ConfirmedAt      string   `json:"confirmedAt"` // ISO 8601
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmReservation.Response) *ConfirmationResponse {
	return &ConfirmationResponse{
		BookingID:        resp.BookingID,
		CarwashID:        resp.CarwashID,
		UserID:           resp.UserID,
		BookingDate:      resp.BookingDate.Format(domain.DateFormat),
		StartTime:        resp.StartTime.String(),
		DurationMinutes:  resp.DurationMinutes,
		Status:           resp.Status,
		AlreadyConfirmed: resp.AlreadyConfirmed,
		ServiceNames:     resp.ServiceNames,
		TotalPrice:       resp.TotalPrice,
		DemandMultiplier: resp.DemandMultiplier,
		ConfirmedAt:      resp.ConfirmedAt.Format(time.RFC3339),
	}
}
