package reserve_slot

import (
	"time"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
	reserveSlot "github.com/m04kA/CWB-ReservationService/internal/usecase/reserve_slot"
	"github.com/m04kA/CWB-ReservationService/pkg/types"
)

// ReserveSlotRequest HTTP request model
type ReserveSlotRequest struct {
	CarwashID   int64   `json:"carwashId"`
	ServiceIDs  []int64 `json:"serviceIds"`
	BookingDate string  `json:"bookingDate"` // "2025-10-15"
	StartTime   string  `json:"startTime"`   // "10:00"
	Notes       *string `json:"notes,omitempty"`
}

// ReservationResponse HTTP response model успешного резервирования
type ReservationResponse struct {
	Token            string   `json:"token"`
	BookingID        int64    `json:"bookingId"`
	CarwashID        int64    `json:"carwashId"`
	UserID           int64    `json:"userId"`
	BookingDate      string   `json:"bookingDate"`
	StartTime        string   `json:"startTime"`
	EndTime          string   `json:"endTime"`
	DurationMinutes  int      `json:"durationMinutes"`
	RequiredCapacity int      `json:"requiredCapacity"`
	ExpiresAt        string   `json:"expiresAt"` // ISO 8601
	TTLSeconds       int      `json:"ttlSeconds"`
	TotalPrice       float64  `json:"totalPrice"`
	DemandMultiplier float64  `json:"demandMultiplier"`
	ServiceNames     []string `json:"serviceNames"`
}

// RejectionResponse HTTP response model отказа с альтернативами
type RejectionResponse struct {
	Code         int               `json:"code"`
	Message      string            `json:"message"`
	Alternatives []AlternativeSlot `json:"alternatives"`
}

// AlternativeSlot альтернативный слот, предлагаемый при отказе
type AlternativeSlot struct {
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	AvailableSpots  int    `json:"availableSpots"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReserveSlotRequest) ToUseCaseRequest(userID int64) (*reserveSlot.Request, error) {
	// Парсим дату
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &reserveSlot.Request{
		UserID:     userID,
		CarwashID:  r.CarwashID,
		ServiceIDs: r.ServiceIDs,
		Date:       bookingDate,
		StartTime:  startTime,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveSlot.Response) *ReservationResponse {
	return &ReservationResponse{
		Token:            resp.Token,
		BookingID:        resp.BookingID,
		CarwashID:        resp.CarwashID,
		UserID:           resp.UserID,
		BookingDate:      resp.BookingDate.Format(domain.DateFormat),
		StartTime:        resp.StartTime.String(),
		EndTime:          resp.EndTime.String(),
		DurationMinutes:  resp.DurationMinutes,
		RequiredCapacity: resp.RequiredCapacity,
		ExpiresAt:        resp.ExpiresAt.Format(time.RFC3339),
		TTLSeconds:       resp.TTLSeconds,
		TotalPrice:       resp.TotalPrice,
		DemandMultiplier: resp.DemandMultiplier,
		ServiceNames:     resp.ServiceNames,
	}
}

// ToRejectionResponse собирает ответ отказа с альтернативными слотами
func ToRejectionResponse(code int, message string, resp *reserveSlot.Response) *RejectionResponse {
	rejection := &RejectionResponse{
		Code:         code,
		Message:      message,
		Alternatives: []AlternativeSlot{},
	}

	if resp == nil {
		return rejection
	}

	for _, alt := range resp.Alternatives {
		rejection.Alternatives = append(rejection.Alternatives, AlternativeSlot{
			StartTime:       alt.StartTime.String(),
			EndTime:         alt.EndTime.String(),
			DurationMinutes: alt.DurationMinutes,
			AvailableSpots:  alt.AvailableSpots,
		})
	}

	return rejection
}
