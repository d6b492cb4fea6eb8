package get_slot_candidates

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
	getSlotCandidates "github.com/m04kA/CWB-ReservationService/internal/usecase/get_slot_candidates"
)

// SlotCandidatesResponse HTTP response model
type SlotCandidatesResponse struct {
	Date       string  `json:"date"`
	CarwashID  int64   `json:"carwashId"`
	ServiceIDs []int64 `json:"serviceIds"`

	Closed       bool    `json:"closed"`
	NextOpenDate *string `json:"nextOpenDate,omitempty"`

	SlotDurationMinutes int `json:"slotDurationMinutes"`
	RequiredCapacity    int `json:"requiredCapacity"`

	Slots []SlotCandidate `json:"slots"`
}

// SlotCandidate модель слота-кандидата
type SlotCandidate struct {
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	AvailableSpots  int    `json:"availableSpots"`
	TotalSpots      int    `json:"totalSpots"`
	Available       bool   `json:"available"`
	// Reason причина недоступности: "fully_booked" или "too_soon"
	Reason           string  `json:"reason,omitempty"`
	DemandMultiplier float64 `json:"demandMultiplier"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getSlotCandidates.Response) *SlotCandidatesResponse {
	slots := make([]SlotCandidate, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotCandidate{
			StartTime:        slot.StartTime.String(),
			EndTime:          slot.EndTime.String(),
			DurationMinutes:  slot.DurationMinutes,
			AvailableSpots:   slot.AvailableSpots,
			TotalSpots:       slot.TotalSpots,
			Available:        slot.IsAvailable(),
			Reason:           slot.Reason,
			DemandMultiplier: slot.DemandMultiplier,
		}
	}

	result := &SlotCandidatesResponse{
		Date:                resp.Date.Format(domain.DateFormat),
		CarwashID:           resp.CarwashID,
		ServiceIDs:          resp.ServiceIDs,
		Closed:              resp.Closed,
		SlotDurationMinutes: resp.SlotDurationMinutes,
		RequiredCapacity:    resp.RequiredCapacity,
		Slots:               slots,
	}

	if resp.NextOpenDate != nil {
		next := resp.NextOpenDate.Format(domain.DateFormat)
		result.NextOpenDate = &next
	}

	return result
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(userID, carwashID int64, serviceIDs []int64, dateStr string) (*getSlotCandidates.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getSlotCandidates.Request{
		UserID:     userID,
		CarwashID:  carwashID,
		ServiceIDs: serviceIDs,
		Date:       date,
	}, nil
}

// ParseServiceIDs парсит список ID услуг из строки "1,2,3"
func ParseServiceIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid service id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
