package update_carwash_config

import (
	"github.com/m04kA/CWB-ReservationService/internal/service/config/models"
)

// UpdateConfigRequest HTTP request model
type UpdateConfigRequest struct {
	Capacity                int    `json:"capacity"`
	SlotStepMinutes         int    `json:"slotStepMinutes"`
	DurationPolicy          string `json:"durationPolicy"`
	AdvanceBookingDays      int    `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int    `json:"minBookingNoticeMinutes"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateConfigRequest) ToServiceRequest(userID, carwashID int64) *models.UpsertConfigRequest {
	return &models.UpsertConfigRequest{
		UserID:                  userID,
		CarwashID:               carwashID,
		Capacity:                r.Capacity,
		SlotStepMinutes:         r.SlotStepMinutes,
		DurationPolicy:          r.DurationPolicy,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
	}
}
