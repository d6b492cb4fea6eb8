package models

import (
	"time"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
)

// Request модели

// UpsertConfigRequest запрос на создание или обновление конфигурации слотов автомойки
type UpsertConfigRequest struct {
	UserID    int64 `json:"userId"`
	CarwashID int64 `json:"carwashId"`
	// Capacity количество постов мойки, работающих одновременно
	Capacity int `json:"capacity"`
	// SlotStepMinutes шаг генерации слотов-кандидатов; 0 = шаг равен длительности
	SlotStepMinutes int `json:"slotStepMinutes"`
	// DurationPolicy политика длительности при нескольких услугах: "sum" или "max"
	DurationPolicy          string `json:"durationPolicy"`
	AdvanceBookingDays      int    `json:"advanceBookingDays"`      // 0 = без ограничений
	MinBookingNoticeMinutes int    `json:"minBookingNoticeMinutes"` // Минимальное время до бронирования
}

// ToDomainConfig конвертирует request в domain модель
func (r *UpsertConfigRequest) ToDomainConfig() *domain.CarwashSlotConfig {
	return &domain.CarwashSlotConfig{
		CarwashID:               r.CarwashID,
		Capacity:                r.Capacity,
		SlotStepMinutes:         r.SlotStepMinutes,
		DurationPolicy:          domain.DurationPolicy(r.DurationPolicy),
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
	}
}

// DeleteConfigRequest запрос на удаление конфигурации
type DeleteConfigRequest struct {
	UserID    int64 `json:"userId"`
	CarwashID int64 `json:"carwashId"`
}

// Response модели

// ConfigResponse ответ с данными конфигурации слотов
type ConfigResponse struct {
	ID                      int64     `json:"id"`
	CarwashID               int64     `json:"carwashId"`
	Capacity                int       `json:"capacity"`
	SlotStepMinutes         int       `json:"slotStepMinutes"`
	DurationPolicy          string    `json:"durationPolicy"`
	AdvanceBookingDays      int       `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int       `json:"minBookingNoticeMinutes"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// Методы конвертации

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.CarwashSlotConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	return &ConfigResponse{
		ID:                      c.ID,
		CarwashID:               c.CarwashID,
		Capacity:                c.Capacity,
		SlotStepMinutes:         c.SlotStepMinutes,
		DurationPolicy:          string(c.DurationPolicy),
		AdvanceBookingDays:      c.AdvanceBookingDays,
		MinBookingNoticeMinutes: c.MinBookingNoticeMinutes,
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               c.UpdatedAt,
	}
}
