package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/CWB-ReservationService/internal/domain"
	configRepo "github.com/m04kA/CWB-ReservationService/internal/infra/storage/config"
	partnerClient "github.com/m04kA/CWB-ReservationService/internal/integrations/partnerservice"
	"github.com/m04kA/CWB-ReservationService/internal/service/config/models"
)

// Service сервис для работы с конфигурацией слотов автомойки
type Service struct {
	configRepo ConfigRepository
	partner    PartnerServiceClient
	logger     Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(
	configRepo ConfigRepository,
	partner PartnerServiceClient,
	logger Logger,
) *Service {
	return &Service{
		configRepo: configRepo,
		partner:    partner,
		logger:     logger,
	}
}

// GetByCarwash получает конфигурацию слотов автомойки
// Публичный метод - используется движком резервирования и отдается клиентам
// Если конфигурация не задана, возвращает дефолтные значения
func (s *Service) GetByCarwash(ctx context.Context, carwashID int64) (*models.ConfigResponse, error) {
	s.logger.Info("GetByCarwash: fetching config for carwash=%d", carwashID)

	config, err := s.configRepo.GetByCarwash(ctx, carwashID)
	if err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			s.logger.Info("GetByCarwash: no config for carwash=%d, returning defaults", carwashID)
			return models.FromDomainConfig(defaultConfig(carwashID)), nil
		}
		s.logger.Error("GetByCarwash: repository error for carwash=%d: %v", carwashID, err)
		return nil, fmt.Errorf("%w: GetByCarwash - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByCarwash: successfully fetched config id=%d", config.ID)
	return models.FromDomainConfig(config), nil
}

// Upsert создает или обновляет конфигурацию слотов автомойки
// Доступно только менеджерам автомойки
func (s *Service) Upsert(ctx context.Context, req *models.UpsertConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Upsert: saving config for carwash=%d by user=%d", req.CarwashID, req.UserID)

	// 1. Валидируем входные данные
	if err := s.validateConfigData(req); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права доступа (только менеджер автомойки)
	if err := s.checkManagerAccess(ctx, req.CarwashID, req.UserID); err != nil {
		return nil, err
	}

	// 3. Сохраняем конфигурацию (INSERT ... ON CONFLICT DO UPDATE)
	saved, err := s.configRepo.Upsert(ctx, req.ToDomainConfig())
	if err != nil {
		s.logger.Error("Upsert: repository error for carwash=%d: %v", req.CarwashID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: successfully saved config id=%d for carwash=%d", saved.ID, req.CarwashID)
	return models.FromDomainConfig(saved), nil
}

// Delete удаляет конфигурацию слотов автомойки
// После удаления автомойка обслуживается с дефолтными настройками
// Доступно только менеджерам автомойки
func (s *Service) Delete(ctx context.Context, req *models.DeleteConfigRequest) error {
	s.logger.Info("Delete: deleting config for carwash=%d by user=%d", req.CarwashID, req.UserID)

	// Проверяем права доступа (только менеджер автомойки)
	if err := s.checkManagerAccess(ctx, req.CarwashID, req.UserID); err != nil {
		return err
	}

	if err := s.configRepo.Delete(ctx, req.CarwashID); err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			s.logger.Warn("Delete: config for carwash=%d not found", req.CarwashID)
			return ErrConfigNotFound
		}
		s.logger.Error("Delete: repository error for carwash=%d: %v", req.CarwashID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted config for carwash=%d", req.CarwashID)
	return nil
}

// Вспомогательные методы

// validateConfigData проверяет бизнес-ограничения конфигурации
func (s *Service) validateConfigData(req *models.UpsertConfigRequest) error {
	if req.CarwashID <= 0 {
		return fmt.Errorf("%w: carwashID must be positive", ErrInvalidInput)
	}

	if req.Capacity < domain.MinCapacity || req.Capacity > domain.MaxCapacity {
		return fmt.Errorf("%w: capacity must be between %d and %d",
			ErrInvalidInput, domain.MinCapacity, domain.MaxCapacity)
	}

	if req.SlotStepMinutes < domain.MinSlotStepMinutes || req.SlotStepMinutes > domain.MaxSlotStepMinutes {
		return fmt.Errorf("%w: slotStepMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
	}

	if !domain.DurationPolicy(req.DurationPolicy).IsValid() {
		return fmt.Errorf("%w: durationPolicy must be %q or %q",
			ErrInvalidInput, domain.PolicySum, domain.PolicyMax)
	}

	if req.AdvanceBookingDays < domain.MinAdvanceBookingDays || req.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if req.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || req.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}

	return nil
}

// checkManagerAccess проверяет, что пользователь является менеджером автомойки
func (s *Service) checkManagerAccess(ctx context.Context, carwashID int64, userID int64) error {
	carwash, err := s.partner.GetCarwash(ctx, carwashID)
	if err != nil {
		if errors.Is(err, partnerClient.ErrCarwashNotFound) {
			s.logger.Warn("checkManagerAccess: carwash id=%d not found", carwashID)
			return ErrCarwashNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get carwash id=%d: %v", carwashID, err)
		return fmt.Errorf("%w: failed to get carwash: %v", ErrInternal, err)
	}

	for _, managerID := range carwash.ManagerIDs {
		if managerID == userID {
			return nil
		}
	}

	s.logger.Warn("checkManagerAccess: user=%d is not a manager of carwash=%d", userID, carwashID)
	return ErrAccessDenied
}

// defaultConfig возвращает конфигурацию с дефолтными значениями
func defaultConfig(carwashID int64) *domain.CarwashSlotConfig {
	return &domain.CarwashSlotConfig{
		CarwashID:               carwashID,
		Capacity:                domain.DefaultCapacity,
		SlotStepMinutes:         domain.DefaultSlotStepMinutes,
		DurationPolicy:          domain.DefaultDurationPolicy,
		AdvanceBookingDays:      domain.DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: domain.DefaultMinBookingNoticeMinutes,
	}
}
