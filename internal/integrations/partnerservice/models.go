package partnerservice

// Carwash модель автомойки из PartnerService
type Carwash struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	City         string       `json:"city"`
	Address      string       `json:"address"`
	IsActive     bool         `json:"is_active"`
	ManagerIDs   []int64      `json:"manager_ids"`
	WorkingHours WorkingHours `json:"working_hours"`
}

// WorkingHours расписание работы автомойки по дням недели
type WorkingHours struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// DaySchedule рабочие часы одного дня
type DaySchedule struct {
	IsOpen    bool    `json:"is_open"`
	OpenTime  *string `json:"open_time"`  // "09:00"
	CloseTime *string `json:"close_time"` // "18:00"
}

// WashService модель услуги автомойки из PartnerService
type WashService struct {
	ID              int64    `json:"id"`
	CarwashID       int64    `json:"carwash_id"`
	Name            string   `json:"name"`
	DurationMinutes int      `json:"duration_minutes"`
	Price           *float64 `json:"price"`
	// ResourceUnits сколько постов занимает услуга одновременно (минимум 1)
	ResourceUnits int `json:"resource_units"`
}

// ErrorResponse модель ошибки от PartnerService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
