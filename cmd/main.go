package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/CWB-ReservationService/internal/api/handlers/cancel_booking"
	confirmReservationHandler "github.com/m04kA/CWB-ReservationService/internal/api/handlers/confirm_reservation"
	getBookingHandler "github.com/m04kA/CWB-ReservationService/internal/api/handlers/get_booking"
	getCarwashBookingsHandler "github.com/m04kA/CWB-ReservationService/internal/api/handlers/get_carwash_bookings"
	getCarwashConfigHandler "github.com/m04kA/CWB-ReservationService/internal/api/handlers/get_carwash_config"
	getSlotCandidatesHandler "github.com/m04kA/CWB-ReservationService/internal/api/handlers/get_slot_candidates"
	getUserBookingsHandler "github.com/m04kA/CWB-ReservationService/internal/api/handlers/get_user_bookings"
	reserveSlotHandler "github.com/m04kA/CWB-ReservationService/internal/api/handlers/reserve_slot"
	updateCarwashConfigHandler "github.com/m04kA/CWB-ReservationService/internal/api/handlers/update_carwash_config"
	"github.com/m04kA/CWB-ReservationService/internal/api/middleware"
	"github.com/m04kA/CWB-ReservationService/internal/config"
	"github.com/m04kA/CWB-ReservationService/internal/infra/events"
	"github.com/m04kA/CWB-ReservationService/internal/infra/lockstore"
	bookingRepo "github.com/m04kA/CWB-ReservationService/internal/infra/storage/booking"
	configRepo "github.com/m04kA/CWB-ReservationService/internal/infra/storage/config"
	partnerServiceClient "github.com/m04kA/CWB-ReservationService/internal/integrations/partnerservice"
	userServiceClient "github.com/m04kA/CWB-ReservationService/internal/integrations/userservice"
	"github.com/m04kA/CWB-ReservationService/internal/janitor"
	bookingsService "github.com/m04kA/CWB-ReservationService/internal/service/bookings"
	configService "github.com/m04kA/CWB-ReservationService/internal/service/config"
	pricingService "github.com/m04kA/CWB-ReservationService/internal/service/pricing"
	confirmReservationUC "github.com/m04kA/CWB-ReservationService/internal/usecase/confirm_reservation"
	getSlotCandidatesUC "github.com/m04kA/CWB-ReservationService/internal/usecase/get_slot_candidates"
	reserveSlotUC "github.com/m04kA/CWB-ReservationService/internal/usecase/reserve_slot"
	"github.com/m04kA/CWB-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/CWB-ReservationService/pkg/logger"
	"github.com/m04kA/CWB-ReservationService/pkg/metrics"
	"github.com/m04kA/CWB-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/CWB-ReservationService/pkg/txmanager"
)

// nopReservationMetrics заглушка метрик резервирования, когда метрики выключены
type nopReservationMetrics struct{}

func (nopReservationMetrics) IncReservationOutcome(outcome string) {}
func (nopReservationMetrics) ObserveLockWait(seconds float64)      {}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting CWB-ReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Подключаемся к Redis (хранилище блокировок слотов)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		log.Fatal("Failed to ping redis: %v", err)
	}
	pingCancel()
	log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	slotLock := lockstore.NewSlotLock(redisClient, log)

	// Инициализируем publisher событий бронирования
	// При выключенных events все публикации уходят в NopPublisher
	type BookingEventPublisher interface {
		PublishBookingEvent(ctx context.Context, event events.BookingEvent) error
	}
	var eventPublisher BookingEventPublisher = events.NopPublisher{}
	var kafkaPublisher *events.Publisher

	if cfg.Events.Enabled {
		kafkaPublisher, err = events.NewPublisher(cfg.Events.Brokers, cfg.Events.Topic, log)
		if err != nil {
			log.Fatal("Failed to initialize kafka publisher: %v", err)
		}
		eventPublisher = kafkaPublisher
		log.Info("Booking events publisher initialized (brokers=%v, topic=%s)",
			cfg.Events.Brokers, cfg.Events.Topic)
	} else {
		log.Info("Booking events disabled, using nop publisher")
	}

	// Инициализируем интеграционных клиентов
	partnerClient := partnerServiceClient.NewClient(
		cfg.PartnerService.URL,
		time.Duration(cfg.PartnerService.Timeout)*time.Second,
		log,
	)
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (PartnerService=%s timeout=%ds, UserService=%s timeout=%ds)",
		cfg.PartnerService.URL, cfg.PartnerService.Timeout, cfg.UserService.URL, cfg.UserService.Timeout)

	// Инициализируем репозитории и сервисы (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		configRepository  *configRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	var reservationMetrics reserveSlotUC.MetricsCollector = nopReservationMetrics{}

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		configRepository = configRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		reservationMetrics = metricsCollector
	} else {
		// Инициализируем репозитории без метрик
		bookingRepository = bookingRepo.NewRepository(db)
		configRepository = configRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	pricingSvc := pricingService.NewService(bookingRepository, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		partnerClient,
		eventPublisher,
		log,
	)
	configSvc := configService.NewService(
		configRepository,
		partnerClient,
		log,
	)

	// Инициализируем use cases
	reservationSettings := reserveSlotUC.Settings{
		LockTTL:           time.Duration(cfg.Reservation.LockTTLMs) * time.Millisecond,
		LockWaitTimeout:   time.Duration(cfg.Reservation.LockWaitTimeoutMs) * time.Millisecond,
		LockRetryInterval: time.Duration(cfg.Reservation.LockRetryIntervalMs) * time.Millisecond,
		HoldTTL:           time.Duration(cfg.Reservation.HoldTTLMinutes) * time.Minute,
	}

	reserveSlotUseCase := reserveSlotUC.NewUseCase(
		bookingRepository,
		configRepository,
		partnerClient,
		userClient,
		slotLock,
		pricingSvc,
		eventPublisher,
		txMgr,
		reservationMetrics,
		reservationSettings,
		log,
	)

	confirmReservationUseCase := confirmReservationUC.NewUseCase(
		bookingRepository,
		eventPublisher,
		txMgr,
		log,
	)

	getSlotCandidatesUseCase := getSlotCandidatesUC.NewUseCase(
		bookingRepository,
		configRepository,
		partnerClient,
		pricingSvc,
		log,
	)

	// Инициализируем handlers
	getSlotCandidates := getSlotCandidatesHandler.NewHandler(getSlotCandidatesUseCase, log)
	reserveSlot := reserveSlotHandler.NewHandler(reserveSlotUseCase, log)
	confirmReservation := confirmReservationHandler.NewHandler(confirmReservationUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getCarwashBookings := getCarwashBookingsHandler.NewHandler(bookingSvc, log)
	getCarwashConfig := getCarwashConfigHandler.NewHandler(configSvc, log)
	updateCarwashConfig := updateCarwashConfigHandler.NewHandler(configSvc, log)

	// Запускаем фоновую очистку протухших tentative-бронирований
	var holdJanitor *janitor.Janitor
	if cfg.Reservation.JanitorIntervalMinutes > 0 {
		holdJanitor = janitor.New(
			bookingRepository,
			time.Duration(cfg.Reservation.JanitorIntervalMinutes)*time.Minute,
			log,
		)
		holdJanitor.Start()
		log.Info("Hold janitor started (interval=%dm)", cfg.Reservation.JanitorIntervalMinutes)
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Слоты-кандидаты на дату с признаком доступности
	api.HandleFunc("/carwashes/{carwashId}/slot-candidates",
		getSlotCandidates.Handle).Methods(http.MethodGet)

	// Получение конфигурации слотов автомойки
	api.HandleFunc("/carwashes/{carwashId}/config",
		getCarwashConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Резервирование ---
	// Резервирование слота (tentative-бронирование с токеном)
	protected.HandleFunc("/reservations", reserveSlot.Handle).Methods(http.MethodPost)

	// Подтверждение резервирования по токену
	protected.HandleFunc("/reservations/confirm", confirmReservation.Handle).Methods(http.MethodPost)

	// --- Бронирования ---
	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление автомойкой (для менеджеров) ---
	// Список бронирований автомойки
	protected.HandleFunc("/carwashes/{carwashId}/bookings", getCarwashBookings.Handle).Methods(http.MethodGet)

	// Обновление конфигурации автомойки
	protected.HandleFunc("/carwashes/{carwashId}/config", updateCarwashConfig.Handle).Methods(http.MethodPut)

	// Сброс конфигурации автомойки к дефолтной
	protected.HandleFunc("/carwashes/{carwashId}/config", updateCarwashConfig.HandleDelete).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновую очистку
	if holdJanitor != nil {
		holdJanitor.Stop()
		log.Info("Hold janitor stopped")
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	// Закрываем publisher событий
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error("Failed to close kafka publisher: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
