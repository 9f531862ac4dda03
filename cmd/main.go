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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	approvalHistoryHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/approval_history"
	approveRequestHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/approve_request"
	bookingStatsHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/booking_stats"
	cancelRequestHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/cancel_request"
	checkinBookingHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/checkin_booking"
	createApprovalHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/create_approval"
	createBookingHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/create_booking"
	deleteApprovalHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/delete_approval"
	deleteBookingHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/delete_booking"
	getApprovalHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/get_approval"
	getBookingHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/get_booking"
	listApprovalsHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/list_approvals"
	listBookingsHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/list_bookings"
	listNotificationSettingsHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/list_notification_settings"
	listNotificationsHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/list_notifications"
	markAllNotificationsReadHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/mark_all_notifications_read"
	markNotificationReadHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/mark_notification_read"
	myApprovalsHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/my_approvals"
	rejectRequestHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/reject_request"
	returnRequestHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/return_request"
	startDrainHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/start_drain"
	stopDrainHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/stop_drain"
	updateBookingHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/update_booking"
	upsertNotificationSettingHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/upsert_notification_setting"
	voidRequestHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/void_request"
	weightInHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/weight_in"
	weightOutHandler "github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers/weight_out"
	"github.com/apiwat1229/ServiceHub-sub002/internal/api/middleware"
	"github.com/apiwat1229/ServiceHub-sub002/internal/config"
	"github.com/apiwat1229/ServiceHub-sub002/internal/infra/migrate"
	approvalRepo "github.com/apiwat1229/ServiceHub-sub002/internal/infra/storage/approval"
	bookingRepo "github.com/apiwat1229/ServiceHub-sub002/internal/infra/storage/booking"
	notificationRepo "github.com/apiwat1229/ServiceHub-sub002/internal/infra/storage/notification"
	rubberTypeRepo "github.com/apiwat1229/ServiceHub-sub002/internal/infra/storage/rubbertype"
	supplierRepo "github.com/apiwat1229/ServiceHub-sub002/internal/infra/storage/supplier"
	userRepo "github.com/apiwat1229/ServiceHub-sub002/internal/infra/storage/user"
	approvalsService "github.com/apiwat1229/ServiceHub-sub002/internal/service/approvals"
	bookingsService "github.com/apiwat1229/ServiceHub-sub002/internal/service/bookings"
	notificationsService "github.com/apiwat1229/ServiceHub-sub002/internal/service/notifications"
	createBookingUC "github.com/apiwat1229/ServiceHub-sub002/internal/usecase/create_booking"
	approvalExpiry "github.com/apiwat1229/ServiceHub-sub002/internal/worker/approval_expiry"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/dbmetrics"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/logger"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/metrics"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/simpletxmanager"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/txmanager"
)

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

	log.Info("Starting ServiceHub-sub002...")
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

	// Применяем миграции схемы
	if cfg.Migrations.Enabled {
		if err := migrate.Up(db, cfg.Migrations.Path); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Migrations applied from %s", cfg.Migrations.Path)
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		approvalRepository     *approvalRepo.Repository
		notificationRepository *notificationRepo.Repository
		userRepository         *userRepo.Repository
		supplierRepository     *supplierRepo.Repository
		rubberTypeRepository   *rubberTypeRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		approvalRepository = approvalRepo.NewRepository(wrappedDB)
		notificationRepository = notificationRepo.NewRepository(wrappedDB)
		userRepository = userRepo.NewRepository(wrappedDB)
		supplierRepository = supplierRepo.NewRepository(wrappedDB)
		rubberTypeRepository = rubberTypeRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		approvalRepository = approvalRepo.NewRepository(db)
		notificationRepository = notificationRepo.NewRepository(db)
		userRepository = userRepo.NewRepository(db)
		supplierRepository = supplierRepo.NewRepository(db)
		rubberTypeRepository = rubberTypeRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Таблица слотов приёмки
	slotTable := cfg.SlotTable()

	// Инициализируем сервисы
	notificationSvc := notificationsService.NewService(
		notificationRepository,
		userRepository,
		log,
	)

	applyStep := approvalsService.NewApplyStep(
		bookingRepository,
		supplierRepository,
		rubberTypeRepository,
	)

	approvalSvc := approvalsService.NewService(
		approvalRepository,
		applyStep,
		notificationSvc,
		time.Duration(cfg.Approvals.DefaultTTLHours)*time.Hour,
		log,
	)

	bookingSvc := bookingsService.NewService(
		bookingRepository,
		approvalSvc,
		notificationSvc,
		slotTable,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		slotTable,
		txMgr,
		notificationSvc,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	bookingStats := bookingStatsHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	checkinBooking := checkinBookingHandler.NewHandler(bookingSvc, log)
	startDrain := startDrainHandler.NewHandler(bookingSvc, log)
	stopDrain := stopDrainHandler.NewHandler(bookingSvc, log)
	weightIn := weightInHandler.NewHandler(bookingSvc, log)
	weightOut := weightOutHandler.NewHandler(bookingSvc, log)

	createApproval := createApprovalHandler.NewHandler(approvalSvc, log)
	listApprovals := listApprovalsHandler.NewHandler(approvalSvc, log)
	myApprovals := myApprovalsHandler.NewHandler(approvalSvc, log)
	getApproval := getApprovalHandler.NewHandler(approvalSvc, log)
	approvalHistory := approvalHistoryHandler.NewHandler(approvalSvc, log)
	approveRequest := approveRequestHandler.NewHandler(approvalSvc, log)
	rejectRequest := rejectRequestHandler.NewHandler(approvalSvc, log)
	returnRequest := returnRequestHandler.NewHandler(approvalSvc, log)
	cancelRequest := cancelRequestHandler.NewHandler(approvalSvc, log)
	voidRequest := voidRequestHandler.NewHandler(approvalSvc, log)
	deleteApproval := deleteApprovalHandler.NewHandler(approvalSvc, log)

	listNotifications := listNotificationsHandler.NewHandler(notificationSvc, log)
	markNotificationRead := markNotificationReadHandler.NewHandler(notificationSvc, log)
	markAllNotificationsRead := markAllNotificationsReadHandler.NewHandler(notificationSvc, log)
	listNotificationSettings := listNotificationSettingsHandler.NewHandler(notificationSvc, log)
	upsertNotificationSetting := upsertNotificationSettingHandler.NewHandler(notificationSvc, log)

	// Запускаем фоновую проверку просроченных заявок
	workerCtx, stopWorker := context.WithCancel(context.Background())
	expiryWorker := approvalExpiry.New(
		approvalSvc,
		time.Duration(cfg.Approvals.ExpirySweepInterval)*time.Second,
		&approvalExpiry.RealTimeProvider{},
		log,
	)
	go expiryWorker.Run(workerCtx)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix, актор резолвится по заголовку X-User-ID
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Actor(userRepository, log))

	// --- Бронирования ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/stats", bookingStats.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}", updateBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{id}", deleteBooking.Handle).Methods(http.MethodDelete)

	// Жизненный цикл приёмки
	api.HandleFunc("/bookings/{id}/checkin", checkinBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/drain/start", startDrain.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/drain/stop", stopDrain.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/weight-in", weightIn.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/weight-out", weightOut.Handle).Methods(http.MethodPost)

	// --- Согласования ---
	api.HandleFunc("/approvals", createApproval.Handle).Methods(http.MethodPost)
	api.HandleFunc("/approvals", listApprovals.Handle).Methods(http.MethodGet)
	api.Handle("/approvals/my",
		middleware.RequireActor(http.HandlerFunc(myApprovals.Handle))).Methods(http.MethodGet)
	api.HandleFunc("/approvals/{id}", getApproval.Handle).Methods(http.MethodGet)
	api.HandleFunc("/approvals/{id}", deleteApproval.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/approvals/{id}/history", approvalHistory.Handle).Methods(http.MethodGet)
	api.HandleFunc("/approvals/{id}/approve", approveRequest.Handle).Methods(http.MethodPost)
	api.HandleFunc("/approvals/{id}/reject", rejectRequest.Handle).Methods(http.MethodPost)
	api.HandleFunc("/approvals/{id}/return", returnRequest.Handle).Methods(http.MethodPost)
	api.HandleFunc("/approvals/{id}/cancel", cancelRequest.Handle).Methods(http.MethodPost)
	api.HandleFunc("/approvals/{id}/void", voidRequest.Handle).Methods(http.MethodPost)

	// --- Уведомления ---
	api.HandleFunc("/notifications/settings", listNotificationSettings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/notifications/settings", upsertNotificationSetting.Handle).Methods(http.MethodPut)
	api.Handle("/notifications",
		middleware.RequireActor(http.HandlerFunc(listNotifications.Handle))).Methods(http.MethodGet)
	api.Handle("/notifications/read-all",
		middleware.RequireActor(http.HandlerFunc(markAllNotificationsRead.Handle))).Methods(http.MethodPost)
	api.Handle("/notifications/{id}/read",
		middleware.RequireActor(http.HandlerFunc(markNotificationRead.Handle))).Methods(http.MethodPost)

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

	// Останавливаем фоновый обход заявок
	stopWorker()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
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
