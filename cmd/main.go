package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/CourtBookingService/internal/api/handlers/cancel_booking"
	completePaymentHandler "github.com/m04kA/CourtBookingService/internal/api/handlers/complete_payment"
	createBookingHandler "github.com/m04kA/CourtBookingService/internal/api/handlers/create_booking"
	createCheckoutHandler "github.com/m04kA/CourtBookingService/internal/api/handlers/create_checkout_session"
	getAvailabilityHandler "github.com/m04kA/CourtBookingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/CourtBookingService/internal/api/handlers/get_booking"
	getMemberQuotaHandler "github.com/m04kA/CourtBookingService/internal/api/handlers/get_member_quota"
	getSessionStatusHandler "github.com/m04kA/CourtBookingService/internal/api/handlers/get_session_status"
	"github.com/m04kA/CourtBookingService/internal/api/handlers/health"
	membersHandler "github.com/m04kA/CourtBookingService/internal/api/handlers/members"
	releasePendingHandler "github.com/m04kA/CourtBookingService/internal/api/handlers/release_pending_booking"
	"github.com/m04kA/CourtBookingService/internal/api/middleware"
	"github.com/m04kA/CourtBookingService/internal/config"
	bookingRepo "github.com/m04kA/CourtBookingService/internal/infra/storage/booking"
	memberRepo "github.com/m04kA/CourtBookingService/internal/infra/storage/member"
	"github.com/m04kA/CourtBookingService/internal/infra/storage/migrations"
	slotRepo "github.com/m04kA/CourtBookingService/internal/infra/storage/slot"
	"github.com/m04kA/CourtBookingService/internal/integrations/notification"
	"github.com/m04kA/CourtBookingService/internal/integrations/payments"
	"github.com/m04kA/CourtBookingService/internal/scheduler"
	bookingsService "github.com/m04kA/CourtBookingService/internal/service/bookings"
	membersService "github.com/m04kA/CourtBookingService/internal/service/members"
	"github.com/m04kA/CourtBookingService/internal/service/pricing"
	cancelBookingUC "github.com/m04kA/CourtBookingService/internal/usecase/cancel_booking"
	completePaymentUC "github.com/m04kA/CourtBookingService/internal/usecase/complete_payment"
	createBookingUC "github.com/m04kA/CourtBookingService/internal/usecase/create_booking"
	createCheckoutUC "github.com/m04kA/CourtBookingService/internal/usecase/create_checkout_session"
	getAvailabilityUC "github.com/m04kA/CourtBookingService/internal/usecase/get_availability"
	getSessionStatusUC "github.com/m04kA/CourtBookingService/internal/usecase/get_session_status"
	releasePendingUC "github.com/m04kA/CourtBookingService/internal/usecase/release_pending_booking"
	releaseStaleUC "github.com/m04kA/CourtBookingService/internal/usecase/release_stale_bookings"
	"github.com/m04kA/CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/CourtBookingService/pkg/logger"
	"github.com/m04kA/CourtBookingService/pkg/metrics"
	"github.com/m04kA/CourtBookingService/pkg/txmanager"
)

// database соединение для репозиториев и менеджера транзакций: *sql.DB или *dbmetrics.DB
type database interface {
	dbmetrics.DBExecutor
	txmanager.Beginner
}

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

	log.Info("Starting CourtBookingService...")

	settings, err := cfg.CourtSettings()
	if err != nil {
		log.Fatal("Invalid court settings: %v", err)
	}
	log.Info("Courts: %d, hours %02d-%02d, timezone %s",
		settings.Courts, settings.OpenHour, settings.CloseHour, settings.Location)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if err := migrations.Up(db, cfg.Database.MigrationsPath); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}
	log.Info("Migrations applied from %s", cfg.Database.MigrationsPath)

	var conn database = db
	if cfg.Metrics.Enabled {
		conn = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	}

	// Репозитории и транзакции
	slotRepository := slotRepo.NewRepository(conn)
	bookingRepository := bookingRepo.NewRepository(conn)
	memberRepository := memberRepo.NewRepository(conn, settings.YearlyAllowance)
	txMgr := txmanager.NewTransactionManager(conn)

	// Очередь писем в Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to redis at %s: %v", cfg.Redis.Addr, err)
	}
	log.Info("Connected to redis (addr=%s, queue=%s)", cfg.Redis.Addr, cfg.Redis.Queue)

	dispatcher := notification.NewDispatcher(redisClient, notification.DispatcherConfig{
		Queue:        cfg.Redis.Queue,
		ClientURL:    cfg.ClientURL(),
		ContactEmail: cfg.SMTP.FromEmail,
		Location:     settings.Location,
	}, metricsCollector, log)

	sender := notification.NewSMTPSender(notification.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.FromEmail,
		FromName: cfg.SMTP.FromName,
	})

	workersCtx, stopWorkers := context.WithCancel(context.Background())
	var workersWG sync.WaitGroup
	for i := 0; i < cfg.SMTP.Workers; i++ {
		worker := notification.NewWorker(redisClient, notification.WorkerConfig{
			Queue:       cfg.Redis.Queue,
			FailedQueue: cfg.Redis.Failed,
		}, sender, metricsCollector, log)

		workersWG.Add(1)
		go func() {
			defer workersWG.Done()
			worker.Run(workersCtx)
		}()
	}
	log.Info("Email workers started: %d", cfg.SMTP.Workers)

	// Платёжный провайдер
	paymentClient := payments.NewClient(payments.Config{
		SecretKey: cfg.Stripe.SecretKey,
		Currency:  cfg.Stripe.Currency,
		ClientURL: cfg.ClientURL(),
	}, log)

	// Инициализируем сервисы
	calculator := pricing.NewCalculator(settings)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		slotRepository,
		memberRepository,
		settings.Location,
		log,
	)
	memberSvc := membersService.NewService(memberRepository, settings.Location, log)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(slotRepository, settings, log)

	createBookingUseCase := createBookingUC.NewUseCase(
		slotRepository,
		bookingRepository,
		memberRepository,
		calculator,
		dispatcher,
		metricsCollector,
		txMgr,
		settings,
		log,
	)

	completePaymentUseCase := completePaymentUC.NewUseCase(
		bookingSvc,
		bookingRepository,
		slotRepository,
		dispatcher,
		txMgr,
		log,
	)

	releasePendingUseCase := releasePendingUC.NewUseCase(
		bookingRepository,
		bookingSvc,
		metricsCollector,
		txMgr,
		log,
	)

	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingSvc,
		bookingRepository,
		paymentClient,
		dispatcher,
		metricsCollector,
		txMgr,
		log,
	)

	createCheckoutUseCase := createCheckoutUC.NewUseCase(
		bookingRepository,
		paymentClient,
		metricsCollector,
		cfg.Sweep.PendingTTL(),
		log,
	)

	getSessionStatusUseCase := getSessionStatusUC.NewUseCase(paymentClient, log)

	// Фоновое освобождение неоплаченных бронирований
	var sweeper *scheduler.Sweeper
	if cfg.Sweep.Enabled {
		releaseStaleUseCase := releaseStaleUC.NewUseCase(
			bookingRepository,
			releasePendingUseCase,
			releaseStaleUC.Config{
				PendingTTL: cfg.Sweep.PendingTTL(),
				BatchSize:  uint64(cfg.Sweep.BatchSize),
			},
			log,
		)
		sweeper = scheduler.NewSweeper(releaseStaleUseCase, cfg.Sweep.Interval(), log)
		sweeper.Start()
		log.Info("Pending booking sweep started (interval=%s, ttl=%s)",
			cfg.Sweep.Interval(), cfg.Sweep.PendingTTL())
	}

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, settings.Location, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getMemberQuota := getMemberQuotaHandler.NewHandler(memberSvc, log)
	members := membersHandler.NewHandler(memberSvc, log)
	createCheckout := createCheckoutHandler.NewHandler(createCheckoutUseCase, log)
	getSessionStatus := getSessionStatusHandler.NewHandler(getSessionStatusUseCase, log)
	completePayment := completePaymentHandler.NewHandler(completePaymentUseCase, bookingSvc, log)
	releasePending := releasePendingHandler.NewHandler(releasePendingUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.HTTPMetrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.CORS(cfg.ClientURL()))

	// Preflight обрабатывается CORS middleware, маршрут нужен только для совпадения в mux
	api.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	// ============================================================
	// READ ROUTES
	// ============================================================

	api.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// availability регистрируется раньше /bookings/{bookingId}
	api.HandleFunc("/bookings/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	api.HandleFunc("/members", members.List).Methods(http.MethodGet)
	api.HandleFunc("/members/{email}", getMemberQuota.Handle).Methods(http.MethodGet)

	api.HandleFunc("/payments/session-status", getSessionStatus.Handle).Methods(http.MethodGet)

	// ============================================================
	// MUTATING ROUTES (ограничение по IP)
	// ============================================================

	mutating := api.PathPrefix("").Subrouter()

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)
		mutating.Use(rateLimiter.Middleware)
		log.Info("Rate limit enabled (rps=%.2f, burst=%d)", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// --- Бронирования ---
	mutating.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	mutating.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)

	// --- Оплата ---
	mutating.HandleFunc("/payments/create-checkout-session", createCheckout.Handle).Methods(http.MethodPost)
	mutating.HandleFunc("/payments/release-pending-booking", releasePending.Handle).Methods(http.MethodPost)
	mutating.HandleFunc("/payments/{bookingId}/complete", completePayment.Handle).Methods(http.MethodPut)

	// --- Участники клуба ---
	mutating.HandleFunc("/members", members.Create).Methods(http.MethodPost)
	mutating.HandleFunc("/members", members.Update).Methods(http.MethodPut)
	mutating.HandleFunc("/members/{email}", members.Delete).Methods(http.MethodDelete)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if sweeper != nil {
		sweeper.Stop()
		log.Info("Pending booking sweep stopped")
	}

	if rateLimiter != nil {
		rateLimiter.Close()
	}

	// Письма, уже взятые из очереди, досылаются; остальные остаются в Redis
	stopWorkers()
	workersWG.Wait()
	if queued, err := dispatcher.QueueLength(context.Background()); err == nil && queued > 0 {
		log.Warn("Email workers stopped, %d emails left in queue %s", queued, cfg.Redis.Queue)
	} else {
		log.Info("Email workers stopped")
	}

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
