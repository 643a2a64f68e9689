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

	adminAuthHandler "github.com/tripointhq/TPD-BookingService/internal/api/handlers/admin_auth"
	adminCompleteBookingHandler "github.com/tripointhq/TPD-BookingService/internal/api/handlers/admin_complete_booking"
	adminListBookingsHandler "github.com/tripointhq/TPD-BookingService/internal/api/handlers/admin_list_bookings"
	adminMarkPaidHandler "github.com/tripointhq/TPD-BookingService/internal/api/handlers/admin_mark_paid"
	checkoutSessionHandler "github.com/tripointhq/TPD-BookingService/internal/api/handlers/checkout_session"
	computeZoneHandler "github.com/tripointhq/TPD-BookingService/internal/api/handlers/compute_zone"
	contactSubmitHandler "github.com/tripointhq/TPD-BookingService/internal/api/handlers/contact_submit"
	getAvailabilityHandler "github.com/tripointhq/TPD-BookingService/internal/api/handlers/get_availability"
	listServicesHandler "github.com/tripointhq/TPD-BookingService/internal/api/handlers/list_services"
	paymentDetailsHandler "github.com/tripointhq/TPD-BookingService/internal/api/handlers/payment_details"
	reserveBookingHandler "github.com/tripointhq/TPD-BookingService/internal/api/handlers/reserve_booking"
	stripeWebhookHandler "github.com/tripointhq/TPD-BookingService/internal/api/handlers/stripe_webhook"
	"github.com/tripointhq/TPD-BookingService/internal/api/middleware"
	"github.com/tripointhq/TPD-BookingService/internal/config"
	"github.com/tripointhq/TPD-BookingService/internal/domain"
	bookingRepo "github.com/tripointhq/TPD-BookingService/internal/infra/storage/booking"
	paymentEventRepo "github.com/tripointhq/TPD-BookingService/internal/infra/storage/paymentevent"
	gcalendarClient "github.com/tripointhq/TPD-BookingService/internal/integrations/gcalendar"
	routingClient "github.com/tripointhq/TPD-BookingService/internal/integrations/routing"
	stripepayClient "github.com/tripointhq/TPD-BookingService/internal/integrations/stripepay"
	zohomailClient "github.com/tripointhq/TPD-BookingService/internal/integrations/zohomail"
	adminAuthService "github.com/tripointhq/TPD-BookingService/internal/service/adminauth"
	bookingsService "github.com/tripointhq/TPD-BookingService/internal/service/bookings"
	intervalsService "github.com/tripointhq/TPD-BookingService/internal/service/intervals"
	pricingService "github.com/tripointhq/TPD-BookingService/internal/service/pricing"
	zoningService "github.com/tripointhq/TPD-BookingService/internal/service/zoning"
	getAvailabilityUC "github.com/tripointhq/TPD-BookingService/internal/usecase/get_availability"
	processPaymentEventUC "github.com/tripointhq/TPD-BookingService/internal/usecase/process_payment_event"
	reserveBookingUC "github.com/tripointhq/TPD-BookingService/internal/usecase/reserve_booking"
	"github.com/tripointhq/TPD-BookingService/pkg/dbmetrics"
	"github.com/tripointhq/TPD-BookingService/pkg/logger"
	"github.com/tripointhq/TPD-BookingService/pkg/metrics"
	"github.com/tripointhq/TPD-BookingService/pkg/ratelimit"
	"github.com/tripointhq/TPD-BookingService/pkg/simpletxmanager"
	"github.com/tripointhq/TPD-BookingService/pkg/txmanager"
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

	log.Info("Starting TPD-BookingService...")
	log.Info("Configuration loaded from config.toml")

	location, err := time.LoadLocation(cfg.Business.Timezone)
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Business.Timezone, err)
	}

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

	// Инициализируем интеграционных клиентов
	routeClient := routingClient.NewClient(
		cfg.Routing.URL,
		time.Duration(cfg.Routing.Timeout)*time.Second,
		log,
	)

	calendarClient, err := gcalendarClient.NewClient(
		context.Background(),
		cfg.Calendar.CalendarID,
		cfg.Calendar.ClientID,
		cfg.Calendar.ClientSecret,
		cfg.Calendar.RefreshToken,
		log,
	)
	if err != nil {
		log.Fatal("Failed to initialize calendar client: %v", err)
	}

	stripeClient := stripepayClient.NewClient(
		cfg.Stripe.SecretKey,
		cfg.Stripe.WebhookSecret,
		cfg.Stripe.SuccessURLBase,
		log,
	)

	mailer := zohomailClient.NewClient(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.FromEmail,
		log,
	)
	log.Info("Integration clients initialized (routing=%s, calendar=%s, smtp=%s)",
		cfg.Routing.URL, cfg.Calendar.CalendarID, cfg.SMTP.Host)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		paymentEventRepository *paymentEventRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		paymentEventRepository = paymentEventRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		paymentEventRepository = paymentEventRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Каталог услуг и базы выезда
	catalog := domain.DefaultCatalog()

	bases := make([]zoningService.Base, 0, len(cfg.Bases))
	for _, b := range cfg.Bases {
		bases = append(bases, zoningService.Base{Name: b.Name, Postcode: b.Postcode})
	}

	pendingTTL := time.Duration(cfg.Business.PendingTTLMinutes) * time.Minute

	// Инициализируем сервисы
	zoningSvc := zoningService.NewService(routeClient, bases, log)
	pricingSvc := pricingService.NewService(catalog)
	intervalsSvc := intervalsService.NewService(
		calendarClient,
		bookingRepository,
		cfg.Business.EarlyLateMarkers,
		cfg.Business.EarlyLateBufferMinutes,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		paymentEventRepository,
		stripeClient,
		calendarClient,
		mailer,
		catalog,
		pendingTTL,
		cfg.Business.SiteURL,
		log,
	)

	loginLimiter := ratelimit.NewStore(
		time.Duration(cfg.Admin.LoginRateWindowSeconds)*time.Second,
		cfg.Admin.LoginRateMaxAttempts,
	)
	adminAuthSvc := adminAuthService.NewService(
		cfg.Admin.Password,
		cfg.Admin.SessionSecret,
		time.Duration(cfg.Admin.SessionTTLHours)*time.Hour,
		loginLimiter,
		log,
	)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		zoningSvc,
		pricingSvc,
		intervalsSvc,
		bookingRepository,
		location,
		pendingTTL,
		log,
	)

	reserveBookingUseCase := reserveBookingUC.NewUseCase(
		bookingRepository,
		zoningSvc,
		pricingSvc,
		mailer,
		txMgr,
		reserveBookingUC.Config{
			Location:      location,
			PendingTTL:    pendingTTL,
			SiteURL:       cfg.Business.SiteURL,
			InternalEmail: cfg.Business.InternalEmail,
		},
		log,
	)

	processPaymentEventUseCase := processPaymentEventUC.NewUseCase(
		stripeClient,
		bookingRepository,
		paymentEventRepository,
		calendarClient,
		mailer,
		catalog,
		processPaymentEventUC.Config{
			Location:      location,
			TechName:      cfg.Business.TechName,
			InternalEmail: cfg.Business.InternalEmail,
		},
		log,
	)

	// Инициализируем handlers
	computeZone := computeZoneHandler.NewHandler(zoningSvc, log)
	listServices := listServicesHandler.NewHandler(catalog, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	reserveBooking := reserveBookingHandler.NewHandler(reserveBookingUseCase, log)
	paymentDetails := paymentDetailsHandler.NewHandler(bookingSvc, log)
	checkoutSession := checkoutSessionHandler.NewHandler(bookingSvc, log)
	stripeWebhook := stripeWebhookHandler.NewHandler(processPaymentEventUseCase, log)
	contactSubmit := contactSubmitHandler.NewHandler(mailer, cfg.Business.InternalEmail, log)
	adminAuth := adminAuthHandler.NewHandler(adminAuthSvc, log)
	adminListBookings := adminListBookingsHandler.NewHandler(bookingSvc, log)
	adminCompleteBooking := adminCompleteBookingHandler.NewHandler(bookingSvc, log)
	adminMarkPaid := adminMarkPaidHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Webhook платежного провайдера (вне /api/v1: сырое тело + подпись)
	r.HandleFunc("/webhooks/stripe", stripeWebhook.Handle).Methods(http.MethodPost)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Классификация посткода по зонам покрытия
	api.HandleFunc("/zone", computeZone.Handle).Methods(http.MethodPost)

	// Каталог услуг с ценами по зонам
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)

	// Сетка доступности для бандла услуг
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodPost)

	// Резервация слота
	api.HandleFunc("/bookings", reserveBooking.Handle).Methods(http.MethodPost)

	// Платежная страница клиента
	api.HandleFunc("/pay/{token}", paymentDetails.Handle).Methods(http.MethodGet)
	api.HandleFunc("/pay/{token}/checkout", checkoutSession.Handle).Methods(http.MethodPost)

	// Контактная форма
	api.HandleFunc("/contact", contactSubmit.Handle).Methods(http.MethodPost)

	// Вход в админ-панель
	api.HandleFunc("/admin/login", adminAuth.HandleLogin).Methods(http.MethodPost)
	api.HandleFunc("/admin/logout", adminAuth.HandleLogout).Methods(http.MethodPost)
	api.HandleFunc("/admin/session", adminAuth.HandleSession).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (требуют сессионную куку)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(adminAuthSvc, log))

	// Список бронирований
	admin.HandleFunc("/bookings", adminListBookings.Handle).Methods(http.MethodGet)

	// Выезд выполнен
	admin.HandleFunc("/bookings/{bookingId}/complete", adminCompleteBooking.Handle).Methods(http.MethodPost)

	// Остаток оплачен вне провайдера
	admin.HandleFunc("/bookings/{bookingId}/mark-paid", adminMarkPaid.Handle).Methods(http.MethodPost)

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
