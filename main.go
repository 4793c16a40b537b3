package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"vexstorm/config"
	"vexstorm/cron"
	"vexstorm/database"
	"vexstorm/database/postgres"
	contactRepo "vexstorm/database/repository/contact"
	registrationRepo "vexstorm/database/repository/registration"
	"vexstorm/handlers"
	"vexstorm/routes"
	"vexstorm/services/contact"
	"vexstorm/services/digest"
	"vexstorm/services/notification"
	"vexstorm/services/otp"
	"vexstorm/services/registration"
	"vexstorm/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// stores bundles the persistence collaborators chosen by STORAGE_DRIVER.
type stores struct {
	registrations registrationRepo.RegistrationRepository
	contacts      contactRepo.ContactRepository
	checks        []utils.HealthCheck
	close         func()
}

func initStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (*stores, error) {
	switch cfg.StorageDriver {
	case "mongo":
		client, err := database.InitDB(cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		regs, err := registrationRepo.NewMongoRegistrationRepo(db)
		if err != nil {
			return nil, err
		}
		contacts, err := contactRepo.NewMongoContactRepo(db)
		if err != nil {
			return nil, err
		}
		return &stores{
			registrations: regs,
			contacts:      contacts,
			checks: []utils.HealthCheck{{
				Name: "mongo",
				Ping: func(ctx context.Context) error { return client.Ping(ctx, nil) },
			}},
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = database.CloseDB(ctx)
			},
		}, nil

	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		logger.Info("Connected to Postgres and applied migrations")
		return &stores{
			registrations: postgres.NewRegistrationStore(db),
			contacts:      postgres.NewContactStore(db),
			checks:        []utils.HealthCheck{{Name: "postgres", Ping: db.Ping}},
			close:         db.Close,
		}, nil

	case "memory":
		logger.Warn("Using in-memory storage; data is lost on restart")
		return &stores{
			registrations: registrationRepo.NewMemoryRegistrationRepo(),
			contacts:      contactRepo.NewMemoryContactRepo(),
			close:         func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

func initOTPStore(cfg config.Config, logger *zap.Logger) (otp.Store, *utils.HealthCheck, error) {
	if cfg.OTPStore != "redis" {
		logger.Info("Using in-memory OTP store")
		return otp.NewMemoryStore(), nil, nil
	}
	if err := utils.InitOTPCache(); err != nil {
		return nil, nil, err
	}
	client := utils.GetOTPCacheClient()
	check := &utils.HealthCheck{
		Name: "redis",
		Ping: func(ctx context.Context) error { return client.Ping(ctx).Err() },
	}
	return otp.NewRedisStore(client), check, nil
}

func initMailer(cfg config.Config, logger *zap.Logger) (notification.Mailer, error) {
	if cfg.EmailProvider == "resend" {
		return notification.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom, logger)
	}
	logger.Warn("EMAIL_PROVIDER is not resend; emails are only logged")
	return notification.NewLogMailer(logger), nil
}

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := initStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("main: failed to initialize storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer st.close()

	otpStore, redisCheck, err := initOTPStore(cfg, logger)
	if err != nil {
		logger.Fatal("main: failed to initialize OTP store", zap.Error(err))
	}
	checks := st.checks
	if redisCheck != nil {
		checks = append(checks, *redisCheck)
	}

	mailer, err := initMailer(cfg, logger)
	if err != nil {
		logger.Fatal("main: failed to initialize mailer", zap.Error(err))
	}

	// Fire-and-forget emails go through asynq when configured, otherwise a goroutine per send.
	var dispatcher notification.Dispatcher
	var worker *cron.EmailWorker
	if cfg.NotifyQueue == "asynq" {
		redisOpts := asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisQueueDB,
		}
		queue := notification.NewQueueDispatcher(redisOpts)
		defer queue.Close()
		dispatcher = queue

		worker = cron.NewEmailWorker(redisOpts, mailer, logger)
		worker.Start()
	} else {
		inline := notification.NewInlineDispatcher(mailer, cfg.NotifyTimeout, logger)
		defer inline.Wait()
		dispatcher = inline
	}

	notificationService, err := notification.NewDefaultNotificationService(mailer, dispatcher, cfg.EmailOpsTo, logger)
	if err != nil {
		logger.Fatal("main: failed to initialize notification service", zap.Error(err))
	}

	// services.
	otpService := otp.NewService(otpStore, st.registrations, notificationService, cfg.OTPTTL, cfg.OTPHashCost, logger)
	registrationService := registration.NewService(st.registrations, notificationService, registration.Options{
		MinSubmitDuration:     time.Duration(cfg.MinSubmitDurationMS) * time.Millisecond,
		TestSkipTransactionID: cfg.TestSkipTransactionID,
		SendConfirmation:      cfg.SendConfirmationEmail,
		PaymentMethod:         cfg.PaymentMethod,
		PaymentMode:           cfg.PaymentMode,
		Amount:                cfg.RegistrationAmount,
		StrictPersistence:     cfg.StrictPersistence,
	}, logger)
	contactService := contact.NewService(st.contacts, cfg.StrictPersistence, logger)

	digestJob := digest.NewJob(st.contacts, notificationService, cfg.DigestWindow, time.Minute, logger)
	scheduler, err := cron.StartDigestScheduler(cfg.DigestSchedule, cfg.DigestTimezone, digestJob.Fire, logger)
	if err != nil {
		logger.Fatal("main: failed to start digest scheduler", zap.Error(err))
	}

	monitor := utils.NewHealthMonitor(checks...)
	monitor.Start(ctx, 30*time.Second)

	// handlers.
	otpHandler := handlers.NewOTPHandler(otpService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	contactHandler := handlers.NewContactHandler(contactService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		HealthHandler:         handlers.HealthHandler(cfg.ServiceName, monitor),
		SendOTPHandler:        otpHandler.SendOTPHandler,
		VerifyOTPHandler:      otpHandler.VerifyOTPHandler,
		ManualRegisterHandler: registrationHandler.ManualRegisterHandler,
		ContactHandler:        contactHandler.SubmitContactHandler,
	}

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           routes.NewRouter(handlerBundle, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	<-scheduler.Stop().Done()
	if worker != nil {
		worker.Shutdown()
	}

	logger.Info("main: server stopped gracefully")
}
