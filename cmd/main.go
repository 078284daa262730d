package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"logistics-auth-service/internal/config"
	"logistics-auth-service/internal/domain/event"
	"logistics-auth-service/internal/domain/mail"
	domainUser "logistics-auth-service/internal/domain/user"
	"logistics-auth-service/internal/infrastructure/broker"
	"logistics-auth-service/internal/infrastructure/cache"
	"logistics-auth-service/internal/infrastructure/database/postgres"
	smtpMail "logistics-auth-service/internal/infrastructure/mail"
	"logistics-auth-service/internal/infrastructure/memory"
	"logistics-auth-service/internal/logger"
	"logistics-auth-service/internal/routes"
	"logistics-auth-service/internal/token"
	"logistics-auth-service/internal/usecase/supplier"
	"logistics-auth-service/internal/usecase/user"
	"logistics-auth-service/pkg/mqtt"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("auth_scheme", cfg.Auth.Scheme),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("event_broker", cfg.Events.Broker),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, health, closeStore := openStore(ctx, cfg)
	defer closeStore()

	scheme := newScheme(ctx, cfg, store)

	publisher, closePublisher := newPublisher(cfg)
	defer closePublisher()
	events := broker.NewAsync(publisher, cfg.Events.Timeout)

	userService := user.NewService(store, scheme, newMailer(cfg), events, cfg)
	supplierService := supplier.NewService(store, userService, events, cfg.Events.SupplierTopic)

	if cfg.Auth.AdminUsername != "" {
		if err := userService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			logger.Fatal("Failed to create bootstrap admin", zap.Error(err))
		}
	}

	go userService.StartTokenCleanupJob(ctx, cfg.Auth.CleanupInterval)

	router := routes.SetupRoutes(ctx, cfg, &routes.Dependencies{
		Users:     userService,
		Suppliers: supplierService,
		Scheme:    scheme,
		Health:    health,
	})

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
	}
	cancel()

	if err := events.Wait(shutdownCtx); err != nil {
		logger.Warn("Pending events were not published", zap.Error(err))
	}
	userService.Wait()

	log.Println("Server exited properly")
}

func openStore(ctx context.Context, cfg *config.Config) (domainUser.Store, func() error, func()) {
	if cfg.Storage.Driver == config.StorageMemory {
		logger.Warn("Using in-memory store, data is lost on restart")
		return memory.NewStore(), nil, func() {}
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	closeFn := func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}
	return postgres.NewStore(db), db.Health, closeFn
}

func newScheme(ctx context.Context, cfg *config.Config, store domainUser.Store) token.Scheme {
	if cfg.Auth.Scheme == config.SchemeToken {
		return token.NewOpaqueScheme(store.Tokens(), store.Users(), cfg.Auth.TokenTTL)
	}

	var denylist token.Denylist = memory.NewDenylist()
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		denylist = cache.NewRedisDenylist(client)
	} else {
		logger.Warn("REDIS_ADDR not set, revoked tokens are tracked in process only")
	}

	return token.NewSignedScheme(cfg.Auth.JWTSecret, store.Users(), store.Profiles(), denylist, cfg.Auth.TokenTTL)
}

func newPublisher(cfg *config.Config) (event.Publisher, func()) {
	switch cfg.Events.Broker {
	case config.BrokerMQTT:
		client := mqtt.NewClient(&mqtt.Config{
			Broker:               cfg.Events.MQTT.Broker,
			ClientID:             cfg.Events.MQTT.ClientID,
			Username:             cfg.Events.MQTT.Username,
			Password:             cfg.Events.MQTT.Password,
			CleanSession:         true,
			KeepAlive:            60,
			ConnectTimeout:       10,
			AutoReconnect:        true,
			MaxReconnectInterval: time.Minute,
			Logger:               logger.Logger,
		})
		if err := client.Connect(); err != nil {
			logger.Fatal("Failed to connect to MQTT broker", zap.Error(err))
		}
		return broker.NewMQTTPublisher(client, cfg.Events.MQTT.QoS), client.Disconnect

	case config.BrokerAMQP:
		p := broker.NewAMQPPublisher(cfg.Events.AMQP.URL)
		return p, func() {
			if err := p.Close(); err != nil {
				logger.Error("Failed to close AMQP connection", zap.Error(err))
			}
		}

	default:
		return broker.LogPublisher{}, func() {}
	}
}

func newMailer(cfg *config.Config) mail.Sender {
	if cfg.SMTP.Host == "" {
		logger.Warn("SMTP_HOST not set, emails are written to the log")
		return smtpMail.LogSender{}
	}
	return smtpMail.NewSMTPSender(cfg.SMTP)
}
