package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/vms-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/vms-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/pubsub"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/vms-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/vms-backend-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/vms-backend-go/internal/service/employee"
	"github.com/cmlabs-hris/vms-backend-go/internal/service/file"
	notificationService "github.com/cmlabs-hris/vms-backend-go/internal/service/notification"
	visitorService "github.com/cmlabs-hris/vms-backend-go/internal/service/visitor"
	"github.com/go-chi/httplog/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.App)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	hub := sse.NewHub()

	g, gctx := errgroup.WithContext(ctx)

	// Events go through Redis when configured so every instance's stream sees them
	var publisher sse.Publisher = hub
	redisClient, err := pubsub.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		relay := pubsub.NewRedisRelay(redisClient, cfg.Redis.Channel, hub)
		publisher = relay
		g.Go(func() error {
			return relay.Run(gctx)
		})
		slog.Info("visitor events relayed through redis", "channel", cfg.Redis.Channel)
	}

	emailService := email.NewEmailService(cfg.SMTP)
	dispatcher := notificationService.NewDispatcher(emailService, publisher, m, notificationService.Config{
		WorkerCount: cfg.Notification.Workers,
		QueueSize:   cfg.Notification.QueueSize,
	})
	defer dispatcher.Stop()

	localStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	fileService := file.NewFileService(localStorage)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	visitorRepo := postgresql.NewVisitorRepository(db)

	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	authService := serviceAuth.NewAuthService(employeeSvc, JWTService, cfg.Admin)
	visitorSvc := visitorService.NewVisitorService(visitorRepo, employeeSvc, dispatcher, dispatcher, m, visitorService.Options{
		RequireHost:       cfg.Visitor.RequireHost,
		RequireTimeSlot:   cfg.Visitor.RequireTimeSlot,
		StrictTransitions: cfg.Visitor.StrictTransitions,
	})

	scheduler := cron.NewScheduler()
	cron.NewVisitorJobs(visitorRepo, m, cfg.Visitor.StatsInterval).RegisterJobs(scheduler)
	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	authHandler := appHTTP.NewAuthHandler(authService)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	visitorHandler := appHTTP.NewVisitorHandler(visitorSvc, fileService, hub, m)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Logger:         logger,
			ClientURL:      cfg.App.ClientURL,
			UploadDir:      localStorage.BasePath(),
			UploadPath:     uploadPath(cfg.Storage.BaseURL),
			MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		},
		JWTService,
		authHandler,
		employeeHandler,
		visitorHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return gctx
		},
	}

	g.Go(func() error {
		slog.Info("server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newLogger(app config.AppConfig) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       parseLevel(app.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "vms-backend"),
		slog.String("env", app.Env),
	)
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// uploadPath returns the URL path photos are served under, e.g. /uploads
// for both "/uploads" and "http://host/uploads".
func uploadPath(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || strings.Trim(u.Path, "/") == "" {
		return "/uploads"
	}
	return u.Path
}
