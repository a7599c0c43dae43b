package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/courtdesk/courtdesk/internal/config"
	"github.com/courtdesk/courtdesk/internal/email"
	"github.com/courtdesk/courtdesk/internal/notify"
	"github.com/courtdesk/courtdesk/internal/repository/jsonstore"
	"github.com/courtdesk/courtdesk/internal/service"
	"github.com/courtdesk/courtdesk/internal/service/auth"
	"github.com/courtdesk/courtdesk/internal/service/booking"
	httpgin "github.com/courtdesk/courtdesk/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize the document store, seeding defaults on first run
	store, err := jsonstore.Open(cfg.Store.Path, jsonstore.Defaults{
		CourtCount:    cfg.Bootstrap.CourtCount,
		OpeningTime:   cfg.Bootstrap.OpeningTime,
		ClosingTime:   cfg.Bootstrap.ClosingTime,
		SlotMinutes:   cfg.Bootstrap.SlotMinutes,
		HourlyRate:    cfg.Bootstrap.HourlyRate,
		AdminEmail:    cfg.Bootstrap.AdminEmail,
		AdminPassword: cfg.Bootstrap.AdminPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// Initialize mail: real Resend sender when a key is configured,
	// otherwise log-only
	var sender email.Sender
	if cfg.Mail.ResendAPIKey != "" {
		sender = email.NewResendSender(cfg.Mail.ResendAPIKey, cfg.Mail.From)
	} else {
		logger.Warn("RESEND_API_KEY not set, emails will only be logged")
		sender = email.NewNoopSender()
	}
	notifier := notify.New(sender, logger)

	// Initialize services
	services := service.NewServices(store, notifier, service.Config{
		Booking: booking.Config{
			CompletedBlocks: cfg.Booking.CompletedBlocks,
		},
		Auth: auth.Config{
			TokenSecret: []byte(cfg.Auth.TokenSecret),
			TokenTTL:    time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute,
			OTPTTL:      time.Duration(cfg.Auth.OTPTTLMinutes) * time.Minute,
		},
	})

	// Initialize Gin router
	router := httpgin.NewRouter(services, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
