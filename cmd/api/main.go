package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"memberadmission/config"
	"memberadmission/internal/adapters/email"
	"memberadmission/internal/adapters/qr"
	deliveryhttp "memberadmission/internal/delivery/http"
	"memberadmission/internal/delivery/http/controllers"
	"memberadmission/internal/delivery/http/middleware"
	"memberadmission/internal/services"
	"memberadmission/internal/telemetry"
)

// @title Member Admission API
// @version 1.0
// @description Member identity tokens, one-time handles and capacity-gated event admission.
// @BasePath /
func main() {
	logger := config.NewLogger()
	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracer, err := telemetry.InitTracer(ctx, telemetry.TracerConfig{
		ServiceName:  cfg.ServiceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		Insecure:     !cfg.IsProduction(),
	})
	if err != nil {
		logger.Error("init tracer", "err", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewMetrics(registry)

	key, err := qr.DeriveSigningKey(cfg.QRSecret, cfg.QRIssuer)
	if err != nil {
		logger.Error("derive identity token key", "err", err)
		os.Exit(1)
	}
	retry := qr.DefaultRetryConfig()
	retry.MaxAttempts = cfg.QRMaxAttempts
	issuer := qr.NewRetryingIssuer(qr.NewJWTIssuer(key, cfg.QRIssuer), retry, logger)
	verifier := qr.NewJWTVerifier(key, cfg.QRIssuer)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretKey,
		},
	}, logger)
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	members := services.NewMemberRegistry(issuer, verifier, emailService, metrics, logger)
	ledger := services.NewAdmissionLedger(members, metrics, logger)

	router := deliveryhttp.NewRouter(
		controllers.NewMemberController(logger, members),
		controllers.NewEventController(logger, ledger),
		controllers.NewAdmissionController(logger, ledger, members),
		registry,
	)
	var handler http.Handler = router
	handler = middleware.RateLimit(middleware.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst), handler)
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.Tracing(tracer.Tracer(), handler)
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		logger.Error("flush traces", "err", err)
	}
}
