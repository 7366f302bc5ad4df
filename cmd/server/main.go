// Command server runs the visitor pass API: pass issuance, gate scanning,
// and evidence reporting for a residential community.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"neighnet/internal/admission"
	"neighnet/internal/audit"
	"neighnet/internal/auth"
	"neighnet/internal/notification"
	"neighnet/internal/pass"
	"neighnet/internal/platform/config"
	"neighnet/internal/platform/database"
	"neighnet/internal/platform/httpserver"
	"neighnet/internal/platform/logger"
	platformredis "neighnet/internal/platform/redis"
	"neighnet/internal/signing"
	httptransport "neighnet/internal/transport/http"
	"neighnet/internal/visitor"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Probe the signing keys now: a misconfigured keypair must fail startup,
	// not the first issuance request.
	keys := signing.NewProvider(cfg.SignPrivateJWK, cfg.SignPublicJWK)
	if _, err := keys.PublicDescriptor(); err != nil {
		return err
	}

	var (
		visitorStore   visitor.Store
		admissionStore admission.Store
		userStore      auth.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			return err
		}
		visitorStore = visitor.NewPostgresStore(db)
		admissionStore = admission.NewPostgresStore(db)
		userStore = auth.NewPostgresStore(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		visitorStore = visitor.NewMemoryStore()
		admissionStore = admission.NewMemoryStore()
		userStore = auth.NewMemoryStore()
	}

	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var auditSink audit.Sink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			return err
		}
		auditSink = kafkaSink
	} else {
		log.Warn("KAFKA_BROKERS not set, audit events stay in memory")
		auditSink = audit.NewMemorySink()
	}
	defer auditSink.Close()
	auditor := audit.NewRecorder(auditSink, log)

	tokens := auth.NewTokenService(cfg.APITokenSecret, cfg.APITokenTTL)
	authSvc := auth.NewService(userStore, tokens)
	visitors := visitor.NewService(visitorStore)
	passes := pass.NewService(keys, visitors, pass.NewMetrics())
	verifier := pass.NewVerifier(keys)

	var tokenStore notification.TokenStore
	if redisClient != nil {
		tokenStore = notification.NewRedisTokenStore(redisClient.Client)
	} else {
		tokenStore = notification.NewMemoryTokenStore()
	}
	notifications := notification.NewService(visitors, tokenStore, notification.NewExpoClient(cfg.PushURL), log)

	admissions := admission.NewService(admissionStore, notifications, auditor, admission.NewMetrics(), log)

	handler := httptransport.NewHandler(authSvc, visitors, passes, verifier, admissions, notifications, keys, log)
	routerCfg := httptransport.RouterConfig{
		TokenValidator:     tokens,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}
	if redisClient != nil {
		routerCfg.RedisClient = redisClient.Client
	}
	server := httpserver.New(cfg.Addr, httptransport.NewRouter(handler, routerCfg))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := auditor.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := notifications.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server stopped")
	return nil
}
