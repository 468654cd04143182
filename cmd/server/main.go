package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"seti/workshop/internal/config"
	"seti/workshop/internal/db"
	internalhttp "seti/workshop/internal/http"
	"seti/workshop/internal/mailer"
	"seti/workshop/internal/otp"
	"seti/workshop/internal/repository"
)

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connection failed: %v", err)
	}
	defer pool.Close()

	var codes, states otp.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("redis ping failed: %v", err)
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Printf("redis close error: %v", err)
			}
		}()
		// Codes are retained past the validity window so a late verify
		// still reports otp_expired instead of otp_not_found.
		codes = otp.NewRedisStore(redisClient, "otp:", 2*cfg.OTPTTL)
		states = otp.NewRedisStore(redisClient, "oauthstate:", cfg.OAuthStateTTL)
	} else {
		codes = otp.NewMemoryStore(2 * cfg.OTPTTL)
		states = otp.NewMemoryStore(cfg.OAuthStateTTL)
	}

	var mail mailer.Sender
	if cfg.SMTPHost != "" {
		mail = &mailer.SMTPSender{
			Host: cfg.SMTPHost,
			Port: strconv.Itoa(cfg.SMTPPort),
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPUser,
		}
	} else {
		mail = &mailer.LogSender{Logger: logger}
	}

	store := repository.NewStore(pool)
	server := internalhttp.NewServer(cfg, store, codes, states, mail, logger)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("workshop listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
