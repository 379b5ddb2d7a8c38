package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/bookwise-ai/bookwise/internal/api/router"
	"github.com/bookwise-ai/bookwise/internal/booking"
	appconfig "github.com/bookwise-ai/bookwise/internal/config"
	"github.com/bookwise-ai/bookwise/internal/conversation"
	"github.com/bookwise-ai/bookwise/internal/http/handlers"
	"github.com/bookwise-ai/bookwise/internal/notify"
	"github.com/bookwise-ai/bookwise/internal/observability/metrics"
	"github.com/bookwise-ai/bookwise/internal/retrieval"
	"github.com/bookwise-ai/bookwise/internal/store"
	"github.com/bookwise-ai/bookwise/pkg/logging"
)

func main() {
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting bookwise API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	convMetrics := metrics.NewConversation(prometheus.DefaultRegisterer)

	bookingStore, err := store.Open(cfg.DatabasePath, logger.Component("store"))
	if err != nil {
		logger.Error("failed to open booking store", "error", err)
		os.Exit(1)
	}
	defer bookingStore.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()
	sessions := conversation.NewSessionStore(redisClient, cfg.SessionTTL, cfg.MaxMemoryTurns, logger.Component("sessions"))

	// The completion client is optional: without a key the assistant still
	// books, it just loses LLM extraction fallback and free-form chat.
	var completer conversation.TextCompleter
	if cfg.GroqAPIKey != "" {
		llm, err := conversation.NewLLMClient(conversation.LLMConfig{
			APIKey:  cfg.GroqAPIKey,
			BaseURL: cfg.GroqBaseURL,
			Model:   cfg.ChatModel,
		}, logger.Component("llm"))
		if err != nil {
			logger.Error("failed to build llm client", "error", err)
			os.Exit(1)
		}
		completer = llm
	} else {
		logger.Warn("GROQ_API_KEY not set; running without LLM completions")
	}

	var guesser booking.FieldGuesser
	if completer != nil {
		guesser = conversation.NewServiceGuesser(completer, logger.Component("guesser"))
	}

	var retriever conversation.DocumentRetriever
	var ingestor handlers.DocumentIngestor
	if cfg.RetrieverBaseURL != "" {
		client, err := retrieval.NewClient(retrieval.Config{
			BaseURL: cfg.RetrieverBaseURL,
			APIKey:  cfg.RetrieverAPIKey,
			Timeout: cfg.RetrieverTimeout,
		})
		if err != nil {
			logger.Error("failed to build retrieval client", "error", err)
			os.Exit(1)
		}
		retriever = client
		ingestor = client
	} else {
		logger.Warn("RETRIEVER_BASE_URL not set; document Q&A disabled")
	}

	var sender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger.Component("notify")); sg != nil {
		sender = sg
	} else {
		logger.Warn("SENDGRID_API_KEY not set; confirmation emails disabled")
		sender = notify.NewStubEmailSender(logger.Component("notify"))
	}
	mailer := notify.NewConfirmationMailer(sender, logger.Component("notify"))

	extractor := booking.NewExtractor(guesser, logger.Component("extractor"))
	flow := booking.NewFlow(extractor, instrumentedStore{bookingStore, convMetrics}, mailer, logger.Component("booking"))
	orchestrator := conversation.NewOrchestrator(flow, retriever, completer, convMetrics, logger.Component("orchestrator"))
	chatHandler := conversation.NewHandler(orchestrator, sessions, logger.Component("chat"))

	r := router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        chatHandler,
		DocumentsHandler:   handlers.NewDocumentsHandler(ingestor, logger.Component("documents")),
		AdminBookings:      handlers.NewAdminBookingsHandler(bookingStore, logger.Component("admin")),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		ChatRateLimit:      cfg.ChatRateLimit,
		ChatRateBurst:      cfg.ChatRateBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// instrumentedStore counts persistence outcomes around the real store.
type instrumentedStore struct {
	store   *store.Store
	metrics *metrics.Conversation
}

func (s instrumentedStore) CreateBooking(ctx context.Context, name, email, phone, serviceType, date, timeOfDay string) (int64, error) {
	id, err := s.store.CreateBooking(ctx, name, email, phone, serviceType, date, timeOfDay)
	s.metrics.BookingPersisted(err == nil)
	return id, err
}
