package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/support-chat/chat-service/internal/config"
	"github.com/support-chat/chat-service/internal/database"
	"github.com/support-chat/chat-service/internal/events"
	"github.com/support-chat/chat-service/internal/handler"
	"github.com/support-chat/chat-service/internal/router"
	"github.com/support-chat/chat-service/internal/service"
	"github.com/support-chat/chat-service/internal/ws"
)

// API is the chat-service HTTP application: REST surface plus the
// websocket messaging layer, one process.
type API struct {
	cfg      *config.Config
	httpSrv  *http.Server
	producer *events.Producer
}

// NewAPI validates config, migrates, and assembles the app. The connection
// registries are created here, once per process, and handed to the
// components that need them. State is per process and never persisted.
func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	users := service.NewUserService(db)
	tickets := service.NewTicketService(db)
	orders := service.NewOrderService(db)
	store := service.NewMessageStore(db)
	producer := events.NewProducer(cfg.Brokers(), cfg.KafkaTopic)

	hub := ws.NewHub()
	directory := ws.NewDirectory()
	guard := ws.NewGuard(service.NewConversations(tickets, orders))
	msgRouter := ws.NewRouter(store, hub, directory, producer)
	sessions := ws.NewSessionHandler(cfg.JWTSecret, guard, hub, directory, msgRouter, cfg.WSAllowAnyOrigin)

	mux := router.New(router.Deps{
		JWTSecret: cfg.JWTSecret,
		Auth:      handler.NewAuthHandler(users, cfg.JWTSecret, cfg.AdminSecurityCode),
		Tickets:   handler.NewTicketHandler(tickets, producer),
		Messages:  handler.NewMessageHandler(store, tickets),
		Orders:    handler.NewOrderHandler(orders, store),
		Sessions:  sessions,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		// No ReadTimeout/WriteTimeout: websocket sessions hold their
		// connection open indefinitely; per-message deadlines live in
		// the ws package.
	}

	return &API{
		cfg:      cfg,
		httpSrv:  httpSrv,
		producer: producer,
	}, nil
}

// Run serves HTTP, blocking until ctx is canceled, then shuts down
// gracefully.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Info().Str("addr", a.httpSrv.Addr).Msg("HTTP server listening")
	log.Info().Str("swagger", base+"/swagger").Str("health", base+"/health").Msg("endpoints")
	log.Info().Str("tickets", "ws://"+host+":"+a.cfg.HTTPPort+"/ws/tickets/{id}").
		Str("orders", "ws://"+host+":"+a.cfg.HTTPPort+"/ws/orders/{order_id}").
		Msg("websocket endpoints")

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := a.producer.Close(); err != nil {
		log.Error().Err(err).Msg("close event producer")
	}
	return nil
}
