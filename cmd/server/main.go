// Package main runs the catalog and back-office server: the persistence
// gateway, the notification bus with its WebSocket transport, one collection
// store per catalog, and the REST surface over them.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/horizonbtp/vitrine/cmd/server/handlers"
	"github.com/horizonbtp/vitrine/internal/admin"
	"github.com/horizonbtp/vitrine/internal/auth"
	"github.com/horizonbtp/vitrine/internal/bus"
	"github.com/horizonbtp/vitrine/internal/config"
	"github.com/horizonbtp/vitrine/internal/gateway"
	"github.com/horizonbtp/vitrine/internal/logging"
	"github.com/horizonbtp/vitrine/internal/models"
	"github.com/horizonbtp/vitrine/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("failed to load configuration", err)
		os.Exit(1)
	}

	logging.Init(os.Stdout, cfg.LogLevel)

	gw, err := gateway.Open(cfg.DataDir)
	if err != nil {
		logging.Error("failed to open gateway", err)
		os.Exit(1)
	}
	defer gw.Close()

	if err := gw.Migrate(); err != nil {
		logging.Error("failed to migrate schema", err)
		os.Exit(1)
	}

	b := bus.New(gw)
	defer b.Close()

	hub := NewWSHub(b)
	b.SetBroadcaster(hub)

	stores := make(map[models.Table]*store.Store)
	for _, table := range models.Tables() {
		st := store.New(table, gw, b)
		if err := st.Bind(context.Background()); err != nil {
			// A failed initial load keeps the store empty; the list
			// endpoint reports it and manual refresh retries.
			logging.Warn("initial load failed", logging.Fields{
				"table": table.String(),
				"error": err.Error(),
			})
		}
		defer st.Close()
		stores[table] = st
	}

	flow := admin.New(gw, b)
	verifier := auth.NewVerifier(cfg.TokenSigningKey)

	catalogHandler := handlers.NewCatalogHandler(stores, cfg.DefaultPageSize)
	adminHandler := handlers.NewAdminHandler(flow, gw)
	publicHandler := handlers.NewPublicHandler(flow)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"vitrine"}`))
	})

	mux.HandleFunc("GET /api/catalog/{table}", catalogHandler.List)
	mux.HandleFunc("POST /api/catalog/{table}/refresh", catalogHandler.Refresh)

	mux.HandleFunc("POST /api/contact", publicHandler.SubmitContact)
	mux.HandleFunc("POST /api/testimonials", publicHandler.SubmitTestimonial)

	adminMux := http.NewServeMux()
	adminMux.HandleFunc("POST /api/admin/{table}", adminHandler.Create)
	adminMux.HandleFunc("GET /api/admin/{table}/{id}", adminHandler.Get)
	adminMux.HandleFunc("PUT /api/admin/{table}/{id}", adminHandler.Update)
	adminMux.HandleFunc("DELETE /api/admin/{table}/{id}", adminHandler.Delete)
	adminMux.HandleFunc("PATCH /api/admin/{table}/{id}/status", adminHandler.SetStatus)
	mux.Handle("/api/admin/", auth.Middleware(verifier)(auth.RequireRole(auth.RoleAdmin)(adminMux)))

	mux.HandleFunc("GET /ws", HandleWebSocket(hub))

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	go func() {
		logging.Info("server starting", logging.Fields{"addr": cfg.ListenAddr})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("server failed", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logging.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Error("shutdown failed", err)
	}
}
