package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"syncly.dev/internal/auth"
	"syncly.dev/internal/httpapi"
	"syncly.dev/internal/obs"
	"syncly.dev/internal/report"
	"syncly.dev/internal/store/pg"
	"syncly.dev/internal/stream"
)

var version = "0.3.1"

func main() {
	obs.Init()
	obs.InitBuildInfo(version, os.Getenv("SYNCLY_COMMIT"))

	addr := os.Getenv("SYNCLY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	grace := 2 * time.Hour
	if raw := os.Getenv("SYNCLY_EDIT_GRACE"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("parse SYNCLY_EDIT_GRACE: %v", err)
		}
		grace = d
	}

	// Postgres when a DSN is configured, in-memory otherwise (dev mode).
	var (
		store   report.Store
		roles   auth.RoleSource
		probe   httpapi.ReadyProbe
		pgStore *pg.Store
	)
	if dsn := os.Getenv("SYNCLY_PG_DSN"); dsn != "" {
		var err error
		pgStore, err = pg.Open(dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		store = pgStore
		roles = pgStore
		probe = httpapi.ReadyProbe{DB: pgStore.DB()}
	} else {
		log.Println("SYNCLY_PG_DSN not set, using in-memory store")
		store = report.NewInMemory()
	}

	controller := report.NewController(store, roles, report.CutoffPolicy{Grace: grace})
	api := httpapi.New(probe, version, controller, stream.New(), roles)

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting syncly-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if pgStore != nil {
		_ = pgStore.Close()
	}
	log.Println("Stopped")
}
