package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staffcore/internal/auth"
	"staffcore/internal/config"
	"staffcore/internal/db"
	"staffcore/internal/employees"
	"staffcore/internal/httpserver"
	"staffcore/internal/logging"
)

func main() {
	ctx := context.Background()
	logger := logging.New()

	cfg, err := config.LoadAPI()
	if err != nil {
		log.Fatalf("load config: %v (set STAFFCORE_JWT_SECRET)", err)
	}

	dbConn, err := db.Open(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer dbConn.Close()

	if err := db.RunMigrations(ctx, dbConn, "sql"); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	creds, err := auth.LoadCredentials(cfg.CredentialsPath)
	if err != nil {
		log.Fatalf("load credentials: %v", err)
	}
	codec := auth.NewCodec(cfg.JWTSecret, cfg.TokenTTL)

	store := employees.NewStore(dbConn)

	handler := httpserver.NewRouter(logger, codec, creds, store)
	server := httpserver.New(cfg.HTTPAddr, handler, logger)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
