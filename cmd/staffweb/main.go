package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staffcore/internal/config"
	"staffcore/internal/httpserver"
	"staffcore/internal/logging"
	"staffcore/internal/web"
)

func main() {
	logger := logging.New()

	cfg, err := config.LoadWeb()
	if err != nil {
		log.Fatalf("load config: %v (set STAFFWEB_COOKIE_SECRET)", err)
	}

	sessions := web.NewSessionStore(cfg.CookieSecret, cfg.SessionTTL)
	client := web.NewAPIClient(cfg.APIBaseURL)

	handler := web.NewRouter(logger, sessions, client)
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
