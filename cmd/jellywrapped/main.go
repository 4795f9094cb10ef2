package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"jellywrapped/internal/auth"
	"jellywrapped/internal/jellyfin"
	"jellywrapped/internal/server"
	"jellywrapped/internal/session"
	"jellywrapped/internal/stats"
)

func main() {
	_ = godotenv.Load()

	listenAddr := envOr("LISTEN_ADDR", ":7920")
	jellyfinURL := os.Getenv("JELLYFIN_URL")
	apiKey := os.Getenv("JELLYFIN_API_KEY")
	jwtSecret := os.Getenv("JWT_SECRET")
	corsOrigin := os.Getenv("CORS_ORIGIN")

	if jellyfinURL == "" || apiKey == "" {
		log.Fatal("JELLYFIN_URL and JELLYFIN_API_KEY are required")
	}

	client := jellyfin.New(jellyfinURL, apiKey)

	sessions := session.NewCache()
	sessions.StartSweeper(context.Background())
	defer sessions.Stop()

	authSvc, err := auth.NewService(client, sessions, []byte(jwtSecret))
	if err != nil {
		log.Fatalf("initializing auth: %v", err)
	}

	engine := stats.New(client, client)

	var opts []server.Option
	if corsOrigin != "" {
		opts = append(opts, server.WithCORSOrigin(corsOrigin))
	}
	srv := server.NewServer(engine, authSvc, opts...)
	defer server.StopRateLimiter()

	httpServer := &http.Server{
		Addr:              listenAddr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("JellyWrapped listening on %s", listenAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
