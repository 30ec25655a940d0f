package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/aaronFortuno/HexaTegy/internal/config"
	"github.com/aaronFortuno/HexaTegy/internal/handler"
	"github.com/aaronFortuno/HexaTegy/internal/logger"
	"github.com/aaronFortuno/HexaTegy/internal/middleware"
	"github.com/aaronFortuno/HexaTegy/internal/repository"
	redisrepo "github.com/aaronFortuno/HexaTegy/internal/repository/redis"
	"github.com/aaronFortuno/HexaTegy/internal/service"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel)
	log.Info().Str("port", cfg.Port).Bool("redis", cfg.RedisURL != "").Msg("Config loaded")

	// Optional room-state mirror. Without Redis the rooms are memory-only,
	// which is all the game itself needs.
	var cache repository.RoomCache = repository.NoopCache{}
	if cfg.RedisURL != "" {
		redisClient, err := redisrepo.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		defer redisClient.Close()
		cache = redisClient
	}

	hub := handler.NewHub(cache, service.WithTimings(cfg.RoundGrace, cfg.ResolvePause))
	wsHandler := handler.NewWSHandler(hub)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{
			"rooms":       hub.RoomCount(),
			"connections": hub.ConnectionCount(),
		})
	})

	mux.HandleFunc("GET /ws", wsHandler.ServeWS)

	root := middleware.Chain(mux, middleware.Logger, middleware.CORS("*"))

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     root,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
