package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"rsvp-whatsapp/internal/config"
	"rsvp-whatsapp/internal/handler"
	"rsvp-whatsapp/internal/notify"
	"rsvp-whatsapp/internal/storage"
)

const submitWindow = 3 * time.Second

func main() {
	// Optional .env for local runs; real deployments set the environment.
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	cfg := config.LoadConfig()

	store := storage.NewCSVStore(cfg.CSVPath)
	if err := store.EnsureInitialized(); err != nil {
		log.Fatal().Err(err).Str("path", cfg.CSVPath).Msg("Error initializing RSVP store")
	}
	photos := storage.NewPhotoStore(cfg.UploadDir)

	sender, err := notify.NewSender(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring WhatsApp provider")
	}

	pipeline := handler.NewPipeline(store, photos, sender, handler.NewSubmitGate(submitWindow), cfg.DefaultRegion,
		log.With().Str("component", "pipeline").Logger())
	rsvpHandler := handler.NewRSVPHandler(pipeline, cfg.CSVPath,
		log.With().Str("component", "http").Logger())

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Mount("/", rsvpHandler.Routes())

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: r}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Str("provider", cfg.Provider).Msg("RSVP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}
}
