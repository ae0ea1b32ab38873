package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"watermark-remover/config"
	httpapi "watermark-remover/internal/api/http"
	"watermark-remover/internal/api/telegram"
	"watermark-remover/internal/container"
	"watermark-remover/internal/domain/port"
	"watermark-remover/internal/infrastructure/storage"
	"watermark-remover/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setupLogging(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Хранилище пользователей и движок удаления
	userRepo := storage.NewMemoryUserRepository()
	remover, err := newRemover(cfg.Engine)
	if err != nil {
		log.Fatal().Err(err).Str("engine", cfg.Engine).Msg("failed to create remover")
	}
	appContainer := container.New(userRepo, remover)

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create bot")
		}
		go func() {
			if err := bot.Run(ctx); err != nil {
				log.Error().Err(err).Msg("bot stopped")
			}
		}()
	} else {
		log.Info().Msg("TELEGRAM_TOKEN is not set, bot disabled")
	}

	if cfg.HTTPAddr == "" {
		log.Info().Msg("HTTP_ADDR is empty, running bot only")
		<-ctx.Done()
		log.Info().Msg("stopped")
		return
	}

	handler := httpapi.NewHandler(appContainer.RemovalService, cfg.Defaults, cfg.MaxUploadBytes)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("engine", cfg.Engine).Msg("server is running")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server")
	}
	log.Info().Msg("stopped")
}

func setupLogging(l config.Log) {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if l.Human {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func newRemover(engine string) (port.WatermarkRemover, error) {
	switch engine {
	case config.EngineGoCV:
		if !vision.GoCVAvailable() {
			return nil, fmt.Errorf("engine %q: %w (build with -tags gocv)", engine, vision.ErrGoCVDisabled)
		}
		return vision.NewGoCVRemover(), nil
	case config.EngineNative, "":
		return vision.NewNativeRemover(), nil
	}
	return nil, fmt.Errorf("unknown engine %q", engine)
}
