package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/CureSaba/discord-join2create/internal/adapters/discord"
	router "github.com/CureSaba/discord-join2create/internal/adapters/http"
	"github.com/CureSaba/discord-join2create/internal/app"
	"github.com/CureSaba/discord-join2create/internal/app/orch"
	"github.com/CureSaba/discord-join2create/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	registry := app.NewRegistry()
	o := &orch.Orchestrator{
		Registry:  registry,
		LobbyName: cfg.LobbyName,
	}

	bot, err := discord.New(cfg, o)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bot")
	}
	o.Platform = discord.NewPlatform(bot.Session())

	if err := bot.Open(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to gateway")
	}

	r := router.SetupRouter(cfg, registry)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Str("lobby", cfg.LobbyName).Msg("bot started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("ops server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	if err := bot.Close(); err != nil {
		log.Error().Err(err).Msg("gateway close error")
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
