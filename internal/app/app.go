package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/config"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/service"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger
	Server *http.Server
	Tokens service.TokenService
}

func New(cfg *config.Config, logger *slog.Logger, server *http.Server, tokens service.TokenService) *App {
	return &App{Config: cfg, Logger: logger, Server: server, Tokens: tokens}
}

// Run starts the HTTP server and the background token sweeper, then blocks
// until ctx is cancelled. Shutdown waits up to 10s for in-flight requests.
func (a *App) Run(ctx context.Context) error {
	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	service.StartTokenSweeper(sweepCtx, a.Tokens, time.Hour, a.Logger)

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server starting", "addr", a.Server.Addr, "env", a.Config.Env)
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.Server.Shutdown(shutdownCtx)
}
