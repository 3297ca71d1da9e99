package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nivhaham/FastApiBasics/internal/config"
	"github.com/Nivhaham/FastApiBasics/internal/handler"
	"github.com/Nivhaham/FastApiBasics/internal/logger"
	"github.com/Nivhaham/FastApiBasics/internal/repository"
	"github.com/Nivhaham/FastApiBasics/internal/router"
	"github.com/Nivhaham/FastApiBasics/internal/server"
	"github.com/Nivhaham/FastApiBasics/internal/service"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var serveRunner = runServe

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRunner(cmd.Context())
		},
	}
}

// newHandlers builds the application container without starting anything.
func newHandlers(srv *server.Server) *handler.Handlers {
	repos := repository.NewRepositories(srv)
	services := service.NewServices(srv, repos)
	return handler.NewHandlers(srv, services)
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		loggerService.Shutdown()
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	r, err := router.NewRouter(srv, newHandlers(srv))
	if err != nil {
		loggerService.Shutdown()
		return err
	}
	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped")
		}
		loggerService.Shutdown()
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited properly")
	return nil
}
