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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bagdasarian/leadpipe/internal/auth"
	"github.com/bagdasarian/leadpipe/internal/db"
	"github.com/bagdasarian/leadpipe/internal/events"
	"github.com/bagdasarian/leadpipe/internal/handler"
	"github.com/bagdasarian/leadpipe/internal/handler/server"
	"github.com/bagdasarian/leadpipe/internal/pipeline"
	"github.com/bagdasarian/leadpipe/internal/repository/postgres"
	"github.com/bagdasarian/leadpipe/internal/service"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.NewPostgres(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	log.Info("connected to database", zap.String("host", cfg.Database.Host))

	if migrateOnStart {
		applied, err := db.Migrate(ctx, db.DSN(cfg.Database))
		if err != nil {
			return err
		}
		log.Info("migrations applied", zap.Strings("versions", applied))
	}

	accountRepo := postgres.NewAccountRepository(database)
	userRepo := postgres.NewUserRepository(database)
	pipelineRepo := postgres.NewPipelineRepository(database)
	stageRepo := postgres.NewStageRepository(database)
	actionRepo := postgres.NewActionRepository(database)
	leadRepo := postgres.NewLeadRepository(database)
	templateRepo := postgres.NewTemplateRepository(database)

	publisher := events.New(cfg.Kafka, log)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("failed to close event publisher", zap.Error(err))
		}
	}()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	accountService := service.NewAccountService(accountRepo)
	userService := service.NewUserService(userRepo, accountRepo, tokens, log)
	pipelineService := service.NewPipelineService(
		pipelineRepo,
		stageRepo,
		actionRepo,
		leadRepo,
		pipeline.NewEditor(),
		publisher,
		cfg.Pipeline.ColorDebounce,
		log,
	)
	leadService := service.NewLeadService(leadRepo, pipelineRepo, stageRepo, publisher, log)
	templateService := service.NewTemplateService(templateRepo)
	actionService := service.NewActionLibraryService(actionRepo)

	h := handler.NewHandler(
		accountService,
		userService,
		pipelineService,
		leadService,
		templateService,
		actionService,
		log,
		cfg.Server.SecureCookies,
	)
	srv := server.NewServer(h, cfg.Server.Addr, database, log)

	// отложенные изменения цвета пишутся до закрытия пула при любом исходе
	return serve(ctx, srv, cfg.Server.ShutdownTimeout, pipelineService.Close)
}

type httpServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// serve держит сервер до отмены ctx или ошибки запуска. onStop вызывается
// после остановки сервера на любом пути выхода.
func serve(ctx context.Context, srv httpServer, shutdownTimeout time.Duration, onStop func()) error {
	defer onStop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
