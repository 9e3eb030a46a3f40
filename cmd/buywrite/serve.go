package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aristath/buywrite/internal/clientdata"
	"github.com/aristath/buywrite/internal/modules/evaluation"
	"github.com/aristath/buywrite/internal/scheduler"
	"github.com/aristath/buywrite/internal/server"
	"github.com/spf13/cobra"
)

// Cron specs (with seconds) of the maintenance jobs run by serve.
const (
	cacheCleanupSchedule  = "0 0 3 * * *"
	walCheckpointSchedule = "0 */30 * * * *"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve evaluations over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			return a.runServe(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides PORT)")
	return cmd
}

func (a *app) runServe(ctx context.Context) error {
	provider, cacheDB, closeProvider, err := a.openProvider()
	if err != nil {
		return err
	}
	defer closeProvider()

	sched := scheduler.New(a.log)
	if cacheDB != nil {
		cleanup := clientdata.NewCleanupJob(clientdata.NewRepository(cacheDB.Conn()), a.log)
		if err := sched.AddJob(cacheCleanupSchedule, cleanup); err != nil {
			return err
		}
		if err := sched.AddJob(walCheckpointSchedule, scheduler.NewWALCheckpointJob(cacheDB, a.log)); err != nil {
			return err
		}
		// Start from a clean cache
		if err := sched.RunNow(cleanup); err != nil {
			a.log.Warn().Err(err).Msg("Initial cache cleanup failed")
		}
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:       a.log,
		Port:      a.cfg.Port,
		DevMode:   a.cfg.DevMode,
		Evaluator: evaluation.NewService(provider, a.cfg.EvaluationConfig(), a.log),
		CacheDB:   cacheDB,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	a.log.Info().Msg("Server stopped")
	return nil
}
