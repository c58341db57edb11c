package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/timesheet/api"
	"github.com/frahmantamala/timesheet/internal/export"
	"github.com/frahmantamala/timesheet/internal/notify"
	"github.com/frahmantamala/timesheet/internal/project"
	"github.com/frahmantamala/timesheet/internal/reminder"
	"github.com/frahmantamala/timesheet/internal/report"
	"github.com/frahmantamala/timesheet/internal/summary"
	"github.com/frahmantamala/timesheet/internal/transport"
	"github.com/frahmantamala/timesheet/internal/transport/middleware"
	"github.com/frahmantamala/timesheet/internal/transport/rest"
	"github.com/frahmantamala/timesheet/internal/user"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP API together with the reminder scheduler`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	app := mustApp(context.Background())

	scheduler, err := startScheduler(app)
	if err != nil {
		exitf("failed to start reminder scheduler: %v", err)
	}

	router, err := newRouter(app, scheduler)
	if err != nil {
		exitf("failed to build router: %v", err)
	}

	cfg := app.Config.Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	app.Logger.Info("starting HTTP server", "address", addr, "storage", app.Config.Storage.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		app.Logger.Info("received signal, shutting down", "signal", sig)
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			app.Logger.Error("server failed", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if scheduler != nil {
		if err := scheduler.Stop(ctx); err != nil {
			app.Logger.Warn("reminder scheduler did not stop in time", "error", err)
		}
	}
	if err := server.Shutdown(ctx); err != nil {
		app.Logger.Error("server shutdown error", "error", err)
	}
	app.Close(ctx)

	app.Logger.Info("server stopped")
}

// startScheduler returns nil when scheduled reminders are disabled.
func startScheduler(app *App) (*reminder.Scheduler, error) {
	if !app.Config.Reminder.Enabled {
		app.Logger.Info("scheduled reminders disabled")
		return nil, nil
	}
	scheduler, err := reminder.NewScheduler(app.Config.Reminder, app.Reminder, app.Logger)
	if err != nil {
		return nil, err
	}
	scheduler.Start()
	return scheduler, nil
}

func newRouter(app *App, scheduler *reminder.Scheduler) (*chi.Mux, error) {
	validator, err := middleware.NewRequestValidator(api.Spec)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, newHandlers(app, validator, scheduler), app.Logger)
	return router, nil
}

func newHandlers(app *App, validator *middleware.RequestValidator, scheduler *reminder.Scheduler) rest.Handlers {
	base := transport.NewBaseHandler(app.Logger)
	return rest.Handlers{
		Health:   rest.NewHealthHandler(app.Store, app.Config.Storage.Driver),
		User:     user.NewHandler(base, app.Users),
		Project:  project.NewHandler(base, app.Projects),
		Report:   report.NewHandler(base, app.Reports, app.Users),
		Summary:  summary.NewHandler(base, app.Summary),
		Notify:   notify.NewHandler(base, app.Dispatcher, app.Users),
		Reminder: reminder.NewHandler(base, app.Reminder, scheduler),
		Export:   export.NewHandler(base, app.Export),

		Admins:    app.Admins,
		Origins:   app.Config.Server.Origins(),
		Validator: validator,
		Spec:      api.Spec,
	}
}
