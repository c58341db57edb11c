package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/core/clock"
	projectDatamodel "github.com/frahmantamala/timesheet/internal/core/datamodel/project"
	reportDatamodel "github.com/frahmantamala/timesheet/internal/core/datamodel/report"
	userDatamodel "github.com/frahmantamala/timesheet/internal/core/datamodel/user"
	"github.com/frahmantamala/timesheet/internal/core/events"
	"github.com/frahmantamala/timesheet/internal/export"
	"github.com/frahmantamala/timesheet/internal/notify"
	"github.com/frahmantamala/timesheet/internal/project"
	"github.com/frahmantamala/timesheet/internal/reminder"
	"github.com/frahmantamala/timesheet/internal/report"
	"github.com/frahmantamala/timesheet/internal/storage"
	"github.com/frahmantamala/timesheet/internal/summary"
	"github.com/frahmantamala/timesheet/internal/user"
	"github.com/frahmantamala/timesheet/pkg/logger"
)

// App holds every service a command may need, built from one Config.
type App struct {
	Config *internal.Config
	Logger *slog.Logger
	Clock  clock.Clock
	Admins internal.AdminSet

	Store      storage.DocumentStore
	Bus        *events.EventBus
	Dispatcher *notify.Dispatcher

	Users    *user.Service
	Projects *project.Service
	Reports  *report.Service
	Summary  *summary.Service
	Export   *export.Service
	Reminder *reminder.Pass
}

func buildApp(ctx context.Context, cfg *internal.Config) (*App, error) {
	lg := logger.LoggerWrapper()

	loc, err := cfg.Reminder.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Reminder.Timezone, err)
	}
	clk := clock.NewSystem(loc)
	admins := internal.NewAdminSet(cfg.Admin.IDs)

	store, err := openDocumentStore(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}

	usersCol := storage.NewCollection(store, storage.Users, userDatamodel.NewUsers, lg)
	catalogCol := storage.NewCollection(store, storage.Projects, projectDatamodel.NewCatalog, lg)
	assignCol := storage.NewCollection(store, storage.UserProjects, projectDatamodel.NewAssignments, lg)
	reportsCol := storage.NewCollection(store, storage.Reports, reportDatamodel.NewLedger, lg)

	notifier, err := newNotifier(cfg, lg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	bus := events.NewEventBus(lg)
	dispatcher := notify.NewDispatcher(notifier, notify.Config{
		MaxWorkers:      cfg.Notify.MaxWorkers,
		QueueSize:       cfg.Notify.QueueSize,
		DeliveryTimeout: cfg.Notify.DeliveryTimeout,
	}, lg)

	users := user.NewService(usersCol, admins, clk, lg)
	projects := project.NewService(catalogCol, assignCol, lg)
	reports := report.NewService(reportsCol, clk, bus, lg)

	notify.NewAdminFanout(dispatcher, admins, lg).RegisterEventHandlers(bus)
	bus.Subscribe(events.EventTypeReportsPurged, func(ctx context.Context, event events.Event) error {
		if e, ok := event.(*events.ReportsPurgedEvent); ok {
			lg.Info("reports purged", "user_id", e.UserID, "removed", e.Removed, "event_id", e.EventID())
		}
		return nil
	})

	return &App{
		Config:     cfg,
		Logger:     lg,
		Clock:      clk,
		Admins:     admins,
		Store:      store,
		Bus:        bus,
		Dispatcher: dispatcher,
		Users:      users,
		Projects:   projects,
		Reports:    reports,
		Summary:    summary.NewService(reports, projects, users, lg),
		Export:     export.NewService(reports, clk, lg),
		Reminder:   reminder.NewPass(users, reports, dispatcher, clk, cfg.Reminder.Text, lg),
	}, nil
}

// newNotifier falls back to logging messages when no bot token is set.
func newNotifier(cfg *internal.Config, lg *slog.Logger) (notify.Notifier, error) {
	if cfg.Telegram.BotToken == "" {
		lg.Warn("telegram bot token not configured, messages are only logged")
		return notify.NewLogNotifier(lg), nil
	}
	return notify.NewTelegramNotifier(cfg.Telegram.APIURL, cfg.Telegram.BotToken, cfg.Telegram.Timeout, lg)
}

// Close waits for pending event handlers, then stops delivery and storage.
func (a *App) Close(ctx context.Context) {
	if err := a.Bus.Wait(ctx); err != nil {
		a.Logger.Warn("event handlers still running at shutdown", "error", err)
	}
	a.Dispatcher.Shutdown()
	if err := a.Store.Close(); err != nil {
		a.Logger.Error("storage close error", "error", err)
	}
}

// mustApp loads config and builds the App, exiting on failure.
func mustApp(ctx context.Context) *App {
	cfg, err := loadConfig(configPath)
	if err != nil {
		exitf("failed to load config: %v", err)
	}
	initLogger(cfg)

	app, err := buildApp(ctx, cfg)
	if err != nil {
		exitf("failed to initialize dependencies: %v", err)
	}
	return app
}
