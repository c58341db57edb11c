package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers without the HTTP API",
}

var reminderWorkerCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Start the reminder scheduler",
	Long:  `Run the daily reminder schedule on its own, for deployments where the API runs elsewhere`,
	Run: func(cmd *cobra.Command, args []string) {
		startReminderWorker()
	},
}

var workerForce bool

func startReminderWorker() {
	app := mustApp(context.Background())
	if workerForce {
		app.Config.Reminder.Enabled = true
	}

	scheduler, err := startScheduler(app)
	if err != nil {
		exitf("failed to start reminder scheduler: %v", err)
	}
	if scheduler == nil {
		app.Logger.Warn("nothing to run, enable reminder.enabled or pass --force")
		app.Close(context.Background())
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	app.Logger.Info("reminder worker is running. Press Ctrl+C to stop.")
	sig := <-sigChan
	app.Logger.Info("received signal, shutting down reminder worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := scheduler.Stop(ctx); err != nil {
		app.Logger.Warn("shutdown timeout reached, forcing exit", "error", err)
	}
	app.Close(ctx)
	app.Logger.Info("reminder worker shutdown complete")
}

func init() {
	reminderWorkerCmd.Flags().BoolVar(&workerForce, "force", false, "run even when reminder.enabled is false")

	workerCmd.AddCommand(reminderWorkerCmd)
	rootCmd.AddCommand(workerCmd)
}
