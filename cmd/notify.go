package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/frahmantamala/timesheet/internal/notify"
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify [text]",
	Short: "Broadcast a message to every known user",
	Long:  `Broadcast text to every registered user, or the default reminder when no text is given`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := mustApp(ctx)
		defer app.Close(ctx)

		result := notify.Broadcast(ctx, app.Dispatcher, app.Users, strings.Join(args, " "))
		fmt.Printf("broadcast sent to %d of %d users\n", result.Sent, len(result.Results))
	},
}
