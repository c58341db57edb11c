package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var remindDryRun bool

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run one reminder pass now",
	Long:  `Send the reminder to every known user who has not reported today`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := mustApp(ctx)
		defer app.Close(ctx)

		if remindDryRun {
			recipients := app.Reminder.Recipients(ctx)
			fmt.Printf("%d users have not reported today\n", len(recipients))
			for _, id := range recipients {
				fmt.Printf("  %d %s\n", id, app.Users.Username(ctx, id))
			}
			return
		}

		result := app.Reminder.Run(ctx)
		fmt.Printf("reminder sent: %d delivered, %d failed\n", result.Sent, result.Failed)
		for _, r := range result.Results {
			if !r.OK {
				fmt.Printf("  %d: %s\n", r.UserID, r.Error)
			}
		}
	},
}

func init() {
	remindCmd.Flags().BoolVar(&remindDryRun, "dry-run", false, "only list the users who would be reminded")
}
