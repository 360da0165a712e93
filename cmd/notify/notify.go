package notify

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/patiwat/firewatch-go/internal/conf"
	"github.com/patiwat/firewatch-go/internal/monitor"
)

// Command creates the notification channel test command.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "notify",
		Short: "Send a test message to the configured notification channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := monitor.Verify(cmd.Context(), settings)
			if err != nil {
				return err
			}
			if !res.Delivered {
				return fmt.Errorf("no notification provider accepted the test message")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "test message delivered")
			return nil
		},
	}
}
