package check

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/patiwat/firewatch-go/internal/conf"
	"github.com/patiwat/firewatch-go/internal/monitor"
	"github.com/patiwat/firewatch-go/internal/poller"
)

// Command creates the one-shot check command.
func Command(settings *conf.Settings) *cobra.Command {
	var forceNotify, testMode bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run a single hotspot check",
		Long:  "Fetch the feed once, report new hotspots and exit. State is committed exactly as in monitor mode unless --test-mode is set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := monitor.RunOnce(cmd.Context(), settings, poller.Options{
				ForceNotify: forceNotify,
				TestMode:    testMode,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&forceNotify, "force-notify", false, "Alert on all current hotspots, not only new ones")
	cmd.Flags().BoolVar(&testMode, "test-mode", false, "Run the full check and alert without committing known-hotspot state")
	cmd.Flags().BoolVar(&settings.Notify.OnEmpty, "notify-on-empty", viper.GetBool("notify.onempty"), "Send a status message when no new hotspots are found")

	return cmd
}
