package monitor

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/patiwat/firewatch-go/internal/conf"
	"github.com/patiwat/firewatch-go/internal/monitor"
)

// Command creates the continuous monitoring command.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Poll for hotspots continuously and serve the HTTP API",
		Long:  "Start the scheduler loop that polls the configured feed during satellite pass windows, alerts on new hotspots and serves the HTTP API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return monitor.Run(cmd.Context(), settings)
		},
	}

	setupFlags(cmd, settings)
	return cmd
}

// setupFlags configures flags specific to the monitor command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().IntVar(&settings.Monitor.Interval, "interval", viper.GetInt("monitor.interval"), "Minutes between polls")
	cmd.Flags().StringVar(&settings.Monitor.Listen, "listen", viper.GetString("monitor.listen"), "HTTP API listen address")
	cmd.Flags().BoolVar(&settings.Pass.Enforce, "enforce-pass-windows", viper.GetBool("pass.enforce"), "Skip scheduled polls outside satellite pass windows")

	cobra.CheckErr(viper.BindPFlags(cmd.Flags()))
}
