package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/patiwat/firewatch-go/cmd/check"
	"github.com/patiwat/firewatch-go/cmd/config"
	"github.com/patiwat/firewatch-go/cmd/monitor"
	"github.com/patiwat/firewatch-go/cmd/notify"
	"github.com/patiwat/firewatch-go/internal/conf"
)

// RootCommand creates and returns the root command.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "firewatch",
		Short: "Satellite hotspot monitoring and alerting for Kanchanaburi",
	}

	setupFlags(rootCmd, settings)

	rootCmd.AddCommand(
		monitor.Command(settings),
		check.Command(settings),
		notify.Command(settings),
		config.Command(),
	)

	return rootCmd
}

// setupFlags configures global flags shared by every subcommand.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Feed.FIRMS.APIKey, "firms-key", viper.GetString("feed.firms.apikey"), "NASA FIRMS MAP_KEY")
	rootCmd.PersistentFlags().StringVar(&settings.Region.Province, "province", viper.GetString("region.province"), "Province name used in alerts and queries")

	cobra.CheckErr(viper.BindPFlags(rootCmd.PersistentFlags()))
}
