package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/patiwat/firewatch-go/internal/conf"
)

// Command creates the configuration management command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(initCommand())
	return cmd
}

// initCommand writes the effective configuration to a file.
func initCommand() *cobra.Command {
	var file string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to a file",
		Long:  "Write the merged configuration (defaults, config file, environment and flags) to a YAML file. Secrets resolved from the environment are written out as well.",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := conf.Setting()
			if settings == nil {
				return fmt.Errorf("configuration is not loaded")
			}
			if !force {
				if _, err := os.Stat(file); err == nil {
					return fmt.Errorf("%s already exists, use --force to overwrite", file)
				}
			}
			if err := settings.SaveAs(file); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "configuration written to", file)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "config.yaml", "Destination path")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
