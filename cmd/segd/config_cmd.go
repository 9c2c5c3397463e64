package main

import (
	"github.com/spf13/cobra"

	"segd/internal/config"
)

func newConfigCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  "Print the configuration after merging defaults, the config file, SEGD_* variables and flags.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := config.ParseFormat(format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return config.Encode(cmd.OutOrStdout(), cfg, f)
		},
	}
	cmd.Flags().StringVar(&format, "format", string(config.FormatYAML), "Output format: yaml, json or toml")
	return cmd
}
