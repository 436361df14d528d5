package cmd

import (
	"github.com/spf13/cobra"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	// accepted so "config show --port" reflects what serve would use
	show.Flags().Int("port", 8000, "listen port (PORT / API_PORT)")
	show.Flags().String("data", "dados/painel_solar.csv", "solar CSV path (SOLAR_DATA_PATH)")
	cmd.AddCommand(show)
	return cmd
}
