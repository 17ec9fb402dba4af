// internal/app/config_cmd.go
package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"gffkit/internal/config"
)

func newConfigCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Print the default config.toml",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return config.WriteDefault(e.stdout)
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration after file, environment and flags",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, path, err := e.loadConfig(cmd)
				if err != nil {
					return err
				}
				if path == "" {
					path = "built-in defaults"
				}
				fmt.Fprintf(e.stdout, "# from %s\n", path)
				return config.Write(e.stdout, cfg)
			},
		},
	)
	return cmd
}
