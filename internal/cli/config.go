// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ik5/intake/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var errConfigExists = errors.New("config file already exists")

func (c *CLI) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(c.cfg, "", "  ")
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "# %s\n%s\n", c.manager.Path(), data)
			fmt.Fprintf(w, "# usage database: %s\n", c.manager.UsageDBPath(c.cfg))
			if c.cfg.APIKey == "" {
				fmt.Fprintf(w, "# %s is not set\n", config.EnvAPIKey)
			}
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.manager.Path()
			exists, err := afero.Exists(c.fs, path)
			if err != nil {
				return err
			}
			if exists && !force {
				return fmt.Errorf("%w: %s (use --force to overwrite)", errConfigExists, path)
			}
			if err := c.manager.Save(config.Default(), path); err != nil {
				return err
			}
			c.logger.Info().Str("path", path).Msg("config file written")
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.AddCommand(initCmd)

	return cmd
}
