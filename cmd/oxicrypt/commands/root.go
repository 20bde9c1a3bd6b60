// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package commands implements the oxicrypt subcommands.
package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"gitlab.com/yawning/oxicrypt.git"
	"gitlab.com/yawning/oxicrypt.git/internal/config"
)

var (
	configPath string
	verbose    bool

	cfg *config.Config
)

// Execute runs the command line tool.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "oxicrypt",
		Short:        "AES, SHA and HMAC over the fastest available backend",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(configPath); err != nil {
				return err
			}

			d, err := cfg.Defaults()
			if err != nil {
				return err
			}
			// The defaults are process wide, a second invocation in the same
			// process keeps the first configuration.
			if err = oxicrypt.Configure(d); err != nil && !errors.Is(err, oxicrypt.ErrAlreadyConfigured) {
				return err
			}

			if verbose {
				for _, f := range oxicrypt.Families() {
					cmd.PrintErrf("%s: using %s backend\n", f, oxicrypt.Default(f))
				}
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/"+config.FileName+")")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "report backend selection")

	root.AddCommand(
		backendsCmd(),
		digestCmd(),
		hmacCmd(),
		aesCmd(),
		selftestCmd(),
		configCmd(),
	)
	return root
}

func backendFlag(cmd *cobra.Command, name string) (oxicrypt.Backend, error) {
	s, err := cmd.Flags().GetString(name)
	if err != nil {
		return oxicrypt.Auto, err
	}
	return oxicrypt.ParseBackend(s)
}
