// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gitlab.com/yawning/oxicrypt.git/internal/selftest"
)

var errSelftestFailed = errors.New("selftest failed")

func selftestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Check every available backend against known answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed bool
			for _, r := range selftest.Run() {
				if r.Passed() {
					fmt.Fprintf(cmd.OutOrStdout(), "ok    %-12s %s\n", r.Name, r.Backend)
					continue
				}
				failed = true
				fmt.Fprintf(cmd.OutOrStdout(), "FAIL  %-12s %s: %v\n", r.Name, r.Backend, r.Err)
			}
			if failed {
				return errSelftestFailed
			}
			return nil
		},
	}
}
