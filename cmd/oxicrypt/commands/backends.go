// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitlab.com/yawning/oxicrypt.git"
)

func backendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "Show CPU capabilities and backend availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, reg := cmd.OutOrStdout(), oxicrypt.DefaultRegistry
			fmt.Fprintf(w, "capabilities: %s\n", reg.Capabilities())
			for _, f := range oxicrypt.Families() {
				fmt.Fprintf(w, "%s:\n", f)
				fmt.Fprintf(w, "  compiled:        %s\n", reg.Compiled(f))
				fmt.Fprintf(w, "  available:       %s\n", reg.Available(f))
				fmt.Fprintf(w, "  fastest static:  %s\n", reg.FastestStatic(f))
				fmt.Fprintf(w, "  fastest dynamic: %s\n", reg.FastestDynamic(f))
				fmt.Fprintf(w, "  default:         %s\n", oxicrypt.Default(f))
			}
			return nil
		},
	}
}
