// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"gitlab.com/yawning/oxicrypt.git/digest"
	"gitlab.com/yawning/oxicrypt.git/hmac"
)

func algorithmFlag(cmd *cobra.Command) (digest.Algorithm, error) {
	s, err := cmd.Flags().GetString("alg")
	if err != nil {
		return 0, err
	}
	if s == "" {
		return cfg.Algorithm()
	}
	return digest.ParseAlgorithm(s)
}

// hashInputs feeds every named file, or stdin when there are none, to w.
// emit is called after each input.
func hashInputs(cmd *cobra.Command, args []string, w io.Writer, emit func(name string) error) error {
	if len(args) == 0 {
		if _, err := io.Copy(w, cmd.InOrStdin()); err != nil {
			return err
		}
		return emit("-")
	}

	for _, name := range args {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, f)
		f.Close()
		if err != nil {
			return err
		}
		if err = emit(name); err != nil {
			return err
		}
	}
	return nil
}

func digestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest [files...]",
		Short: "Hash files, or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			alg, err := algorithmFlag(cmd)
			if err != nil {
				return err
			}
			backend, err := backendFlag(cmd, "backend")
			if err != nil {
				return err
			}
			ctx, err := digest.New(alg, backend)
			if err != nil {
				return err
			}

			out := make([]byte, alg.Size())
			return hashInputs(cmd, args, ctx, func(name string) error {
				if err := ctx.Finish(out); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", hex.EncodeToString(out), name)
				ctx.Reset()
				return nil
			})
		},
	}
	cmd.Flags().StringP("alg", "a", "", "hash algorithm (default from config)")
	cmd.Flags().StringP("backend", "b", "", "digest backend (default auto)")
	return cmd
}

func hmacCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hmac [files...]",
		Short: "Compute the HMAC of files, or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			alg, err := algorithmFlag(cmd)
			if err != nil {
				return err
			}
			backend, err := backendFlag(cmd, "backend")
			if err != nil {
				return err
			}
			keyHex, _ := cmd.Flags().GetString("key")
			key, err := hex.DecodeString(keyHex)
			if err != nil {
				return err
			}

			mac, err := hmac.NewWithKey(alg, backend, key)
			if err != nil {
				return err
			}
			defer mac.Wipe()

			out := make([]byte, mac.Size())
			return hashInputs(cmd, args, mac, func(name string) error {
				if err := mac.Finish(out); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", hex.EncodeToString(out), name)
				mac.Reset()
				return nil
			})
		},
	}
	cmd.Flags().StringP("alg", "a", "", "hash algorithm (default from config)")
	cmd.Flags().StringP("backend", "b", "", "digest backend (default auto)")
	cmd.Flags().StringP("key", "k", "", "hex encoded key")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}
