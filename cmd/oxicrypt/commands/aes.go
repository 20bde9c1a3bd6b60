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
	"strings"

	"github.com/spf13/cobra"

	"gitlab.com/yawning/oxicrypt.git/aes"
)

func aesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aes",
		Short: "Raw AES block operations (ECB, hex in and out)",
	}
	cmd.PersistentFlags().StringP("key", "k", "", "hex encoded 16, 24 or 32 byte key")
	cmd.PersistentFlags().StringP("backend", "b", "", "aes backend (default auto)")
	_ = cmd.MarkPersistentFlagRequired("key")

	cmd.AddCommand(aesOpCmd("encrypt", false), aesOpCmd("decrypt", true))
	return cmd
}

func aesOpCmd(use string, decrypt bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " HEXBLOCKS",
		Short: "The " + use + " transform over a multiple of 16 bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyHex, _ := cmd.Flags().GetString("key")
			key, err := hex.DecodeString(keyHex)
			if err != nil {
				return err
			}
			blocks, err := hex.DecodeString(strings.Join(strings.Fields(args[0]), ""))
			if err != nil {
				return err
			}
			backend, err := backendFlag(cmd, "backend")
			if err != nil {
				return err
			}

			class, err := aes.KeyClassForKeySize(len(key))
			if err != nil {
				return err
			}
			e, err := aes.New(class, backend)
			if err != nil {
				return err
			}

			var sched []byte
			if decrypt {
				sched, err = e.NewDecryptSchedule(key)
			} else {
				sched, err = e.NewEncryptSchedule(key)
			}
			if err != nil {
				return err
			}
			defer func() {
				clear(sched)
			}()

			if decrypt {
				err = e.DecryptBlocks(sched, blocks)
			} else {
				err = e.EncryptBlocks(sched, blocks)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(blocks))
			return nil
		},
	}
}
