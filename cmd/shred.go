package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-blockvault/pkg/volume"
)

var (
	shredKeyFile string
	shredSlot    uint
	shredConfirm bool
)

var shredCmd = &cobra.Command{
	Use:   "shred <device>",
	Short: "Destroy all metadata copies",
	Long: `shred unlocks the device, then overwrites every metadata copy with
randomness. No root key can unlock the device afterwards. This cannot
be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !shredConfirm {
			return fmt.Errorf("refusing to shred without --yes")
		}
		key, err := readKeyFile(shredKeyFile)
		if err != nil {
			return err
		}
		defer wipe(key)

		backend, err := volume.OpenDevice(args[0])
		if err != nil {
			return err
		}
		vol, err := volume.Open(backend, key, shredSlot)
		if err != nil {
			return fmt.Errorf("failed to unlock device: %w", err)
		}
		defer vol.Close()

		if err := vol.Shred(); err != nil {
			return fmt.Errorf("failed to shred device: %w", err)
		}
		if !quiet {
			fmt.Printf("Shredded %s\n", args[0])
		}
		return nil
	},
}

func init() {
	shredCmd.Flags().StringVarP(&shredKeyFile, "key-file", "k", "", "file holding an enrolled root key")
	shredCmd.Flags().UintVarP(&shredSlot, "slot", "s", 0, "slot the unlocking key occupies")
	shredCmd.Flags().BoolVar(&shredConfirm, "yes", false, "confirm destruction")
	shredCmd.MarkFlagRequired("key-file")
	rootCmd.AddCommand(shredCmd)
}
