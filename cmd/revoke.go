package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-blockvault/pkg/volume"
)

var (
	revokeKeyFile    string
	revokeSlot       uint
	revokeTargetSlot uint
)

var revokeCmd = &cobra.Command{
	Use:   "revoke <device>",
	Short: "Permanently disable a key slot",
	Long: `revoke unlocks the device with a root key, then overwrites the target
slot with randomness. The key that occupied that slot can no longer
unlock the device.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := readKeyFile(revokeKeyFile)
		if err != nil {
			return err
		}
		defer wipe(key)

		backend, err := volume.OpenDevice(args[0])
		if err != nil {
			return err
		}
		vol, err := volume.Open(backend, key, revokeSlot)
		if err != nil {
			return fmt.Errorf("failed to unlock device: %w", err)
		}
		defer vol.Close()

		if err := vol.Revoke(revokeTargetSlot); err != nil {
			return fmt.Errorf("failed to revoke slot: %w", err)
		}
		if !quiet {
			fmt.Printf("Revoked slot %d\n", revokeTargetSlot)
		}
		return nil
	},
}

func init() {
	revokeCmd.Flags().StringVarP(&revokeKeyFile, "key-file", "k", "", "file holding an enrolled root key")
	revokeCmd.Flags().UintVarP(&revokeSlot, "slot", "s", 0, "slot the unlocking key occupies")
	revokeCmd.Flags().UintVarP(&revokeTargetSlot, "target-slot", "t", 0, "slot to revoke")
	revokeCmd.MarkFlagRequired("key-file")
	revokeCmd.MarkFlagRequired("target-slot")
	rootCmd.AddCommand(revokeCmd)
}
