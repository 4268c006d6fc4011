package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-blockvault/pkg/volume"
)

var (
	enrollKeyFile    string
	enrollNewKeyFile string
	enrollSlot       uint
	enrollNewSlot    uint
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <device>",
	Short: "Seal the data key under an additional root key",
	Long: `enroll unlocks the device with an existing root key, then seals the
data key under a new root key into another slot. Both keys unlock the
device afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := readKeyFile(enrollKeyFile)
		if err != nil {
			return err
		}
		defer wipe(key)
		newKey, err := readKeyFile(enrollNewKeyFile)
		if err != nil {
			return err
		}
		defer wipe(newKey)

		backend, err := volume.OpenDevice(args[0])
		if err != nil {
			return err
		}
		vol, err := volume.Open(backend, key, enrollSlot)
		if err != nil {
			return fmt.Errorf("failed to unlock device: %w", err)
		}
		defer vol.Close()

		if err := vol.Enroll(newKey, enrollNewSlot); err != nil {
			return fmt.Errorf("failed to enroll key: %w", err)
		}
		if !quiet {
			fmt.Printf("Enrolled new root key in slot %d\n", enrollNewSlot)
		}
		return nil
	},
}

func init() {
	enrollCmd.Flags().StringVarP(&enrollKeyFile, "key-file", "k", "", "file holding an enrolled root key")
	enrollCmd.Flags().StringVarP(&enrollNewKeyFile, "new-key-file", "n", "", "file holding the root key to enroll")
	enrollCmd.Flags().UintVarP(&enrollSlot, "slot", "s", 0, "slot the existing key occupies")
	enrollCmd.Flags().UintVar(&enrollNewSlot, "new-slot", 1, "slot to enroll the new key into")
	enrollCmd.MarkFlagRequired("key-file")
	enrollCmd.MarkFlagRequired("new-key-file")
	rootCmd.AddCommand(enrollCmd)
}
