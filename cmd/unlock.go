package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-blockvault/pkg/volume"
)

var (
	unlockKeyFile string
	unlockSlot    uint
)

var unlockCmd = &cobra.Command{
	Use:   "unlock <device>",
	Short: "Verify a root key and print device identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := readKeyFile(unlockKeyFile)
		if err != nil {
			return err
		}
		defer wipe(key)

		backend, err := volume.OpenDevice(args[0])
		if err != nil {
			return err
		}
		vol, err := volume.Open(backend, key, unlockSlot)
		if err != nil {
			return fmt.Errorf("failed to unlock device: %w", err)
		}
		defer vol.Close()

		guid, err := vol.InstanceGUID()
		if err != nil {
			return err
		}
		blk, vm, err := vol.Info()
		if err != nil {
			return err
		}
		hasVM, err := vol.HasVolumeManager()
		if err != nil {
			return err
		}

		instance, _ := uuid.FromBytes(guid[:])
		fmt.Printf("Instance:       %s\n", instance)
		fmt.Printf("Block size:     %d\n", blk.BlockSize)
		fmt.Printf("Block count:    %d\n", blk.BlockCount)
		fmt.Printf("Slice size:     %d\n", vm.SliceSize)
		fmt.Printf("Slice count:    %d\n", vm.VSliceCount)
		fmt.Printf("Volume manager: %v\n", hasVM)
		return nil
	},
}

func init() {
	unlockCmd.Flags().StringVarP(&unlockKeyFile, "key-file", "k", "", "file holding the root key bytes")
	unlockCmd.Flags().UintVarP(&unlockSlot, "slot", "s", 0, "key slot to unseal")
	unlockCmd.MarkFlagRequired("key-file")
	rootCmd.AddCommand(unlockCmd)
}
