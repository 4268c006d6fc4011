package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-blockvault/pkg/volume"
)

var infoCmd = &cobra.Command{
	Use:   "info <device>",
	Short: "Show device geometry without unlocking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := volume.OpenDevice(args[0])
		if err != nil {
			return err
		}
		blk, vm, hasVM, err := volume.Probe(backend)
		if err != nil {
			return fmt.Errorf("failed to probe device: %w", err)
		}

		fmt.Printf("Block size:     %d\n", blk.BlockSize)
		fmt.Printf("Block count:    %d\n", blk.BlockCount)
		fmt.Printf("Slice size:     %d\n", vm.SliceSize)
		fmt.Printf("Slice count:    %d\n", vm.VSliceCount)
		fmt.Printf("Volume manager: %v\n", hasVM)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
