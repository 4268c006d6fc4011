package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-blockvault/pkg/volume"
)

var createKeyFile string

var createCmd = &cobra.Command{
	Use:   "create <device>",
	Short: "Initialize a device, enrolling a root key in slot 0",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := readKeyFile(createKeyFile)
		if err != nil {
			return err
		}
		defer wipe(key)

		backend, err := volume.OpenDevice(args[0])
		if err != nil {
			return err
		}
		if err := volume.Create(backend, key); err != nil {
			return fmt.Errorf("failed to create device: %w", err)
		}
		if !quiet {
			fmt.Printf("Initialized %s; root key enrolled in slot 0\n", args[0])
		}
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createKeyFile, "key-file", "k", "", "file holding the root key bytes")
	createCmd.MarkFlagRequired("key-file")
	rootCmd.AddCommand(createCmd)
}
