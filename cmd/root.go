package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global output flags only
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "blockvault",
	Short: "Encrypted block device metadata manager",
	Long: `blockvault manages the encrypted metadata of a block device: the
redundant superblock copies holding the wrapped data-encryption key.

A device carries 16 independent key slots. Any enrolled root key unlocks
the same data key; revoking a slot disables that key without touching the
others, and shredding destroys every copy of the metadata outright.

Commands:
  create      Initialize a device, enrolling a root key in slot 0
  unlock      Verify a root key and print device identity
  enroll      Seal the data key under an additional root key
  revoke      Permanently disable a key slot
  shred       Destroy all metadata copies
  info        Show device geometry without unlocking`,
	Version: "0.1.0-dev",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch {
		case quiet:
			logrus.SetLevel(logrus.ErrorLevel)
		case verbose:
			logrus.SetLevel(logrus.DebugLevel)
		default:
			logrus.SetLevel(logrus.WarnLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
}
