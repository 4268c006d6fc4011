// File: internal/device/config.go
package device

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds device-handling configuration
type Config struct {
	// LogicalBlockSize is the block size assumed for plain image files,
	// where there is no device control surface to query.
	LogicalBlockSize uint32 `mapstructure:"logical_block_size"`

	// AllowImageFiles permits operating on regular files instead of
	// block device nodes.
	AllowImageFiles bool `mapstructure:"allow_image_files"`
}

// LoadConfig loads device configuration using Viper
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("blockvault-config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.blockvault")
	v.AddConfigPath("/etc/blockvault")

	// Set defaults
	v.SetDefault("logical_block_size", 512)
	v.SetDefault("allow_image_files", true)

	// Allow environment variables
	v.SetEnvPrefix("BLOCKVAULT")
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
