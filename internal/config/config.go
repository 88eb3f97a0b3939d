package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DeviceConfig selects the USB device and how reports are written to it.
type DeviceConfig struct {
	VendorID  uint16        `mapstructure:"vendorId"`
	ProductID uint16        `mapstructure:"productId"`
	Interface uint16        `mapstructure:"interface"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// LumberjackConfig configures the rolling log file. An empty Filename
// disables file output.
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig sets log level and output.
type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

// Config is the top level configuration.
type Config struct {
	Device  DeviceConfig  `mapstructure:"device"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// flagKeys maps command line flags onto configuration keys. Flags that were
// set take precedence over the file and the environment.
var flagKeys = map[string]string{
	"vendor-id":  "device.vendorId",
	"product-id": "device.productId",
	"interface":  "device.interface",
	"timeout":    "device.timeout",
	"log-level":  "logging.level",
	"log-format": "logging.format",
	"log-file":   "logging.file.filename",
}

// Load reads configuration from a YAML/TOML/JSON file, the environment and
// flags. If path is empty, RAZERLED_CONFIG is consulted, then
// razerled.yaml in the working directory and ~/.config/razerled; finding
// no file there is not an error. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if path == "" {
		path = os.Getenv("RAZERLED_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/razerled")
		}
		v.SetConfigName("razerled")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	// RAZERLED_DEVICE_TIMEOUT overrides device.timeout, and so on.
	v.SetEnvPrefix("RAZERLED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("device.vendorId", 0x1532)
	v.SetDefault("device.productId", 0x005C)
	v.SetDefault("device.interface", 0x01)
	v.SetDefault("device.timeout", "1s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.filename", "")
	v.SetDefault("logging.file.maxSize", 10)
	v.SetDefault("logging.file.maxBackups", 3)
	v.SetDefault("logging.file.maxAge", 30)
	v.SetDefault("logging.file.compress", true)
}
