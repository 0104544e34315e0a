package config

import (
	"fmt"
	"path/filepath"
	"strings"

	internal "github.com/ZanzyTHEbar/pathkit/pathkit"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	PathKit PathKitConfig `mapstructure:"pathkit"`
}

// PathKitConfig stores pathkit specific configurations.
type PathKitConfig struct {
	CacheDir string        `mapstructure:"cacheDir"`
	TempDir  string        `mapstructure:"tempDir"`
	Render   RenderConfig  `mapstructure:"render"`
	Resolve  ResolveConfig `mapstructure:"resolve"`
}

// RenderConfig stores tree rendering settings.
type RenderConfig struct {
	Style      string `mapstructure:"style"` // "unicode" or "ascii"
	IgnoreFile string `mapstructure:"ignoreFile"`
	MaxDepth   int    `mapstructure:"maxDepth"`
}

// ResolveConfig stores path resolution settings.
type ResolveConfig struct {
	Workers int `mapstructure:"workers"` // worker count for batch resolution (0 = auto)
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("..")
		viper.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		viper.AddConfigPath(internal.DefaultConfigPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Set default values
	viper.SetDefault("pathkit.cacheDir", internal.DefaultCacheDir)
	viper.SetDefault("pathkit.tempDir", "")
	viper.SetDefault("pathkit.render.style", internal.DefaultRenderStyle)
	viper.SetDefault("pathkit.render.ignoreFile", internal.DefaultIgnoreFile)
	viper.SetDefault("pathkit.render.maxDepth", 0)
	viper.SetDefault("pathkit.resolve.workers", 0)

	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // e.g. pathkit.render.style becomes PATHKIT_RENDER_STYLE

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; defaults will be used. This is not an error
			// for the application to halt on.
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &AppConfig, nil
}
