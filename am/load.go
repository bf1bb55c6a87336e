package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/protolua/errors"
	"github.com/teranos/protolua/logger"
)

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the protolua configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	globalConfig = &config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	// Defaults only; no environment binding for an explicit file
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}

	return &config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	ConfigSources = make(map[string]SourceInfo)
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// FindProjectConfig searches for protolua.toml by walking up from the
// working directory. Returns the empty string if none is found.
func FindProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// UserConfigPath returns ~/.protolua/protolua.toml, or "" without a home dir
func UserConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, UserConfigDir, ConfigFileName)
}

// ConfigPaths lists candidate config files, lowest precedence first
func ConfigPaths() []Candidate {
	var paths []Candidate
	if user := UserConfigPath(); user != "" {
		paths = append(paths, Candidate{Source: SourceUser, Path: user})
	}
	if project := FindProjectConfig(); project != "" {
		paths = append(paths, Candidate{Source: SourceProject, Path: project})
	}
	return paths
}

// mergeConfigFiles merges configuration files in precedence order:
// user < project < env vars
func mergeConfigFiles(v *viper.Viper) {
	ConfigSources = make(map[string]SourceInfo)

	for _, c := range ConfigPaths() {
		if _, err := os.Stat(c.Path); err != nil {
			continue
		}

		tempViper := viper.New()
		tempViper.SetConfigFile(c.Path)
		tempViper.SetConfigType("toml")

		if err := tempViper.ReadInConfig(); err != nil {
			logger.Warnw("Skipping unreadable config file",
				logger.FieldFile, c.Path,
				logger.FieldError, err)
			continue
		}

		settings := tempViper.AllSettings()
		if err := v.MergeConfigMap(settings); err != nil {
			logger.Warnw("Failed to merge config file",
				logger.FieldFile, c.Path,
				logger.FieldError, err)
			continue
		}
		trackSources(settings, "", SourceInfo{Source: c.Source, Path: c.Path})
	}
}

// Get returns a configuration value using dot notation
func Get(key string) interface{} {
	return initViper().Get(key)
}
