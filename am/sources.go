package am

import (
	"os"
	"sort"
	"strings"

	"github.com/teranos/protolua/errors"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceUser        ConfigSource = "user"        // ~/.protolua/protolua.toml
	SourceProject     ConfigSource = "project"     // protolua.toml found upward from cwd
	SourceEnvironment ConfigSource = "environment" // PROTOLUA_* env vars
)

// Candidate is a config file location and the source it represents
type Candidate struct {
	Source ConfigSource
	Path   string
}

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // file path or environment variable name
}

// ConfigSources maps dotted keys to the file that last set them.
// Populated while loading.
var ConfigSources = make(map[string]SourceInfo)

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"`
}

// Introspection lists every effective setting with its origin
type Introspection struct {
	Settings []SettingInfo `json:"settings"`
}

// GetIntrospection returns every effective setting, sorted by key, with the
// source that supplied it
func GetIntrospection() (*Introspection, error) {
	if _, err := Load(); err != nil {
		return nil, errors.Wrap(err, "failed to load config for introspection")
	}

	intro := &Introspection{}
	flattenSettings(GetViper().AllSettings(), "", intro)
	return intro, nil
}

func trackSources(settings map[string]interface{}, prefix string, info SourceInfo) {
	for key, value := range settings {
		fullKey := joinKey(prefix, key)
		if nested, ok := value.(map[string]interface{}); ok {
			trackSources(nested, fullKey, info)
			continue
		}
		ConfigSources[fullKey] = info
	}
}

func flattenSettings(settings map[string]interface{}, prefix string, intro *Introspection) {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]
		fullKey := joinKey(prefix, key)

		if nested, ok := value.(map[string]interface{}); ok {
			flattenSettings(nested, fullKey, intro)
			continue
		}

		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := ConfigSources[fullKey]; ok {
			info = si
		}
		if envKey := EnvKey(fullKey); os.Getenv(envKey) != "" {
			info = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}

		intro.Settings = append(intro.Settings, SettingInfo{
			Key:        fullKey,
			Value:      value,
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
}

// EnvKey returns the environment variable overriding a dotted key
func EnvKey(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
