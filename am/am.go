// Package am holds protolua's configuration ("I am"): where the API document
// comes from, what identity it must carry, and how declarations are named
// and written.
package am

import (
	"fmt"
	"time"

	"github.com/teranos/protolua/schema"
	"github.com/teranos/protolua/typegen"
)

// Config represents the protolua configuration
type Config struct {
	Input  InputConfig  `mapstructure:"input" toml:"input" yaml:"input" json:"input"`
	Output OutputConfig `mapstructure:"output" toml:"output" yaml:"output" json:"output"`
	Docs   DocsConfig   `mapstructure:"docs" toml:"docs" yaml:"docs" json:"docs"`
	Watch  WatchConfig  `mapstructure:"watch" toml:"watch" yaml:"watch" json:"watch"`
	Server ServerConfig `mapstructure:"server" toml:"server" yaml:"server" json:"server"`
}

// InputConfig describes the API document and the identity it must carry
type InputConfig struct {
	Source            string `mapstructure:"source" toml:"source" yaml:"source" json:"source"` // local path or go-getter URL
	Application       string `mapstructure:"application" toml:"application" yaml:"application" json:"application"`
	APIVersion        int    `mapstructure:"api_version" toml:"api_version" yaml:"api_version" json:"api_version"`
	Stage             string `mapstructure:"stage" toml:"stage" yaml:"stage" json:"stage"`
	VersionConstraint string `mapstructure:"version_constraint" toml:"version_constraint" yaml:"version_constraint" json:"version_constraint"` // semver, empty = any
}

// OutputConfig controls naming and placement of the generated files
type OutputConfig struct {
	Dir             string `mapstructure:"dir" toml:"dir" yaml:"dir" json:"dir"`
	NamespacePrefix string `mapstructure:"namespace_prefix" toml:"namespace_prefix" yaml:"namespace_prefix" json:"namespace_prefix"`
	StructSuffix    string `mapstructure:"struct_suffix" toml:"struct_suffix" yaml:"struct_suffix" json:"struct_suffix"`
	BasePrototype   string `mapstructure:"base_prototype" toml:"base_prototype" yaml:"base_prototype" json:"base_prototype"`
	RegistryName    string `mapstructure:"registry_name" toml:"registry_name" yaml:"registry_name" json:"registry_name"`
}

// DocsConfig configures documentation link rewriting in descriptions
type DocsConfig struct {
	BaseURL      string `mapstructure:"base_url" toml:"base_url" yaml:"base_url" json:"base_url"`
	RewriteLinks bool   `mapstructure:"rewrite_links" toml:"rewrite_links" yaml:"rewrite_links" json:"rewrite_links"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms" yaml:"debounce_ms" json:"debounce_ms"`
}

// ServerConfig configures the artifact server
type ServerConfig struct {
	Addr string `mapstructure:"addr" toml:"addr" yaml:"addr" json:"addr"`
}

// File and directory names
const (
	ConfigFileName        = "protolua.toml"
	UserConfigDir         = ".protolua"
	EnvPrefix             = "PROTOLUA"
	DefaultDirPermissions = 0755
)

// SchemaOptions returns the identity checks for schema.New
func (c *Config) SchemaOptions() schema.Options {
	return schema.Options{
		Application:       c.Input.Application,
		APIVersion:        c.Input.APIVersion,
		Stage:             c.Input.Stage,
		VersionConstraint: c.Input.VersionConstraint,
	}
}

// TypegenOptions returns the naming options for typegen.Generate
func (c *Config) TypegenOptions() typegen.Options {
	return typegen.Options{
		NamespacePrefix: c.Output.NamespacePrefix,
		StructSuffix:    c.Output.StructSuffix,
		BasePrototype:   c.Output.BasePrototype,
		RegistryName:    c.Output.RegistryName,
	}
}

// Debounce returns the watch debounce period
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Input: {Source: %s, Application: %s}, Output: {Dir: %s}, Server: {Addr: %s}}",
		c.Input.Source, c.Input.Application, c.Output.Dir, c.Server.Addr)
}
