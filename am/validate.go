package am

import (
	"net/url"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/protolua/errors"
	"github.com/teranos/protolua/typegen/lua"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Input.Source == "" {
		return errors.New("input.source cannot be empty")
	}
	if c.Input.Application == "" {
		return errors.New("input.application cannot be empty")
	}
	if c.Input.APIVersion <= 0 {
		return errors.Newf("input.api_version must be > 0, got %d", c.Input.APIVersion)
	}
	if c.Input.Stage == "" {
		return errors.New("input.stage cannot be empty")
	}
	if c.Input.VersionConstraint != "" {
		if _, err := semver.NewConstraint(c.Input.VersionConstraint); err != nil {
			return errors.Wrapf(err, "input.version_constraint %q is not a valid constraint", c.Input.VersionConstraint)
		}
	}

	if c.Output.Dir == "" {
		return errors.New("output.dir cannot be empty")
	}
	// an empty suffix would give a concept's struct body and alias the same name
	if c.Output.StructSuffix == "" {
		return errors.New("output.struct_suffix cannot be empty")
	}
	if c.Output.BasePrototype == "" {
		return errors.New("output.base_prototype cannot be empty")
	}
	if !lua.IsIdentifier(c.Output.RegistryName) {
		return errors.Newf("output.registry_name must be a Lua identifier, got %q", c.Output.RegistryName)
	}

	if c.Docs.RewriteLinks && c.Docs.BaseURL != "" {
		u, err := url.Parse(c.Docs.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.Newf("docs.base_url must be an absolute URL, got %q", c.Docs.BaseURL)
		}
	}

	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	if c.Server.Addr == "" {
		return errors.New("server.addr cannot be empty")
	}

	return nil
}
