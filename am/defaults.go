package am

import (
	"github.com/spf13/viper"

	"github.com/teranos/protolua/docs"
	"github.com/teranos/protolua/schema"
	"github.com/teranos/protolua/typegen"
)

// SetDefaults configures default values for all configuration options.
// Every key needs a default so environment variables can override it.
func SetDefaults(v *viper.Viper) {
	naming := typegen.DefaultOptions()
	identity := schema.DefaultOptions()

	// Input document
	v.SetDefault("input.source", "prototype-api.json")
	v.SetDefault("input.application", identity.Application)
	v.SetDefault("input.api_version", identity.APIVersion)
	v.SetDefault("input.stage", identity.Stage)
	v.SetDefault("input.version_constraint", "")

	// Output naming
	v.SetDefault("output.dir", "library")
	v.SetDefault("output.namespace_prefix", naming.NamespacePrefix)
	v.SetDefault("output.struct_suffix", naming.StructSuffix)
	v.SetDefault("output.base_prototype", naming.BasePrototype)
	v.SetDefault("output.registry_name", naming.RegistryName)

	// Docs
	v.SetDefault("docs.base_url", docs.DefaultBaseURL)
	v.SetDefault("docs.rewrite_links", true)

	v.SetDefault("watch.debounce_ms", 300)

	v.SetDefault("server.addr", "127.0.0.1:8787")
}
