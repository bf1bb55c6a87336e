package commands

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/protolua/am"
	"github.com/teranos/protolua/docs"
	"github.com/teranos/protolua/errors"
	"github.com/teranos/protolua/idl"
	"github.com/teranos/protolua/logger"
	"github.com/teranos/protolua/schema"
	"github.com/teranos/protolua/server"
	"github.com/teranos/protolua/typegen"
	"github.com/teranos/protolua/typegen/lua"
	"github.com/teranos/protolua/typegen/markdown"
)

// generation is one complete run: document loaded, indexed, emitted, rendered
type generation struct {
	index  *schema.Index
	result *typegen.Result
	files  []typegen.File
	links  *docs.LinkFormatter
}

// loadIndex fetches the configured document and indexes it
func loadIndex(ctx context.Context, cfg *am.Config) (*schema.Index, error) {
	doc, err := idl.Load(ctx, cfg.Input.Source)
	if err != nil {
		return nil, err
	}
	idx, err := schema.New(doc, cfg.SchemaOptions())
	if err != nil {
		return nil, errors.Wrapf(err, "invalid document %s", cfg.Input.Source)
	}
	return idx, nil
}

// generateAll runs the whole pipeline, rendering with every generator in
// gens (Lua annotations when none are given). Nothing is written to disk.
func generateAll(ctx context.Context, cfg *am.Config, gens ...typegen.Generator) (*generation, error) {
	if len(gens) == 0 {
		gens = []typegen.Generator{lua.NewGenerator()}
	}
	start := time.Now()

	idx, err := loadIndex(ctx, cfg)
	if err != nil {
		return nil, err
	}

	links := docs.NewLinkFormatter(idx, cfg.Docs.BaseURL)
	var formatter typegen.Formatter = typegen.Identity
	if cfg.Docs.RewriteLinks {
		formatter = links
	}

	result, err := typegen.Generate(ctx, idx, formatter, cfg.TypegenOptions())
	if err != nil {
		return nil, err
	}

	var files []typegen.File
	for _, gen := range gens {
		rendered, err := typegen.Render(result, gen)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to render %s", gen.Language())
		}
		files = append(files, rendered...)
	}

	logger.Infow("Generated declarations",
		logger.FieldSource, cfg.Input.Source,
		logger.FieldCount, len(files),
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	return &generation{index: idx, result: result, files: files, links: links}, nil
}

// snapshot packages a generation for the artifact server
func (g *generation) snapshot() server.Snapshot {
	return server.Snapshot{Result: g.result, Files: g.files, Links: g.links.URL}
}

// loadConfig resolves configuration for cmd: the --config file if given,
// otherwise the merged config cascade, then command-line overrides.
func loadConfig(cmd *cobra.Command) (*am.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var loaded *am.Config
	var err error
	if path != "" {
		loaded, err = am.LoadFromFile(path)
	} else {
		loaded, err = am.Load()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	// copy so overrides never leak into the cached config
	cfg := *loaded
	applyOverrides(cmd, &cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "invalid configuration"),
			"run 'protolua config show' to inspect the effective configuration")
	}
	return &cfg, nil
}

// applyOverrides copies explicitly set flags over config values
func applyOverrides(cmd *cobra.Command, cfg *am.Config) {
	if f := cmd.Flags().Lookup("input"); f != nil && f.Changed {
		cfg.Input.Source = f.Value.String()
	}
	if f := cmd.Flags().Lookup("output"); f != nil && f.Changed {
		cfg.Output.Dir = f.Value.String()
	}
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		cfg.Server.Addr = f.Value.String()
	}
}

// getGenerators returns the generators for the --lang value
func getGenerators(lang string) ([]typegen.Generator, error) {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "", "lua":
		return []typegen.Generator{lua.NewGenerator()}, nil
	case "markdown", "md":
		return []typegen.Generator{markdown.NewGenerator()}, nil
	case "all":
		return []typegen.Generator{lua.NewGenerator(), markdown.NewGenerator()}, nil
	default:
		return nil, errors.Newf("invalid language: %s (supported: lua, markdown, all)", lang)
	}
}

// addInputFlag registers --input on cmd
func addInputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "API document: local path or URL (overrides input.source)")
}

// addOutputFlag registers --output on cmd
func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output directory (overrides output.dir)")
}
