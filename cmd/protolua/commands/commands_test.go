package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/protolua/am"
	"github.com/teranos/protolua/errors"
)

const testDocument = `{
  "application": "factorio",
  "application_version": "2.0.28",
  "api_version": 6,
  "stage": "prototype",
  "types": [
    {"name": "Basic", "type": {"complex_type": "struct"}, "description": "See [Widget](prototype:Widget).",
     "properties": [{"name": "x", "type": "uint8", "optional": false, "description": ""}]},
    {"name": "ColorLike", "type": {"complex_type": "union", "options": ["uint8", "string"], "full_format": false}, "description": ""}
  ],
  "prototypes": [
    {"name": "PrototypeBase", "description": "", "properties": [{"name": "name", "type": "string", "optional": false, "description": ""}]},
    {"name": "Widget", "typename": "widget", "parent": "PrototypeBase", "description": "A widget.",
     "properties": [{"name": "size", "alt_name": "sz", "type": "uint32", "optional": true, "description": ""}]}
  ]
}`

type fixture struct {
	dir    string
	config string
	output string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "prototype-api.json")
	output := filepath.Join(dir, "library")
	require.NoError(t, os.WriteFile(input, []byte(testDocument), 0644))

	config := filepath.Join(dir, am.ConfigFileName)
	content := "[input]\nsource = \"" + filepath.ToSlash(input) + "\"\n\n" +
		"[output]\ndir = \"" + filepath.ToSlash(output) + "\"\n\n" +
		"[docs]\nbase_url = \"https://docs.example\"\n"
	require.NoError(t, os.WriteFile(config, []byte(content), 0644))

	return fixture{dir: dir, config: config, output: output}
}

// newTestCmd builds a command carrying the flags the real commands read
func newTestCmd(t *testing.T, f fixture) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", "", "")
	addInputFlag(cmd)
	addOutputFlag(cmd)
	cmd.Flags().Bool("stdout", false, "")
	cmd.Flags().String("lang", "lua", "")
	cmd.Flags().String("format", "toml", "")
	require.NoError(t, cmd.Flags().Set("config", f.config))

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetContext(context.Background())
	return cmd, &out
}

func TestGenerateThenCheck(t *testing.T) {
	f := newFixture(t)

	cmd, out := newTestCmd(t, f)
	require.NoError(t, runGenerate(cmd, nil))
	assert.Contains(t, out.String(), "concepts.lua")

	for _, name := range []string{"concepts.lua", "prototypes.lua", "registry.lua"} {
		_, err := os.Stat(filepath.Join(f.output, name))
		assert.NoError(t, err, name)
	}

	concepts, err := os.ReadFile(filepath.Join(f.output, "concepts.lua"))
	require.NoError(t, err)
	assert.Contains(t, string(concepts), "---@class data.Basic\n")
	assert.Contains(t, string(concepts), "[Widget](https://docs.example/prototypes/Widget.html)")
	assert.Contains(t, string(concepts), "---@alias data.ColorLike (uint8)|(string)\n")

	registry, err := os.ReadFile(filepath.Join(f.output, "registry.lua"))
	require.NoError(t, err)
	assert.Contains(t, string(registry), `---@field ["widget"] {[string]: data.Widget}`)
	assert.Contains(t, string(registry), "function data:extend(otherdata) end\n")

	cmd, out = newTestCmd(t, f)
	require.NoError(t, runCheck(cmd, nil))
	assert.Contains(t, out.String(), "up to date")
}

func TestCheckReportsStaleFiles(t *testing.T) {
	f := newFixture(t)

	cmd, _ := newTestCmd(t, f)
	require.NoError(t, runGenerate(cmd, nil))
	require.NoError(t, os.WriteFile(filepath.Join(f.output, "prototypes.lua"), []byte("stale"), 0644))
	require.NoError(t, os.Remove(filepath.Join(f.output, "registry.lua")))

	cmd, out := newTestCmd(t, f)
	err := runCheck(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, out.String(), "prototypes.lua")
	assert.Contains(t, out.String(), "registry.lua (missing)")
	assert.NotEmpty(t, errors.FlattenHints(err))
}

func TestGenerateToStdout(t *testing.T) {
	f := newFixture(t)

	cmd, out := newTestCmd(t, f)
	require.NoError(t, cmd.Flags().Set("stdout", "true"))
	require.NoError(t, runGenerate(cmd, nil))

	assert.Equal(t, 3, strings.Count(out.String(), "---@meta\n"))
	_, err := os.Stat(f.output)
	assert.True(t, os.IsNotExist(err), "nothing written with --stdout")
}

func TestGenerateFailureWritesNothing(t *testing.T) {
	f := newFixture(t)
	broken := filepath.Join(f.dir, "broken.json")
	doc := strings.Replace(testDocument, `"type": "uint32"`, `"type": "NoSuchType"`, 1)
	require.NoError(t, os.WriteFile(broken, []byte(doc), 0644))

	cmd, _ := newTestCmd(t, f)
	require.NoError(t, cmd.Flags().Set("input", broken))
	err := runGenerate(cmd, nil)
	require.Error(t, err)
	assert.True(t, errors.IsTypeResolutionError(err))

	_, statErr := os.Stat(f.output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerateRejectsWrongStage(t *testing.T) {
	f := newFixture(t)
	other := filepath.Join(f.dir, "runtime.json")
	doc := strings.Replace(testDocument, `"stage": "prototype"`, `"stage": "runtime"`, 1)
	require.NoError(t, os.WriteFile(other, []byte(doc), 0644))

	cmd, _ := newTestCmd(t, f)
	require.NoError(t, cmd.Flags().Set("input", other))
	err := runGenerate(cmd, nil)
	require.Error(t, err)
	assert.True(t, errors.IsDocumentIdentityError(err))
}

func TestOutputOverride(t *testing.T) {
	f := newFixture(t)
	elsewhere := filepath.Join(f.dir, "elsewhere")

	cmd, _ := newTestCmd(t, f)
	require.NoError(t, cmd.Flags().Set("output", elsewhere))
	require.NoError(t, runGenerate(cmd, nil))

	_, err := os.Stat(filepath.Join(elsewhere, "prototypes.lua"))
	assert.NoError(t, err)
}

func TestLink(t *testing.T) {
	f := newFixture(t)

	cmd, out := newTestCmd(t, f)
	require.NoError(t, runLink(cmd, []string{"Widget", "size"}))
	assert.Equal(t, "https://docs.example/prototypes/Widget.html#size\n", out.String())

	cmd, _ = newTestCmd(t, f)
	err := runLink(cmd, []string{"Nothing"})
	require.Error(t, err)
	assert.True(t, errors.IsLinkResolutionError(err))
}

func TestConfigShowFormats(t *testing.T) {
	f := newFixture(t)
	cfg, err := am.LoadFromFile(f.config)
	require.NoError(t, err)

	tests := []struct {
		format string
		want   string
	}{
		{"toml", "[output]"},
		{"yaml", "namespace_prefix: data."},
		{"json", `"namespace_prefix": "data."`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := renderConfig(cfg, tt.format)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}

	_, err = renderConfig(cfg, "ini")
	assert.Error(t, err)
}

func TestConfigGet(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PROTOLUA_SERVER_ADDR", "0.0.0.0:7000")
	am.Reset()
	t.Cleanup(am.Reset)

	cmd, out := newTestCmd(t, newFixture(t))
	require.NoError(t, runConfigGet(cmd, []string{"server.addr"}))
	assert.Equal(t, "0.0.0.0:7000\n", out.String())

	out.Reset()
	require.NoError(t, runConfigGet(cmd, []string{"output.struct_suffix"}))
	assert.Equal(t, ".struct\n", out.String())

	err := runConfigGet(cmd, []string{"output.nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.nope")
}

func TestConfigValidate(t *testing.T) {
	f := newFixture(t)

	cmd, out := newTestCmd(t, f)
	require.NoError(t, runConfigValidate(cmd, nil))
	assert.Contains(t, out.String(), "valid")

	bad := filepath.Join(f.dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[output]\nstruct_suffix = \"\"\n"), 0644))
	cmd, _ = newTestCmd(t, f)
	require.NoError(t, cmd.Flags().Set("config", bad))
	err := runConfigValidate(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.struct_suffix")
}

func TestWatchPathsRejectsRemote(t *testing.T) {
	f := newFixture(t)
	cmd, _ := newTestCmd(t, f)
	cfg, err := loadConfig(cmd)
	require.NoError(t, err)

	paths, err := watchPaths(cmd, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{cfg.Input.Source, f.config}, paths)

	cfg.Input.Source = "https://example.com/prototype-api.json"
	_, err = watchPaths(cmd, cfg)
	require.Error(t, err)
}

func TestGenerateAllLanguages(t *testing.T) {
	f := newFixture(t)

	cmd, _ := newTestCmd(t, f)
	require.NoError(t, cmd.Flags().Set("lang", "all"))
	require.NoError(t, runGenerate(cmd, nil))

	for _, name := range []string{"concepts.lua", "concepts.md", "registry.md"} {
		_, err := os.Stat(filepath.Join(f.output, name))
		assert.NoError(t, err, name)
	}

	// check only compares the Lua files
	cmd, _ = newTestCmd(t, f)
	require.NoError(t, runCheck(cmd, nil))
}

func TestGetGenerators(t *testing.T) {
	gens, err := getGenerators("")
	require.NoError(t, err)
	require.Len(t, gens, 1)
	assert.Equal(t, "lua", gens[0].Language())

	gens, err = getGenerators("md")
	require.NoError(t, err)
	assert.Equal(t, "markdown", gens[0].Language())

	_, err = getGenerators("typescript")
	assert.Error(t, err)
}
