package commands

import (
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/protolua/am"
	"github.com/teranos/protolua/typegen"
)

// GenerateCmd represents the generate command
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate Lua annotation files",
	Long: `Generate LuaLS annotation files from the prototype API document.

Three files are produced: concepts.lua, prototypes.lua and registry.lua.
Files are only written once all three sections have rendered, so a failing
run never leaves a partially updated output directory.

Examples:
  protolua generate                                   # Use protolua.toml
  protolua generate -i prototype-api.json -o library  # Explicit paths
  protolua generate -i https://lua-api.factorio.com/latest/prototype-api.json
  protolua generate --stdout                          # Print instead of writing
  protolua generate --lang all                        # Also write Markdown reference pages`,
	RunE: runGenerate,
}

func init() {
	addInputFlag(GenerateCmd)
	addOutputFlag(GenerateCmd)
	GenerateCmd.Flags().Bool("stdout", false, "Print generated files to stdout instead of writing them")
	GenerateCmd.Flags().StringP("lang", "l", "lua", "Output language: lua, markdown, all")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	lang, _ := cmd.Flags().GetString("lang")
	gens, err := getGenerators(lang)
	if err != nil {
		return err
	}

	gen, err := generateAll(cmd.Context(), cfg, gens...)
	if err != nil {
		return err
	}

	if toStdout, _ := cmd.Flags().GetBool("stdout"); toStdout {
		for _, f := range gen.files {
			fmt.Fprint(cmd.OutOrStdout(), f.Content)
		}
		return nil
	}

	return writeGeneration(cmd, cfg, gen)
}

// writeGeneration writes every file and reports them
func writeGeneration(cmd *cobra.Command, cfg *am.Config, gen *generation) error {
	if err := typegen.WriteFiles(cfg.Output.Dir, gen.files); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, f := range gen.files {
		fmt.Fprintf(out, "  %s %s\n",
			pterm.LightGreen("✓ Generated"),
			pterm.White(filepath.Join(cfg.Output.Dir, f.Name)))
	}
	fmt.Fprintf(out, "%s %s %s\n",
		pterm.Gray("→"),
		pterm.Yellow(gen.result.Application+" "+gen.result.ApplicationVersion),
		pterm.Gray(fmt.Sprintf("(%d sections)", len(gen.files))))
	return nil
}
