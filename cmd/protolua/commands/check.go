package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/protolua/errors"
	"github.com/teranos/protolua/typegen"
	"github.com/teranos/protolua/typegen/lua"
)

// CheckCmd checks if generated files are up to date
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check if generated files are up to date",
	Long: `Check if the files in the output directory match what generate would write.

Generator version stamps in file headers are ignored, so upgrading protolua
alone does not make files stale.

Exit codes:
  0 - Files are up to date
  1 - Files are out of date or the check failed

Examples:
  protolua check               # Check the configured output directory
  protolua check -o library    # Check a specific directory`,
	RunE: runCheck,
}

func init() {
	addInputFlag(CheckCmd)
	addOutputFlag(CheckCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	gen, err := generateAll(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	result := typegen.CompareFiles(cfg.Output.Dir, gen.files, lua.GeneratorLinePrefix)
	if result.UpToDate {
		fmt.Fprintf(out, "%s\n", pterm.LightGreen("✓ Generated files are up to date"))
		return nil
	}

	fmt.Fprintf(out, "%s\n", pterm.Red("✗ Generated files are out of date:"))
	for _, file := range result.Differences {
		fmt.Fprintf(out, "  - %s\n", file)
	}
	return errors.WithHint(errors.New("generated files are out of date"),
		"run 'protolua generate' to update them")
}
