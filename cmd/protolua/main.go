package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/protolua/cmd/protolua/commands"
	"github.com/teranos/protolua/errors"
	"github.com/teranos/protolua/logger"
)

var rootCmd = &cobra.Command{
	Use:   "protolua",
	Short: "protolua - Lua annotations from the prototype API description",
	Long: `protolua - Generate LuaLS annotation files from the prototype API document.

The prototype API document is the machine-readable description of every
prototype and type a mod may declare in the data stage. protolua turns it into
three files of ---@class and ---@alias declarations (concepts, prototypes and
the data registry) so a Lua language server can type-check data-stage code.

Available commands:
  generate - Generate annotation files
  check    - Check that generated files are up to date
  watch    - Regenerate whenever the document or config changes
  serve    - Serve generated files over HTTP
  link     - Resolve a member to its documentation URL
  config   - Show and validate configuration
  version  - Show version information

Examples:
  protolua generate -i prototype-api.json -o library
  protolua check
  protolua serve --watch
  protolua link Widget size`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: protolua.toml found upward, then ~/.protolua/protolua.toml)")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.LinkCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", pterm.Red("Error:"), err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "%s %s\n", pterm.Yellow("Hint:"), hint)
		}
		os.Exit(1)
	}
}
