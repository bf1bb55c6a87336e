package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/protolua/docs"
)

// LinkCmd resolves documentation links
var LinkCmd = &cobra.Command{
	Use:   "link <member> [fragment]",
	Short: "Resolve a member to its documentation URL",
	Long: `Resolve a concept, prototype or container name to its documentation URL.

Members are looked up among concepts first, then prototypes. "types" and
"prototypes" name the index pages.

Examples:
  protolua link Vector              # .../types/Vector.html
  protolua link Widget size         # .../prototypes/Widget.html#size
  protolua link prototypes          # .../prototypes.html`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runLink,
}

func init() {
	addInputFlag(LinkCmd)
}

func runLink(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	idx, err := loadIndex(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	fragment := ""
	if len(args) == 2 {
		fragment = args[1]
	}

	url, err := docs.NewLinkFormatter(idx, cfg.Docs.BaseURL).URL(args[0], fragment)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), url)
	return nil
}
