package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/protolua/am"
	"github.com/teranos/protolua/errors"
	"github.com/teranos/protolua/logger"
)

// WatchCmd regenerates on input changes
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate whenever the document or config changes",
	Long: `Generate once, then regenerate whenever the input document or the
project config file changes. Only local input documents can be watched.

A failing regeneration is reported and the previous files are left alone;
watching continues until interrupted.

Examples:
  protolua watch
  protolua watch -i ../api/prototype-api.json -o library`,
	RunE: runWatch,
}

func init() {
	addInputFlag(WatchCmd)
	addOutputFlag(WatchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	write := func(cfg *am.Config, gen *generation) error {
		return writeGeneration(cmd, cfg, gen)
	}
	if gen, err := generateAll(ctx, cfg); err != nil {
		reportFailure(cmd, err)
	} else if err := write(cfg, gen); err != nil {
		reportFailure(cmd, err)
	}

	return watchAndRegenerate(ctx, cmd, cfg, write)
}

// watchPaths lists the local files whose change should trigger regeneration
func watchPaths(cmd *cobra.Command, cfg *am.Config) ([]string, error) {
	info, err := os.Stat(cfg.Input.Source)
	if err != nil || info.IsDir() {
		return nil, errors.WithHint(
			errors.Newf("cannot watch %s: not a local file", cfg.Input.Source),
			"download the document first, or use 'protolua generate' for remote sources")
	}
	paths := []string{cfg.Input.Source}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = am.FindProjectConfig()
	}
	if configPath != "" {
		paths = append(paths, configPath)
	}
	return paths, nil
}

// watchAndRegenerate blocks until ctx is done, calling onGenerated after
// every successful regeneration
func watchAndRegenerate(ctx context.Context, cmd *cobra.Command, cfg *am.Config, onGenerated func(*am.Config, *generation) error) error {
	paths, err := watchPaths(cmd, cfg)
	if err != nil {
		return err
	}

	watcher, err := am.NewWatcher(paths, cfg.Watch.Debounce())
	if err != nil {
		return err
	}
	defer watcher.Stop()

	watcher.OnChange(func(path string) error {
		logger.Infow("Regenerating", logger.FieldFile, path)

		// config may have changed too
		am.Reset()
		cfg, err := loadConfig(cmd)
		if err != nil {
			reportFailure(cmd, err)
			return err
		}
		gen, err := generateAll(ctx, cfg)
		if err != nil {
			reportFailure(cmd, err)
			return err
		}
		return onGenerated(cfg, gen)
	})
	watcher.Start(ctx)

	fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", pterm.Gray("Watching"), paths)
	<-ctx.Done()
	return nil
}

func reportFailure(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", pterm.Red("✗ Generation failed:"), err)
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s %s\n", pterm.Yellow("Hint:"), hint)
	}
}
