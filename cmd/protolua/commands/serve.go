package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/protolua/am"
	"github.com/teranos/protolua/server"
)

// ServeCmd serves generated files over HTTP
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve generated files over HTTP",
	Long: `Generate in memory and serve the files over HTTP.

Routes:
  GET /healthz                      - liveness
  GET /api/sections                 - artifact listing with content hashes
  GET /api/link?member=X&fragment=Y - documentation URL for a member
  GET /{file}                       - one generated file (e.g. /concepts.lua)

With --watch, the served files are swapped whenever the document changes.

Examples:
  protolua serve
  protolua serve --addr :8080 --watch`,
	RunE: runServe,
}

func init() {
	addInputFlag(ServeCmd)
	ServeCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	ServeCmd.Flags().Bool("watch", false, "Regenerate when the input document changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen, err := generateAll(ctx, cfg)
	if err != nil {
		return err
	}

	srv := server.New()
	srv.Update(gen.snapshot())

	watch, _ := cmd.Flags().GetBool("watch")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, cfg.Server.Addr)
	})
	if watch {
		g.Go(func() error {
			return watchAndRegenerate(gctx, cmd, cfg, func(_ *am.Config, gen *generation) error {
				srv.Update(gen.snapshot())
				return nil
			})
		})
	}
	return g.Wait()
}
