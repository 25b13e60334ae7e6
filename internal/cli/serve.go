package cli

import (
	"github.com/spf13/cobra"

	"github.com/hallplan/hallplan/pkg/server"
	"github.com/hallplan/hallplan/pkg/venue"
)

// newServeCmd creates the serve command, which exposes one document as
// a live editing session over HTTP.
func newServeCmd(configFile *string) *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve <document>",
		Short: "Serve a venue document over HTTP",
		Long: `Serve exposes a live editing session over HTTP: a JSON API for
section edits and pointer gestures, plus the rendered floor plan at
/document.svg. The session loads the named document at startup and
persists on POST /api/save.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Serve.Addr
			}
			if addr == "" {
				addr = ":8080"
			}

			docs, err := newDocumentStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer docs.Close(ctx)

			c, err := newCache(cfg, noCache)
			if err != nil {
				return err
			}
			defer c.Close()

			srv, err := server.New(server.Config{
				Addr:     addr,
				Document: args[0],
				Canvas:   venue.Canvas{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height},
			}, docs, c, logger)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}
