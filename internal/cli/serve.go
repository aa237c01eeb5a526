package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/stoq/internal/demoapi"
)

type serveOptions struct {
	addr    string
	noSeed  bool
	latency time.Duration
	origins []string
}

func newServeCmd(o *rootOptions) *cobra.Command {
	s := serveOptions{addr: ":8000"}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory products API for local use",
		Long: `Run an in-memory products API for local use.

The catalog starts with 30 sample products unless --no-seed is given and
is lost on exit. --latency adds a random delay to every API response, which
makes out-of-order responses easy to reproduce in the browser.

Examples:
  stoq serve --addr 127.0.0.1:8000 --latency 800ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			log := o.consoleLogger(cmd, cfg)

			store := demoapi.NewStore()
			if !s.noSeed {
				store.Load(demoapi.Seed())
			}
			log.Info().Int("products", store.Len()).Dur("latency", s.latency).Msg("catalog ready")

			handler := demoapi.NewRouter(store, demoapi.Options{
				Logger:         log.With().Str("component", "demoapi").Logger(),
				Latency:        s.latency,
				AllowedOrigins: s.origins,
			})
			return demoapi.Serve(cmd.Context(), s.addr, handler, log)
		},
	}
	cmd.Flags().StringVar(&s.addr, "addr", s.addr, "Listen address")
	cmd.Flags().BoolVar(&s.noSeed, "no-seed", false, "Start with an empty catalog")
	cmd.Flags().DurationVar(&s.latency, "latency", 0, "Maximum random delay added to each response")
	cmd.Flags().StringSliceVar(&s.origins, "cors-origin", nil, "Allowed CORS origins (default *)")
	return cmd
}
