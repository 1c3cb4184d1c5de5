package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/courtside/internal/metrics"
	"github.com/mesh-intelligence/courtside/internal/server"
	"github.com/mesh-intelligence/courtside/pkg/courtside"
	"github.com/mesh-intelligence/courtside/pkg/types"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the operator API and WebSocket channel",
		Long: "Serve the scoring session over HTTP on listen_addr. The latest match\n" +
			"(or --match) is resumed if one exists. Prometheus metrics are served\n" +
			"on /metrics.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			env, err := openEnv(cmd, flags, metrics.NewMetrics(registry))
			if err != nil {
				return err
			}
			defer env.close()

			if _, err := env.resume(ctx, flags); err != nil && !errors.Is(err, types.ErrNoMatch) {
				return err
			}

			config := server.DefaultConfig()
			config.Addr = env.settings.ListenAddr
			if addr != "" {
				config.Addr = addr
			}
			srv := server.NewServer(env.scorer, registry, config, courtside.Version, env.log)
			if err := srv.Run(ctx); err != nil {
				return systemError("serve", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides listen_addr)")
	return cmd
}
