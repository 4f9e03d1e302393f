package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-calendar/internal/logging"
	"github.com/smokyabdulrahman/prayer-calendar/internal/server"
)

var flagAddr string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve prayer times and holidays over HTTP",
		Long: `Run an HTTP API for the configured location:

  GET    /v1/prayers/current
  GET    /v1/prayers/next
  GET    /v1/holidays/next
  GET    /v1/holidays?limit=N
  DELETE /v1/holidays/cache
  GET    /ping

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&flagAddr, "addr", ":8080", "Address to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger = logging.NewJSON(cmd.ErrOrStderr(), FlagVerbose)
	return serve(ctx, cmd, flagAddr)
}

// serve wires the handler to the configured store and runs until ctx ends.
func serve(ctx context.Context, cmd *cobra.Command, addr string) error {
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	svc, loc, err := a.schedule(ctx)
	if err != nil {
		return err
	}
	logger.Info().Str("location", loc.label()).Str("store", a.cfg.Store).Msg("resolved location")

	h := server.NewHandler(svc, a.finder(), a.cache.Calendar(a.hijriParams()), logger)
	h.Now = nowFunc
	return server.New(addr, h, logger).Run(ctx)
}
