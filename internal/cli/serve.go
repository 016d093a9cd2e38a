package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"weekboard/internal/api"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local db over HTTP for --remote clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Remote != "" {
				return writeErr(cmd, errRemoteUnsupported)
			}
			if addr == "" {
				addr = app.cfg.Listen()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			b, err := openBackend(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			app.logger.WithField("addr", addr).Info("serving")
			fmt.Fprintf(cmd.ErrOrStderr(), "listening on http://%s\n", addr)
			if err := api.Serve(ctx, api.New(b.svc, app.logger), addr); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: config listenAddr or 127.0.0.1:7410)")
	return cmd
}
