package cli

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"weekboard/internal/tui"
)

func runTUI(cmd *cobra.Command, app *App) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer b.Close()

	// Log lines on stderr would draw over the board.
	if app.LogFile == "" {
		app.logger.SetOutput(io.Discard)
	}
	return tui.Run(ctx, tui.Options{
		Service: b.svc,
		Engine:  app.engineConfig(),
		Year:    app.Year,
		Log:     app.logger,
	})
}
