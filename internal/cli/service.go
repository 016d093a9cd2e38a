package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"weekboard/internal/board"
	"weekboard/internal/calendar"
	"weekboard/internal/remote"
	"weekboard/internal/store"
)

// backend is the data service a command talks to. local is nil when --remote is set.
type backend struct {
	svc   board.Service
	local *store.Store
	cache *store.Cache
}

func (b *backend) Close() error {
	if b.local != nil {
		return b.local.Close()
	}
	return nil
}

// invalidate drops cached years after a write that bypassed the service.
func (b *backend) invalidate(ctx context.Context) {
	if b.cache != nil {
		b.cache.Invalidate(ctx)
	}
}

func openBackend(ctx context.Context, app *App) (*backend, error) {
	if app.Remote != "" {
		return &backend{svc: remote.New(app.Remote)}, nil
	}
	st, err := store.Open(ctx, app.DataDir, app.conv)
	if err != nil {
		return nil, err
	}
	b := &backend{svc: st, local: st}
	if app.RedisURL != "" {
		rc, err := store.NewRedisClient(app.RedisURL)
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		b.cache = store.NewCache(st, rc, app.cfg.CacheTTL())
		b.svc = b.cache
	}
	return b, nil
}

func (app *App) engineConfig() board.Config {
	return board.Config{
		Convention:   app.conv,
		TextDebounce: app.cfg.TextDebounce(),
	}
}

// loadBoard starts an engine on year and waits for the initial load.
func loadBoard(ctx context.Context, app *App, svc board.Service, year int) (*board.Engine, *board.Runner, error) {
	e := board.NewEngine(app.engineConfig(), year)
	r := &board.Runner{Engine: e, Service: svc, Log: app.logger}
	if err := r.Run(ctx, e.Start()); err != nil {
		return nil, nil, err
	}
	return e, r, nil
}

// boardYear returns year, or the week-year today falls in.
func (app *App) boardYear(year int) int {
	if year > 0 {
		return year
	}
	return calendar.WeekYear(calendar.Today(), app.conv)
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}
