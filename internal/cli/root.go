package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	log "github.com/sirupsen/logrus"

	"weekboard/internal/calendar"
	"weekboard/internal/format"
	"weekboard/internal/store"
)

type App struct {
	DataDir    string
	Remote     string
	RedisURL   string
	Convention string
	Format     string
	PrettyJSON bool
	LogLevel   string
	LogFile    string
	Year       int

	cfg       *store.Config
	conv      calendar.Convention
	logger    *log.Logger
	logCloser io.Closer
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "weekboard",
		Short:        "Week-by-week task board (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the board for the current year
  weekboard

  # Put a task on week 10 of 2024
  weekboard tasks move task-abc123 --year 2024 --week 10

  # Which week is a date in?
  weekboard week of 2024-12-30
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive board.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.logCloser != nil {
			return app.logCloser.Close()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.DataDir, "data-dir", envOr("WEEKBOARD_DATA_DIR", ""), "Directory holding the sqlite db (default: ~/.weekboard/data)")
	cmd.PersistentFlags().StringVar(&app.Remote, "remote", envOr("WEEKBOARD_REMOTE", ""), "Base URL of a weekboard server to use instead of the local db")
	cmd.PersistentFlags().StringVar(&app.RedisURL, "redis", envOr("WEEKBOARD_REDIS", ""), "redis:// URL for caching year fetches of the local db")
	cmd.PersistentFlags().StringVar(&app.Convention, "convention", envOr("WEEKBOARD_CONVENTION", ""), "Week numbering (iso|sunday)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("WEEKBOARD_FORMAT", "table"), "Output format (table|json)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("WEEKBOARD_LOG_LEVEL", ""), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", envOr("WEEKBOARD_LOG_FILE", ""), "Write logs to this file instead of stderr")

	cmd.Flags().IntVar(&app.Year, "year", 0, "Board year to open (default: current)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newBoardCmd(app))
	cmd.AddCommand(newWeekCmd(app))
	cmd.AddCommand(newServeCmd(app))

	return cmd
}

// setup merges the config file under the flags and builds the logger.
func (app *App) setup(cmd *cobra.Command) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, fmt.Errorf("load config: %w", err))
	}
	app.cfg = cfg

	if app.DataDir == "" {
		d, err := cfg.ResolveDataDir()
		if err != nil {
			return writeErr(cmd, err)
		}
		app.DataDir = d
	}
	if app.Remote == "" {
		app.Remote = cfg.RemoteURL
	}
	if app.RedisURL == "" {
		app.RedisURL = cfg.RedisURL
	}
	app.conv = cfg.Convention
	if strings.TrimSpace(app.Convention) != "" {
		c, err := calendar.ParseConvention(app.Convention)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.conv = c
	}
	if app.LogLevel == "" {
		app.LogLevel = cfg.LogLevel
	}
	if app.LogFile == "" {
		app.LogFile = cfg.LogFile
	}

	logger, closer, err := newLogger(app.LogLevel, app.LogFile, cmd.ErrOrStderr())
	if err != nil {
		return writeErr(cmd, err)
	}
	app.logger = logger
	app.logCloser = closer
	return nil
}

// newLogger builds a logrus logger. With no file, logs go to errOut.
func newLogger(level, file string, errOut io.Writer) (*log.Logger, io.Closer, error) {
	logger := log.New()
	logger.SetOutput(errOut)
	logger.SetLevel(log.WarnLevel)
	if strings.TrimSpace(level) != "" {
		lvl, err := log.ParseLevel(level)
		if err != nil {
			return nil, nil, err
		}
		logger.SetLevel(lvl)
	}
	if strings.TrimSpace(file) == "" {
		return logger, nil, nil
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	logger.SetFormatter(&log.JSONFormatter{})
	return logger, f, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut writes v as a table when it has one and the table format is selected,
// otherwise as a {"data": v} JSON envelope.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	f := app.Format
	if _, ok := v.(format.Tabular); !ok && f == "table" {
		f = "json"
	}
	if f == "json" {
		v = map[string]any{"data": v}
	}
	return format.Write(cmd.OutOrStdout(), v, f, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
