package cli

import (
	"github.com/spf13/cobra"

	"weekboard/internal/store"
)

func newInitCmd(app *App) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the local db (and optionally save the current flags as config)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Remote != "" {
				return writeErr(cmd, errRemoteUnsupported)
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			st, err := store.Open(ctx, app.DataDir, app.conv)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			cfgPath, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			if save {
				cfg := *app.cfg
				cfg.DataDir = app.DataDir
				cfg.Convention = app.conv
				cfg.RedisURL = app.RedisURL
				if err := store.SaveConfig(&cfg); err != nil {
					return writeErr(cmd, err)
				}
			}

			return writeOut(cmd, app, map[string]any{
				"dataDir":    app.DataDir,
				"sqlitePath": st.Path(),
				"configPath": cfgPath,
				"convention": app.conv.String(),
				"saved":      save,
			})
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Write data dir, convention and redis URL to the config file")
	return cmd
}
