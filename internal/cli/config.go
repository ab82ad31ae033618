package cli

import (
	"platedash/internal/remote"
	"platedash/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the global platedash config",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show config and the API root that would be used",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"path":           path,
					"config":         cfg,
					"resolvedApiUrl": store.ResolveAPIURL(app.APIURL, cfg),
				},
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-api <url>",
		Short: "Persist the plates API root URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := remote.NewClient(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg.APIURL = c.BaseURL()
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cfg})
		},
	})

	return cmd
}
