package cli

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"platedash/internal/store"
	"platedash/internal/webtui"

	"github.com/spf13/cobra"
)

func newWebTUICmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "webtui",
		Short: "Run the dashboard TUI in your browser (PTY + WebSocket, experimental)",
		Long: strings.TrimSpace(`
Run the interactive dashboard over the web via a server-side PTY and a browser terminal emulator.

Notes:
- Experimental (no auth). Bind to localhost unless you trust the network.
- Each browser tab starts a dashboard subprocess on the server.
`),
		Example: strings.TrimSpace(`
# Serve the dashboard on localhost
platedash webtui --addr 127.0.0.1:3334

# Serve a dashboard for a different API
platedash --api http://10.0.0.5:3333 webtui --addr :3334
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			apiURL := store.ResolveAPIURL(app.APIURL, cfg)

			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:   strings.TrimSpace(addr),
				APIURL: apiURL,
				Logger: cmdLogger(cmd),
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			listenAddr := srv.Addr()
			if listenAddr == "" {
				return writeErr(cmd, errors.New("webtui: missing --addr"))
			}

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      listenAddr,
					"apiUrl":    apiURL,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{
					"open http://" + listenAddr,
				},
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "platedash webtui running at http://%s (api=%s)\n", listenAddr, apiURL)
			return http.ListenAndServe(listenAddr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3334", "Bind address (host:port or :port)")
	return cmd
}
