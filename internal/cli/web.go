package cli

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"platedash/internal/web"

	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var (
		addr     string
		readOnly bool
	)

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve a browser admin for the plates (live updates, no auth)",
		Long: strings.TrimSpace(`
Serve the plate list as a web page. Cards are kept in sync across open tabs:
every change made through this server re-renders the list over server-sent events.

Notes:
- No auth. Bind to localhost unless you trust the network.
- --read-only rejects every mutation with 403.
`),
		Example: strings.TrimSpace(`
# Serve the admin on localhost
platedash web

# Share a read-only board on the LAN
platedash web --addr :3335 --read-only
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cmdLogger(cmd)
			sess, err := openSession(cmd.Context(), app, logger)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			// A failed first fetch is retried by the home page.
			if err := sess.ctrl.Load(cmd.Context()); err != nil {
				logger.Printf("initial load failed: %v", err)
			}

			srv, err := web.NewServer(web.ServerConfig{
				Addr:     strings.TrimSpace(addr),
				APIURL:   sess.apiURL,
				ReadOnly: readOnly,
				Logger:   logger,
			}, sess.ctrl)
			if err != nil {
				return writeErr(cmd, err)
			}

			listenAddr := srv.Addr()
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      listenAddr,
					"apiUrl":    sess.apiURL,
					"readOnly":  readOnly,
					"plates":    len(sess.ctrl.Plates()),
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{
					"open http://" + listenAddr,
				},
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "platedash web running at http://%s (api=%s)\n", listenAddr, sess.apiURL)
			return http.ListenAndServe(listenAddr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3335", "Bind address (host:port or :port)")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Reject create/edit/availability/delete requests")
	return cmd
}
