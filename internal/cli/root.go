package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"platedash/internal/dashboard"
	"platedash/internal/format"
	"platedash/internal/remote"
	"platedash/internal/store"
	"platedash/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	APIURL     string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "platedash",
		Short:        "Food plate admin dashboard (TUI + CLI) for a plates REST API",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  platedash

  # Point at a different API
  platedash --api http://localhost:3333

  # Scriptable commands
  platedash plates list --format table
  platedash plates available 3 --set=false

  # Direct plate lookup (shortcut for: platedash plates show <id>)
  platedash 3
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive dashboard.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api", "", "Plates API root URL (default: $PLATEDASH_API, config apiUrl, or "+remote.DefaultBaseURL+")")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("PLATEDASH_FORMAT", "json"), "Output format (json|edn|table)")

	cmd.AddCommand(newPlatesCmd(app))
	cmd.AddCommand(newJournalCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newWebTUICmd(app))

	return cmd
}

// session bundles what a command needs to talk to the API.
type session struct {
	cfg     *store.Config
	apiURL  string
	client  *remote.Client
	journal *store.Journal
	ctrl    *dashboard.Controller
}

func (s *session) Close() {
	if s != nil && s.journal != nil {
		_ = s.journal.Close()
	}
}

// openSession builds the controller for app. The journal is optional: if it cannot
// be opened the failure is logged and commands keep working without it.
func openSession(ctx context.Context, app *App, logger *log.Logger) (*session, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	apiURL := store.ResolveAPIURL(app.APIURL, cfg)
	client, err := remote.NewClient(apiURL, remote.WithTimeout(cfg.Timeout()))
	if err != nil {
		return nil, err
	}

	sess := &session{cfg: cfg, apiURL: client.BaseURL(), client: client}
	opts := []dashboard.Option{dashboard.WithLogger(logger)}
	if st, err := store.Open(); err == nil {
		if j, err := st.OpenJournal(ctx, sess.apiURL); err == nil {
			sess.journal = j
			opts = append(opts, dashboard.WithJournal(j))
		} else {
			logger.Printf("journal unavailable: %v", err)
		}
	}
	sess.ctrl = dashboard.New(client, opts...)
	return sess, nil
}

// loadSession is openSession followed by the initial fetch.
func loadSession(cmd *cobra.Command, app *App) (*session, error) {
	sess, err := openSession(cmd.Context(), app, cmdLogger(cmd))
	if err != nil {
		return nil, err
	}
	if err := sess.ctrl.Load(cmd.Context()); err != nil {
		sess.Close()
		return nil, err
	}
	return sess, nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	st, err := store.Open()
	if err != nil {
		return writeErr(cmd, err)
	}
	if err := st.Ensure(); err != nil {
		return writeErr(cmd, err)
	}
	// The alt screen owns the terminal, so diagnostics go to a file.
	f, err := os.OpenFile(st.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer f.Close()
	logger := log.New(f, "[platedash] ", log.LstdFlags)

	sess, err := openSession(cmd.Context(), app, logger)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer sess.Close()

	return tui.Run(tui.Options{
		Controller: sess.ctrl,
		Store:      st,
		APIURL:     sess.apiURL,
		Config:     sess.cfg,
		Logger:     logger,
	})
}

func cmdLogger(cmd *cobra.Command) *log.Logger {
	return log.New(cmd.ErrOrStderr(), "[platedash] ", log.LstdFlags)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
