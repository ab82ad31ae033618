package cli

import (
	"context"
	"errors"
	"strconv"
	"time"

	"platedash/internal/remote"
	"platedash/internal/store"

	"github.com/spf13/cobra"
)

var errDoctorIssuesFound = errors.New("doctor found issues")

type doctorCheck struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

type doctorReport struct {
	APIURL string        `json:"apiUrl"`
	Checks []doctorCheck `json:"checks"`
}

func (r doctorReport) HasErrors() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return true
		}
	}
	return false
}

func (r doctorReport) TableHeaders() []string { return []string{"CHECK", "OK", "DETAIL"} }

func (r doctorReport) TableRows() [][]string {
	out := make([][]string, 0, len(r.Checks))
	for _, c := range r.Checks {
		ok := "yes"
		if !c.OK {
			ok = "no"
		}
		out = append(out, []string{c.Name, ok, c.Detail})
	}
	return out
}

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check config, API reachability and the local journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			report := runDoctor(cmd.Context(), app)

			if err := writeOut(cmd, app, map[string]any{
				"data": report,
				"meta": map[string]any{"hasErrors": report.HasErrors()},
			}); err != nil {
				return err
			}
			if fail && report.HasErrors() {
				return errDoctorIssuesFound
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fail, "fail", false, "Exit non-zero if any check fails")
	return cmd
}

func runDoctor(ctx context.Context, app *App) doctorReport {
	var r doctorReport
	add := func(name string, err error, detail string) {
		c := doctorCheck{Name: name, OK: err == nil, Detail: detail}
		if err != nil {
			c.Detail = err.Error()
		}
		r.Checks = append(r.Checks, c)
	}

	cfg, err := store.LoadConfig()
	path, _ := store.ConfigPath()
	add("config", err, path)
	r.APIURL = store.ResolveAPIURL(app.APIURL, cfg)

	client, err := remote.NewClient(r.APIURL, remote.WithTimeout(5*time.Second))
	if err != nil {
		add("api", err, "")
	} else {
		plates, err := client.ListPlates(ctx)
		detail := ""
		if err == nil {
			detail = plural(len(plates), "plate")
		}
		add("api", err, detail)
	}

	st, err := store.Open()
	if err == nil {
		var j *store.Journal
		j, err = st.OpenJournal(ctx, r.APIURL)
		if err == nil {
			_ = j.Close()
		}
	}
	add("journal", err, st.Dir)
	return r
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
