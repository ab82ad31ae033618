package cli

import (
	"strconv"
	"strings"

	"platedash/internal/model"
	"platedash/internal/publish"

	"github.com/spf13/cobra"
)

// plateRows renders plates with --format table.
type plateRows []model.Plate

func (r plateRows) TableHeaders() []string {
	return []string{"ID", "NAME", "PRICE", "AVAILABLE", "IMAGE"}
}

func (r plateRows) TableRows() [][]string {
	out := make([][]string, 0, len(r))
	for _, p := range r {
		avail := "no"
		if p.Available {
			avail = "yes"
		}
		out = append(out, []string{strconv.Itoa(p.ID), p.Title(), p.Price, avail, p.Image})
	}
	return out
}

// plateRow is a single plate: a JSON object, or a one-row table.
type plateRow model.Plate

func (r plateRow) TableHeaders() []string { return plateRows{}.TableHeaders() }

func (r plateRow) TableRows() [][]string { return plateRows{model.Plate(r)}.TableRows() }

func newPlatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "plates",
		Aliases: []string{"foods"},
		Short:   "List and manage food plates",
	}

	cmd.AddCommand(newPlatesListCmd(app))
	cmd.AddCommand(newPlatesShowCmd(app))
	cmd.AddCommand(newPlatesAddCmd(app))
	cmd.AddCommand(newPlatesEditCmd(app))
	cmd.AddCommand(newPlatesAvailableCmd(app))
	cmd.AddCommand(newPlatesDeleteCmd(app))
	cmd.AddCommand(newPlatesPublishCmd(app))
	return cmd
}

func parseIDArg(arg string) (int, error) {
	id, ok := model.ParseID(arg)
	if !ok {
		return 0, invalidIDError{arg: arg}
	}
	return id, nil
}

func newPlatesListCmd(app *App) *cobra.Command {
	var onlyAvailable bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plates in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			plates := sess.ctrl.Plates()
			if onlyAvailable {
				out := plates[:0]
				for _, p := range plates {
					if p.Available {
						out = append(out, p)
					}
				}
				plates = out
			}
			return writeOut(cmd, app, map[string]any{"data": plateRows(plates)})
		},
	}
	cmd.Flags().BoolVar(&onlyAvailable, "available", false, "Only list available plates")
	return cmd
}

func newPlatesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "show <plate-id>",
		Aliases: []string{"get"},
		Short:   "Show one plate",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := loadSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			p, err := sess.ctrl.MustPlate(id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": plateRow(p)})
		},
	}
}

func newPlatesAddCmd(app *App) *cobra.Command {
	var draft model.PlateDraft

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a plate (new plates always start unavailable)",
		Example: strings.TrimSpace(`
platedash plates add --name "Ao molho" --price 19.90 \
  --image https://example.com/ao-molho.png \
  --description "Macarrão ao molho branco, fughi e cheiro verde das montanhas."
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			before := len(sess.ctrl.Plates())
			if !sess.ctrl.AddPlate(cmd.Context(), draft) {
				return writeErr(cmd, notAppliedError{op: "create"})
			}
			plates := sess.ctrl.Plates()
			if len(plates) <= before {
				return writeErr(cmd, notAppliedError{op: "create"})
			}
			return writeOut(cmd, app, map[string]any{"data": plateRow(plates[len(plates)-1])})
		},
	}
	cmd.Flags().StringVar(&draft.Name, "name", "", "Plate name")
	cmd.Flags().StringVar(&draft.Image, "image", "", "Image URL")
	cmd.Flags().StringVar(&draft.Price, "price", "", "Price (decimal as text, e.g. 19.90)")
	cmd.Flags().StringVar(&draft.Description, "description", "", "Description (markdown)")
	return cmd
}

func newPlatesEditCmd(app *App) *cobra.Command {
	var name, image, price, description string

	cmd := &cobra.Command{
		Use:   "edit <plate-id>",
		Short: "Replace a plate's fields (unset flags keep the current value)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := loadSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			cur, err := sess.ctrl.MustPlate(id)
			if err != nil {
				return writeErr(cmd, err)
			}
			draft := cur.Draft()
			if cmd.Flags().Changed("name") {
				draft.Name = name
			}
			if cmd.Flags().Changed("image") {
				draft.Image = image
			}
			if cmd.Flags().Changed("price") {
				draft.Price = price
			}
			if cmd.Flags().Changed("description") {
				draft.Description = description
			}

			sess.ctrl.EditPlate(cur)
			applied, err := sess.ctrl.UpdatePlate(cmd.Context(), draft)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !applied {
				return writeErr(cmd, notAppliedError{op: "update"})
			}
			updated, err := sess.ctrl.MustPlate(id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": plateRow(updated)})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Plate name")
	cmd.Flags().StringVar(&image, "image", "", "Image URL")
	cmd.Flags().StringVar(&price, "price", "", "Price (decimal as text)")
	cmd.Flags().StringVar(&description, "description", "", "Description (markdown)")
	return cmd
}

func newPlatesAvailableCmd(app *App) *cobra.Command {
	var set bool

	cmd := &cobra.Command{
		Use:   "available <plate-id>",
		Short: "Set plate availability (without --set, flips the current value)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := loadSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			cur, err := sess.ctrl.MustPlate(id)
			if err != nil {
				return writeErr(cmd, err)
			}
			want := !cur.Available
			if cmd.Flags().Changed("set") {
				want = set
			}
			if err := sess.ctrl.ToggleAvailability(cmd.Context(), id, want); err != nil {
				return writeErr(cmd, err)
			}
			updated, err := sess.ctrl.MustPlate(id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": plateRow(updated)})
		},
	}
	cmd.Flags().BoolVar(&set, "set", true, "Availability to set (true|false)")
	return cmd
}

func newPlatesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <plate-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a plate",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := loadSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			if err := sess.ctrl.DeletePlate(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "deleted": true}})
		},
	}
}

func newPlatesPublishCmd(app *App) *cobra.Command {
	var (
		to  string
		opt publish.WriteOptions
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Export the menu as markdown files (index.md + plates/<id>.md)",
		Example: strings.TrimSpace(`
platedash plates publish --to ./menu
platedash plates publish --to ./menu --include-unavailable --overwrite
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			res, err := publish.WriteMenu(sess.ctrl.Plates(), to, opt)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output directory")
	cmd.Flags().BoolVar(&opt.IncludeUnavailable, "include-unavailable", false, "Also export unavailable plates")
	cmd.Flags().BoolVar(&opt.Overwrite, "overwrite", false, "Overwrite existing files")
	cmd.Flags().StringVar(&opt.Title, "title", "", "Menu title (default \"Menu\")")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
