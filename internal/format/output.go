package format

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Tabular is implemented by command results that can render as a table.
type Tabular interface {
	TableHeaders() []string
	TableRows() [][]string
}

var errNotTabular = errors.New("table format is not supported for this output")

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - edn
// - table (only for Tabular values, or {"data": Tabular})
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "edn":
		return WriteEDN(w, v, pretty)
	case "table":
		return WriteTable(w, v)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteTable renders a Tabular value with a plain border (no colors, so it pipes cleanly).
func WriteTable(w io.Writer, v any) error {
	if env, ok := v.(map[string]any); ok {
		v = env["data"]
	}
	tv, ok := v.(Tabular)
	if !ok {
		return errNotTabular
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(tv.TableHeaders()...).
		Rows(tv.TableRows()...)
	_, err := fmt.Fprintln(w, t.String())
	return err
}
