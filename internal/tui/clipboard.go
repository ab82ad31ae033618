package tui

import (
	"encoding/json"
	"strings"

	"platedash/internal/model"

	"github.com/atotto/clipboard"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

func copyToClipboard(s string) error {
	return writeClipboard(strings.ReplaceAll(s, "\r\n", "\n"))
}

func plateJSON(p model.Plate) string {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}
