// Package publish exports the plate collection as a static markdown menu.
package publish

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"platedash/internal/model"

	"github.com/natefinch/atomic"
)

type WriteOptions struct {
	IncludeUnavailable bool
	Overwrite          bool
	Title              string
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteMenu writes <toDir>/index.md and one <toDir>/plates/<id>.md per exported plate.
func WriteMenu(plates []model.Plate, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	platesDir := filepath.Join(toDir, "plates")
	if err := os.MkdirAll(platesDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	indexMD := RenderMenuMarkdown(plates, RenderOptions{IncludeUnavailable: opt.IncludeUnavailable, Title: opt.Title})
	indexPath := filepath.Join(toDir, "index.md")
	if err := writeFile(indexPath, []byte(indexMD), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	// Stop on first error.
	written := []string{indexPath}
	for _, p := range plates {
		if !p.Available && !opt.IncludeUnavailable {
			continue
		}
		path := filepath.Join(toDir, filepath.FromSlash(platePagePath(p.ID)))
		if err := writeFile(path, []byte(RenderPlateMarkdown(p)), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, path)
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return atomic.WriteFile(path, bytes.NewReader(b))
}
