package tui

import (
	"os"
	"strings"
	"sync"

	"platedash/internal/store"
)

// Some terminals/fonts render Unicode affordances poorly; the ASCII set is the fallback.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference picks the glyph set: $PLATEDASH_TUI_GLYPHS, then config tui.glyphs.
func applyGlyphPreference(cfg *store.Config) {
	v := strings.TrimSpace(os.Getenv("PLATEDASH_TUI_GLYPHS"))
	if v == "" && cfg != nil && cfg.TUI != nil {
		v = cfg.TUI.Glyphs
	}
	if gs, ok := parseGlyphSet(v); ok {
		setGlyphs(gs)
	}
}

func parseGlyphSet(v string) (glyphSet, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "unicode", "utf8":
		return glyphSetUnicode, true
	case "ascii":
		return glyphSetASCII, true
	default:
		return glyphSetUnicode, false
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return currentGlyphs
}

func glyphAvailable(available bool) string {
	if glyphs() == glyphSetASCII {
		if available {
			return "[x]"
		}
		return "[ ]"
	}
	if available {
		return "●"
	}
	return "○"
}

func glyphBullet() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "•"
}

func glyphHRule() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}
