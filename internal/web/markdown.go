package web

import (
	"bytes"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// excerptRunes caps the card preview of a description.
const excerptRunes = 140

// Raw HTML in descriptions is escaped (no html.WithUnsafe).
var descriptionMarkdown = goldmark.New(
	goldmark.WithExtensions(
		extension.Strikethrough,
		extension.Linkify,
		extension.Table,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// descriptionHTML renders a full plate description for the detail page.
func descriptionHTML(desc string) template.HTML {
	return convertDescription(strings.TrimSpace(desc))
}

// descriptionExcerptHTML renders the first paragraph of a description, cut at
// excerptRunes, for the plate cards.
func descriptionExcerptHTML(desc string) template.HTML {
	desc = strings.TrimSpace(desc)
	if first, _, ok := strings.Cut(desc, "\n\n"); ok {
		desc = strings.TrimSpace(first)
	}
	if utf8.RuneCountInString(desc) > excerptRunes {
		r := []rune(desc)
		desc = strings.TrimRight(string(r[:excerptRunes]), " ") + "…"
	}
	return convertDescription(desc)
}

func convertDescription(src string) template.HTML {
	if src == "" {
		return template.HTML("")
	}
	var b bytes.Buffer
	if err := descriptionMarkdown.Convert([]byte(src), &b); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
	}
	return template.HTML(b.String())
}
