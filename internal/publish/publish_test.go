package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"platedash/internal/model"
)

func testPlates() []model.Plate {
	return []model.Plate{
		{ID: 1, Name: "Ao molho", Image: "https://img/1.png", Price: "19.90", Description: "Macarrão **ao molho**", Available: true},
		{ID: 2, Name: "Veggie", Price: "21.90", Available: false},
	}
}

func TestRenderPlateMarkdown_IncludesPriceAndDescription(t *testing.T) {
	t.Parallel()

	md := RenderPlateMarkdown(testPlates()[0])
	for _, want := range []string{"# Ao molho", "![Ao molho](https://img/1.png)", "- Price: R$ 19.90", "- Status: available", "Macarrão **ao molho**"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
}

func TestRenderMenuMarkdown_SkipsUnavailableByDefault(t *testing.T) {
	t.Parallel()

	md := RenderMenuMarkdown(testPlates(), RenderOptions{})
	if !strings.Contains(md, "[Ao molho](plates/1.md)") {
		t.Fatalf("expected available plate link; got:\n%s", md)
	}
	if strings.Contains(md, "Veggie") {
		t.Fatalf("unavailable plate should be skipped; got:\n%s", md)
	}

	md = RenderMenuMarkdown(testPlates(), RenderOptions{IncludeUnavailable: true, Title: "Hoje"})
	if !strings.HasPrefix(md, "# Hoje\n") || !strings.Contains(md, "Veggie](plates/2.md) R$ 21.90 _(unavailable)_") {
		t.Fatalf("unexpected menu:\n%s", md)
	}

	md = RenderMenuMarkdown(nil, RenderOptions{})
	if !strings.Contains(md, "Nothing on the menu") {
		t.Fatalf("expected empty-menu note; got:\n%s", md)
	}
}

func TestWriteMenu_WritesIndexAndPlates(t *testing.T) {
	t.Parallel()

	to := t.TempDir()
	res, err := WriteMenu(testPlates(), to, WriteOptions{})
	if err != nil {
		t.Fatalf("WriteMenu: %v", err)
	}
	if len(res.Written) != 2 {
		t.Fatalf("expected index + 1 plate; got %v", res.Written)
	}
	if _, err := os.Stat(filepath.Join(to, "index.md")); err != nil {
		t.Fatalf("stat index.md: %v", err)
	}
	if _, err := os.Stat(filepath.Join(to, "plates", "1.md")); err != nil {
		t.Fatalf("stat plates/1.md: %v", err)
	}
	if _, err := os.Stat(filepath.Join(to, "plates", "2.md")); !os.IsNotExist(err) {
		t.Fatalf("unavailable plate should not be written (err=%v)", err)
	}

	if _, err := WriteMenu(testPlates(), to, WriteOptions{}); err == nil || !strings.Contains(err.Error(), "--overwrite") {
		t.Fatalf("expected overwrite error, got %v", err)
	}
	if _, err := WriteMenu(testPlates(), to, WriteOptions{Overwrite: true, IncludeUnavailable: true}); err != nil {
		t.Fatalf("WriteMenu overwrite: %v", err)
	}
	if _, err := WriteMenu(testPlates(), "  ", WriteOptions{}); err == nil {
		t.Fatalf("expected missing --to error")
	}
}
