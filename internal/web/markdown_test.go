package web

import (
	"strings"
	"testing"
)

func TestDescriptionHTML(t *testing.T) {
	got := string(descriptionHTML("Macarrão **ao molho**\n\nCom <b>queijo</b>"))
	for _, want := range []string{"<strong>ao molho</strong>", "queijo"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}
	if strings.Contains(got, "<b>") {
		t.Fatalf("raw HTML should not pass through: %q", got)
	}
	if got := descriptionHTML("   "); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestDescriptionExcerptHTML(t *testing.T) {
	got := string(descriptionExcerptHTML("Primeiro parágrafo.\n\nSegundo parágrafo."))
	if !strings.Contains(got, "Primeiro") || strings.Contains(got, "Segundo") {
		t.Fatalf("expected only the first paragraph, got %q", got)
	}

	long := strings.Repeat("arroz ", 60)
	got = string(descriptionExcerptHTML(long))
	if !strings.Contains(got, "…") || strings.Count(got, "arroz") > excerptRunes/6+1 {
		t.Fatalf("expected a cut excerpt, got %q", got)
	}
}
