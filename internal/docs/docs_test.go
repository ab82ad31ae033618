package docs

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTopics(t *testing.T) {
	want := []string{"api", "config", "keys", "web"}
	if diff := cmp.Diff(want, Topics()); diff != "" {
		t.Fatalf("topics mismatch (-want +got):\n%s", diff)
	}
}

func TestGet(t *testing.T) {
	body, ok := Get("  API ")
	if !ok {
		t.Fatalf("expected api topic")
	}
	if !strings.Contains(body, "/foods") {
		t.Fatalf("expected api topic to mention /foods, got %q", body)
	}
	for _, bad := range []string{"", "nope", "../docs", "api.md"} {
		if _, ok := Get(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
