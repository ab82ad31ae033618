package webtui

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestServer(t *testing.T, cfg ServerConfig) *httptest.Server {
	t.Helper()
	s, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestNewServerRequiresAddr(t *testing.T) {
	if _, err := NewServer(ServerConfig{Addr: "  "}); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestRootRedirectsToTerminal(t *testing.T) {
	ts := newTestServer(t, ServerConfig{Addr: "127.0.0.1:0"})
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}

	resp, err := client.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != "/terminal" {
		t.Fatalf("expected redirect to /terminal, got %q", got)
	}
}

func TestTerminalPageShowsAPI(t *testing.T) {
	ts := newTestServer(t, ServerConfig{Addr: "127.0.0.1:0", APIURL: "http://plates.test:3333"})

	resp, err := http.Get(ts.URL + "/terminal")
	if err != nil {
		t.Fatalf("GET /terminal: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, b)
	}
	if !strings.Contains(string(b), "http://plates.test:3333") {
		t.Fatalf("expected api url in page; got:\n%s", b)
	}
	if !strings.Contains(string(b), "/static/app.js") {
		t.Fatalf("expected app.js script tag; got:\n%s", b)
	}
}

func TestStaticAssetsServed(t *testing.T) {
	ts := newTestServer(t, ServerConfig{Addr: "127.0.0.1:0"})

	for path, ctype := range map[string]string{
		"/static/app.css": "text/css; charset=utf-8",
		"/static/app.js":  "text/javascript; charset=utf-8",
	} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, resp.StatusCode)
		}
		if got := resp.Header.Get("Content-Type"); got != ctype {
			t.Fatalf("GET %s: content-type %q, want %q", path, got, ctype)
		}
	}
}

func TestSessionArgs(t *testing.T) {
	s, err := NewServer(ServerConfig{Addr: ":3334", APIURL: " http://localhost:3333 "})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if diff := cmp.Diff([]string{"--api", "http://localhost:3333"}, s.sessionArgs()); diff != "" {
		t.Fatalf("sessionArgs mismatch (-want +got):\n%s", diff)
	}

	s2, _ := NewServer(ServerConfig{Addr: ":3334"})
	if got := s2.sessionArgs(); len(got) != 0 {
		t.Fatalf("expected no args without api url, got %v", got)
	}
}

func TestParseResize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		ok   bool
		cols uint16
		rows uint16
	}{
		{name: "valid", in: `{"type":"resize","cols":100,"rows":30}`, ok: true, cols: 100, rows: 30},
		{name: "case-insensitive type", in: `{"type":" Resize ","cols":80,"rows":24}`, ok: true, cols: 80, rows: 24},
		{name: "zero size", in: `{"type":"resize","cols":0,"rows":30}`},
		{name: "other type", in: `{"type":"ping","cols":100,"rows":30}`},
		{name: "too large", in: `{"type":"resize","cols":70000,"rows":30}`},
		{name: "garbage", in: `{not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ws, ok := parseResize([]byte(tc.in))
			if ok != tc.ok {
				t.Fatalf("ok=%v, want %v", ok, tc.ok)
			}
			if ok && (ws.Cols != tc.cols || ws.Rows != tc.rows) {
				t.Fatalf("got %dx%d, want %dx%d", ws.Cols, ws.Rows, tc.cols, tc.rows)
			}
		})
	}
}

func TestSameOrigin(t *testing.T) {
	cases := []struct {
		origin string
		host   string
		want   bool
	}{
		{origin: "", host: "127.0.0.1:3334", want: true},
		{origin: "http://127.0.0.1:3334", host: "127.0.0.1:3334", want: true},
		{origin: "http://evil.example", host: "127.0.0.1:3334", want: false},
		{origin: "http://127.0.0.1:3334.evil.example", host: "127.0.0.1:3334", want: false},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		r.Host = tc.host
		if tc.origin != "" {
			r.Header.Set("Origin", tc.origin)
		}
		if got := sameOrigin(r); got != tc.want {
			t.Fatalf("sameOrigin(origin=%q host=%q)=%v, want %v", tc.origin, tc.host, got, tc.want)
		}
	}
}
