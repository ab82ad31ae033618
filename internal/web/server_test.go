package web

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"platedash/internal/dashboard"
	"platedash/internal/model"
	"platedash/internal/remote"
	"platedash/internal/remote/remotetest"
)

func seedPlates() []model.Plate {
	return []model.Plate{
		{ID: 1, Name: "Ao molho", Image: "https://img/1.png", Price: "19.90", Description: "Macarrão **ao molho**", Available: true},
		{ID: 2, Name: "Veggie", Image: "https://img/2.png", Price: "21.90", Description: "Legumes", Available: false},
	}
}

type fixture struct {
	api  *remotetest.Server
	ctrl *dashboard.Controller
	srv  *Server
	ts   *httptest.Server
}

func newFixture(t *testing.T, readOnly bool) *fixture {
	t.Helper()
	api := remotetest.New(t, seedPlates()...)
	client, err := remote.NewClient(api.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctrl := dashboard.New(client)
	srv, err := NewServer(ServerConfig{Addr: "127.0.0.1:0", APIURL: client.BaseURL(), ReadOnly: readOnly}, ctrl)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &fixture{api: api, ctrl: ctrl, srv: srv, ts: ts}
}

// noRedirect returns the 303 itself so tests can inspect Location.
var noRedirect = &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}

func get(t *testing.T, u string) (int, string) {
	t.Helper()
	resp, err := http.Get(u)
	if err != nil {
		t.Fatalf("GET %s: %v", u, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func post(t *testing.T, u string, form url.Values) *http.Response {
	t.Helper()
	resp, err := noRedirect.PostForm(u, form)
	if err != nil {
		t.Fatalf("POST %s: %v", u, err)
	}
	resp.Body.Close()
	return resp
}

func TestHomeListsPlatesWithMarkdown(t *testing.T) {
	f := newFixture(t, false)

	code, body := get(t, f.ts.URL+"/")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", code, body)
	}
	for _, want := range []string{"Ao molho", "Veggie", "<strong>ao molho</strong>", "plates, 1 available", `action="/plates"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in home page", want)
		}
	}
}

func TestHomeReportsLoadFailure(t *testing.T) {
	f := newFixture(t, false)
	f.api.FailWith(http.MethodGet, http.StatusInternalServerError)

	code, _ := get(t, f.ts.URL+"/")
	if code != http.StatusBadGateway {
		t.Fatalf("expected 502 on load failure, got %d", code)
	}
}

func TestCreateAvailableEditDelete(t *testing.T) {
	f := newFixture(t, false)
	get(t, f.ts.URL+"/")

	resp := post(t, f.ts.URL+"/plates", url.Values{"name": {"Nova"}, "price": {"9.50"}})
	if resp.StatusCode != http.StatusSeeOther || !strings.Contains(resp.Header.Get("Location"), "msg=") {
		t.Fatalf("unexpected create response: %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}
	p, ok := f.ctrl.Plate(3)
	if !ok || p.Available || p.Name != "Nova" {
		t.Fatalf("unexpected created plate: %#v (ok=%v)", p, ok)
	}

	post(t, f.ts.URL+"/plates/3/available", url.Values{"available": {"true"}})
	if p, _ := f.ctrl.Plate(3); !p.Available {
		t.Fatalf("expected plate 3 available")
	}

	resp = post(t, f.ts.URL+"/plates/3/edit", url.Values{"name": {"Nova 2"}, "price": {"10.00"}, "image": {""}, "description": {"nova"}})
	if loc := resp.Header.Get("Location"); loc != "/plates/3?msg=saved" {
		t.Fatalf("unexpected edit redirect %q", loc)
	}
	if p, _ := f.ctrl.Plate(3); p.Name != "Nova 2" || p.Price != "10.00" || !p.Available {
		t.Fatalf("unexpected edited plate: %#v", p)
	}
	if f.ctrl.EditModalOpen() {
		t.Fatalf("edit modal should be closed after a web edit")
	}

	code, body := get(t, f.ts.URL+"/plates/3")
	if code != http.StatusOK || !strings.Contains(body, "Nova 2") {
		t.Fatalf("unexpected detail page: %d", code)
	}

	post(t, f.ts.URL+"/plates/3/delete", nil)
	if _, ok := f.ctrl.Plate(3); ok {
		t.Fatalf("expected plate 3 deleted")
	}
}

func TestCreatePassesFieldsThrough(t *testing.T) {
	f := newFixture(t, false)
	get(t, f.ts.URL+"/")

	resp := post(t, f.ts.URL+"/plates", url.Values{"name": {""}, "price": {"9.50"}})
	if strings.Contains(resp.Header.Get("Location"), "err=") {
		t.Fatalf("unexpected error redirect %q", resp.Header.Get("Location"))
	}
	p, ok := f.ctrl.Plate(3)
	if !ok || p.Name != "" || p.Price != "9.50" {
		t.Fatalf("unexpected created plate: %#v (ok=%v)", p, ok)
	}
}

func TestConcurrentEditsTargetTheirOwnPlates(t *testing.T) {
	f := newFixture(t, false)
	get(t, f.ts.URL+"/")

	const rounds = 50
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		for _, id := range []string{"1", "2"} {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				resp, err := noRedirect.PostForm(f.ts.URL+"/plates/"+id+"/edit", url.Values{"name": {"edited-" + id}})
				if err == nil {
					resp.Body.Close()
				}
			}(id)
		}
	}
	wg.Wait()

	puts := 0
	for _, req := range f.api.Requests() {
		if req.Method != http.MethodPut {
			continue
		}
		puts++
		if want := "edited-" + strings.TrimPrefix(req.Path, "/foods/"); req.Body["name"] != want {
			t.Fatalf("PUT %s carried name %v, want %q", req.Path, req.Body["name"], want)
		}
	}
	if puts != 2*rounds {
		t.Fatalf("expected %d PUTs, got %d", 2*rounds, puts)
	}
	for _, p := range f.ctrl.Plates()[:2] {
		if p.Name != fmt.Sprintf("edited-%d", p.ID) {
			t.Fatalf("plate %d ended up as %q", p.ID, p.Name)
		}
	}
}

func TestCreateFailureRedirectsWithError(t *testing.T) {
	f := newFixture(t, false)
	get(t, f.ts.URL+"/")
	f.api.FailWith(http.MethodPost, http.StatusInternalServerError)

	resp := post(t, f.ts.URL+"/plates", url.Values{"name": {"Nova"}})
	if !strings.Contains(resp.Header.Get("Location"), "err=") {
		t.Fatalf("expected error redirect, got %q", resp.Header.Get("Location"))
	}
	if got := len(f.ctrl.Plates()); got != 2 {
		t.Fatalf("expected collection unchanged, got %d plates", got)
	}
}

func TestAvailabilityFailureKeepsPlate(t *testing.T) {
	f := newFixture(t, false)
	get(t, f.ts.URL+"/")
	f.api.FailWith("PUT /foods/2", http.StatusInternalServerError)

	resp := post(t, f.ts.URL+"/plates/2/available", url.Values{"available": {"true"}})
	if !strings.Contains(resp.Header.Get("Location"), "err=") {
		t.Fatalf("expected error redirect, got %q", resp.Header.Get("Location"))
	}
	if p, _ := f.ctrl.Plate(2); p.Available {
		t.Fatalf("plate 2 should stay unavailable")
	}
}

func TestReadOnlyRejectsMutations(t *testing.T) {
	f := newFixture(t, true)
	get(t, f.ts.URL+"/")

	for _, path := range []string{"/plates", "/plates/1/available", "/plates/1/edit", "/plates/1/delete"} {
		resp := post(t, f.ts.URL+path, url.Values{"name": {"x"}})
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("POST %s: expected 403, got %d", path, resp.StatusCode)
		}
	}
	if len(f.api.Requests()) != 1 {
		t.Fatalf("expected only the initial load to reach the api")
	}
}

func TestUnknownAndInvalidPlate(t *testing.T) {
	f := newFixture(t, false)
	get(t, f.ts.URL+"/")

	if code, _ := get(t, f.ts.URL+"/plates/99"); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if code, _ := get(t, f.ts.URL+"/plates/abc"); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestEventsStreamPatchesPlatesOnChange(t *testing.T) {
	f := newFixture(t, false)
	get(t, f.ts.URL+"/")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, f.ts.URL+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /events: %v", err)
	}
	defer resp.Body.Close()

	deadline := time.Now().Add(2 * time.Second)
	for f.srv.hub.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("stream never subscribed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	post(t, f.ts.URL+"/plates/2/available", url.Values{"available": {"true"}})

	sc := bufio.NewScanner(resp.Body)
	sawPatch := false
	for sc.Scan() {
		line := sc.Text()
		if strings.Contains(line, "datastar-patch-elements") {
			sawPatch = true
		}
		if sawPatch && strings.Contains(line, `id="plates"`) {
			return
		}
	}
	t.Fatalf("expected a #plates patch event (sawPatch=%v, err=%v)", sawPatch, sc.Err())
}

func TestHubBroadcastDoesNotBlock(t *testing.T) {
	h := newResourceHub()
	ch, cancel := h.subscribe()
	defer cancel()

	for i := 0; i < 20; i++ {
		h.broadcast()
	}
	if got := len(ch); got != cap(ch) {
		t.Fatalf("expected buffer full (%d), got %d", cap(ch), got)
	}
}
