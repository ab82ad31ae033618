package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"platedash/internal/dashboard"
	"platedash/internal/model"

	"github.com/starfederation/datastar-go/datastar"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

type ServerConfig struct {
	Addr     string
	APIURL   string
	ReadOnly bool
	Logger   *log.Logger
}

// Server is the browser admin page. It drives the same dashboard controller as
// the TUI and CLI, so the error policy is identical: failed creates and updates
// are logged and dropped, everything else is reported back to the page.
type Server struct {
	cfg  ServerConfig
	tmpl *template.Template
	ctrl *dashboard.Controller
	hub  *resourceHub
	log  *log.Logger
}

func NewServer(cfg ServerConfig, ctrl *dashboard.Controller) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if ctrl == nil {
		return nil, errors.New("web: nil controller")
	}
	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"description": descriptionHTML,
		"excerpt":     descriptionExcerptHTML,
		"emptyDraft":  func() model.PlateDraft { return model.PlateDraft{} },
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{cfg: cfg, tmpl: tmpl, ctrl: ctrl, hub: newResourceHub(), log: logger}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /plates/{id}", s.handlePlate)
	mux.HandleFunc("POST /plates", s.handlePlateCreate)
	mux.HandleFunc("POST /plates/{id}/edit", s.handlePlateEdit)
	mux.HandleFunc("POST /plates/{id}/available", s.handlePlateAvailable)
	mux.HandleFunc("POST /plates/{id}/delete", s.handlePlateDelete)
	mux.HandleFunc("POST /reload", s.handleReload)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(b)
}

type baseVM struct {
	APIURL   string
	ReadOnly bool
	Flash    string
	Err      string
}

type platesVM struct {
	baseVM
	Plates    []model.Plate
	Available int
}

type plateVM struct {
	baseVM
	Plate model.Plate
}

func (s *Server) baseVMForRequest(r *http.Request) baseVM {
	q := r.URL.Query()
	return baseVM{
		APIURL:   s.cfg.APIURL,
		ReadOnly: s.cfg.ReadOnly,
		Flash:    strings.TrimSpace(q.Get("msg")),
		Err:      strings.TrimSpace(q.Get("err")),
	}
}

func (s *Server) platesVM(base baseVM) platesVM {
	plates := s.ctrl.Plates()
	vm := platesVM{baseVM: base, Plates: plates}
	for _, p := range plates {
		if p.Available {
			vm.Available++
		}
	}
	return vm
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		s.log.Printf("web: render %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if !s.ctrl.Loaded() {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		if err := s.ctrl.Load(ctx); err != nil {
			s.log.Printf("web: load plates: %v", err)
			http.Error(w, "could not load plates: "+err.Error(), http.StatusBadGateway)
			return
		}
	}
	s.writeHTMLTemplate(w, "home.html", s.platesVM(s.baseVMForRequest(r)))
}

func (s *Server) handlePlate(w http.ResponseWriter, r *http.Request) {
	id, ok := model.ParseID(r.PathValue("id"))
	if !ok {
		http.Error(w, "invalid plate id", http.StatusBadRequest)
		return
	}
	p, ok := s.ctrl.Plate(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.writeHTMLTemplate(w, "plate.html", plateVM{baseVM: s.baseVMForRequest(r), Plate: p})
}

// handleEvents keeps the plate list live: every mutation made through this
// server re-renders #plates on all open pages.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	ch, cancel := s.hub.subscribe()
	defer cancel()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			html, err := s.renderTemplate("plates", s.platesVM(baseVM{ReadOnly: s.cfg.ReadOnly}))
			if err != nil {
				_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
				continue
			}
			_ = sse.PatchElements(html, datastar.WithSelector("#plates"), datastar.WithMode(datastar.ElementPatchModeOuter))
			_ = sse.MarshalAndPatchSignals(map[string]any{"plateCount": len(s.ctrl.Plates())})
		}
	}
}

func (s *Server) mutationAllowed(w http.ResponseWriter) bool {
	if s.cfg.ReadOnly {
		http.Error(w, "read-only", http.StatusForbidden)
		return false
	}
	return true
}

func draftFromForm(r *http.Request) model.PlateDraft {
	return model.PlateDraft{
		Name:        strings.TrimSpace(r.Form.Get("name")),
		Image:       strings.TrimSpace(r.Form.Get("image")),
		Price:       strings.TrimSpace(r.Form.Get("price")),
		Description: strings.TrimSpace(r.Form.Get("description")),
	}
}

func (s *Server) handlePlateCreate(w http.ResponseWriter, r *http.Request) {
	if !s.mutationAllowed(w) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	d := draftFromForm(r)
	if !s.ctrl.AddPlate(r.Context(), d) {
		redirectWith(w, r, "/", "err", fmt.Sprintf("%q was not added (see server log)", d.Name))
		return
	}
	s.hub.broadcast()
	redirectWith(w, r, "/", "msg", fmt.Sprintf("added %q", d.Name))
}

func (s *Server) handlePlateEdit(w http.ResponseWriter, r *http.Request) {
	if !s.mutationAllowed(w) {
		return
	}
	p, ok := s.plateFromPath(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	back := "/plates/" + strconv.Itoa(p.ID)

	applied, err := s.ctrl.SaveEdit(r.Context(), p, draftFromForm(r))
	switch {
	case err != nil:
		redirectWith(w, r, back, "err", err.Error())
		return
	case !applied:
		redirectWith(w, r, back, "err", "update was not applied (see server log)")
		return
	}
	s.hub.broadcast()
	redirectWith(w, r, back, "msg", "saved")
}

func (s *Server) handlePlateAvailable(w http.ResponseWriter, r *http.Request) {
	if !s.mutationAllowed(w) {
		return
	}
	p, ok := s.plateFromPath(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	want := !p.Available
	if v := strings.TrimSpace(r.Form.Get("available")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "invalid available value", http.StatusBadRequest)
			return
		}
		want = b
	}
	if err := s.ctrl.ToggleAvailability(r.Context(), p.ID, want); err != nil {
		s.log.Printf("web: set availability %d: %v", p.ID, err)
		redirectBack(w, r, "/", "err", err.Error())
		return
	}
	s.hub.broadcast()
	redirectBack(w, r, "/", "", "")
}

func (s *Server) handlePlateDelete(w http.ResponseWriter, r *http.Request) {
	if !s.mutationAllowed(w) {
		return
	}
	p, ok := s.plateFromPath(w, r)
	if !ok {
		return
	}
	if err := s.ctrl.DeletePlate(r.Context(), p.ID); err != nil {
		s.log.Printf("web: delete %d: %v", p.ID, err)
		redirectWith(w, r, "/", "err", err.Error())
		return
	}
	s.hub.broadcast()
	redirectWith(w, r, "/", "msg", fmt.Sprintf("deleted %q", p.Title()))
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.Load(r.Context()); err != nil {
		redirectWith(w, r, "/", "err", err.Error())
		return
	}
	s.hub.broadcast()
	redirectWith(w, r, "/", "msg", "reloaded")
}

func (s *Server) plateFromPath(w http.ResponseWriter, r *http.Request) (model.Plate, bool) {
	id, ok := model.ParseID(r.PathValue("id"))
	if !ok {
		http.Error(w, "invalid plate id", http.StatusBadRequest)
		return model.Plate{}, false
	}
	p, ok := s.ctrl.Plate(id)
	if !ok {
		http.NotFound(w, r)
		return model.Plate{}, false
	}
	return p, true
}

func redirectWith(w http.ResponseWriter, r *http.Request, path, key, value string) {
	if key != "" && value != "" {
		path += "?" + key + "=" + url.QueryEscape(value)
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectBack returns to the referring page (list or detail), falling back to fallback.
func redirectBack(w http.ResponseWriter, r *http.Request, fallback, key, value string) {
	target := fallback
	if ref, err := url.Parse(strings.TrimSpace(r.Header.Get("Referer"))); err == nil && ref.Path != "" && ref.Host == r.Host {
		target = ref.Path
	}
	redirectWith(w, r, target, key, value)
}
