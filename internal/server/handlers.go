package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"io/fs"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/pagefx/internal/site"
	"github.com/vango-dev/pagefx/pkg/assets"
	"github.com/vango-dev/pagefx/pkg/pref"
	"github.com/vango-dev/pagefx/pkg/toast"
	"github.com/vango-dev/pagefx/pkg/validate"
)

const (
	contactAccepted = "Thank you! Your message has been sent successfully."
	contactRejected = "Please correct the highlighted fields."
	maxPrefValue    = 1024
)

var prefKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"code": status, "message": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

// page returns the landing page for the request's visitor.
func (s *Server) page(r *http.Request) site.Page {
	dark, err := pref.DarkMode(s.prefs(r)).Enabled(r.Context())
	if err != nil {
		s.logger.Warn("dark mode lookup failed", "visitor", visitorID(r.Context()), "error", err)
	}
	return site.Page{
		Title:   s.cfg.Site.Title,
		Brand:   s.cfg.Site.Brand,
		Dark:    dark,
		Options: s.cfg.Behavior,
		Assets:  s.manifest.Load(),
	}
}

func (s *Server) render(w http.ResponseWriter, status int, p site.Page) {
	var buf bytes.Buffer
	if err := site.Render(&buf, p); err != nil {
		s.logger.Error("render failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", assets.CacheNone)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	p := s.page(r)
	if f, ok := site.FlashFromQuery(r.URL.Query()); ok {
		p.Flashes = append(p.Flashes, f)
	}
	s.render(w, http.StatusOK, p)
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed form")
		return
	}
	form := site.ContactForm{
		Name:    strings.TrimSpace(r.PostForm.Get("name")),
		Email:   strings.TrimSpace(r.PostForm.Get("email")),
		Message: strings.TrimSpace(r.PostForm.Get("message")),
	}
	form.Invalid = validate.Errors(
		validate.Field{Name: "name", Type: "text", Value: form.Name, Required: true},
		validate.Field{Name: "email", Type: "email", Value: form.Email, Required: true},
		validate.Field{Name: "message", Type: "textarea", Value: form.Message, Required: true},
	)
	s.metrics.RecordContact(len(form.Invalid) == 0)

	if len(form.Invalid) > 0 {
		p := s.page(r)
		p.Form = form
		p.Flashes = []site.Flash{{Kind: toast.KindError, Message: contactRejected}}
		s.render(w, http.StatusUnprocessableEntity, p)
		return
	}

	s.logger.Info("contact received",
		"visitor", visitorID(r.Context()),
		"email", form.Email,
		"length", len(form.Message),
	)
	http.Redirect(w, r, site.FlashURL("/", site.Flash{Kind: toast.KindSuccess, Message: contactAccepted}), http.StatusSeeOther)
}

func prefKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := chi.URLParam(r, "key")
	if !prefKeyPattern.MatchString(key) {
		writeError(w, http.StatusBadRequest, "invalid preference key")
		return "", false
	}
	return key, true
}

func (s *Server) handlePrefGet(w http.ResponseWriter, r *http.Request) {
	key, ok := prefKey(w, r)
	if !ok {
		return
	}
	v, err := s.prefs(r).Get(r.Context(), key)
	if stderrors.Is(err, pref.ErrNotFound) {
		writeError(w, http.StatusNotFound, "preference not set")
		return
	}
	if err != nil {
		s.logger.Error("pref read failed", "key", key, "error", err)
		writeError(w, http.StatusBadGateway, "preference store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, pref.Value{Key: key, Value: v})
}

// limited applies the per-visitor write limit, answering 429 when spent.
func (s *Server) limited(w http.ResponseWriter, r *http.Request, op string) bool {
	ok, retry := s.limits.allow(visitorID(r.Context()))
	if ok {
		return false
	}
	s.metrics.RecordPrefRejected(op)
	if retry != "" {
		w.Header().Set("Retry-After", retry)
	}
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
	return true
}

func (s *Server) handlePrefPut(w http.ResponseWriter, r *http.Request) {
	key, ok := prefKey(w, r)
	if !ok || s.limited(w, r, "set") {
		return
	}
	var body pref.Value
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if body.Key != "" && body.Key != key {
		writeError(w, http.StatusBadRequest, "body key does not match path")
		return
	}
	if body.Value == "" || len(body.Value) > maxPrefValue {
		writeError(w, http.StatusBadRequest, "value must be 1 to 1024 bytes; use DELETE to clear")
		return
	}
	err := s.prefs(r).Set(r.Context(), key, body.Value)
	s.metrics.RecordPrefWrite("set", err)
	if err != nil {
		s.logger.Error("pref write failed", "key", key, "error", err)
		writeError(w, http.StatusBadGateway, "preference store unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePrefDelete(w http.ResponseWriter, r *http.Request) {
	key, ok := prefKey(w, r)
	if !ok || s.limited(w, r, "delete") {
		return
	}
	err := s.prefs(r).Delete(r.Context(), key)
	s.metrics.RecordPrefWrite("delete", err)
	if err != nil {
		s.logger.Error("pref delete failed", "key", key, "error", err)
		writeError(w, http.StatusBadGateway, "preference store unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAnnounce(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "body too large")
		return
	}
	n, err := toast.Decode(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed notice")
		return
	}
	if strings.TrimSpace(n.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	delivered := s.hub.Emit(n)
	s.metrics.RecordBroadcast(delivered)
	s.logger.Info("toast announced", "level", n.Level, "delivered", delivered)
	writeJSON(w, http.StatusAccepted, map[string]int{"delivered": delivered})
}

func (s *Server) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	serveFile(w, r, site.Static(), "site.css")
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	rel, ok := assets.RelPath(staticPrefix, r.URL.Path)
	if !ok || s.static == nil {
		http.NotFound(w, r)
		return
	}
	serveFile(w, r, s.static, rel)
}

// serveFile serves name from fsys with pagefx content and cache headers.
func serveFile(w http.ResponseWriter, r *http.Request, fsys fs.FS, name string) {
	f, err := fsys.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	content, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		content = bytes.NewReader(data)
	}
	w.Header().Set("Content-Type", assets.ContentType(name))
	w.Header().Set("Cache-Control", assets.CacheControl(name))
	http.ServeContent(w, r, name, info.ModTime(), content)
}
