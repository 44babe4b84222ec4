// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Lafiorentina/siteweb/internal/app"
	"github.com/Lafiorentina/siteweb/internal/domain"
	"github.com/Lafiorentina/siteweb/internal/i18n"
)

const maxFormBytes = 64 << 10

// accessKeyField is the intake credential field; the relay always supplies its own.
const accessKeyField = "access_key"

type Handlers struct {
	Site    *app.Site
	Catalog *i18n.Catalog
	Relay   domain.FormRelay
	Limiter domain.SubmissionLimiter // nil disables throttling
	Lang    i18n.Language            // used when the request names no language
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type formResponse struct {
	Status app.FormStatus `json:"status"`
	Form   app.FormView   `json:"form"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/readyz", h.ready)
	s.mux.Get("/v1/page", h.getPage)
	s.mux.Get("/v1/sections/{section}", h.getSection)
	s.mux.Get("/v1/translations/{lang}", h.getTranslations)
	s.mux.Post("/v1/forms/{form}", h.submitForm)
}

// requestLang picks ?lang when present, else negotiates Accept-Language.
func (h *Handlers) requestLang(r *http.Request) (i18n.Language, error) {
	if q := r.URL.Query().Get("lang"); q != "" {
		return i18n.Parse(q)
	}
	if al := r.Header.Get("Accept-Language"); al != "" {
		return i18n.Negotiate(al), nil
	}
	if h.Lang.Valid() {
		return h.Lang, nil
	}
	return i18n.Default, nil
}

// newPage opens a fresh page session for one request.
func (h *Handlers) newPage(r *http.Request) (*app.Page, error) {
	lang, err := h.requestLang(r)
	if err != nil {
		return nil, err
	}
	return app.NewPage(h.Site, h.Catalog, lang, h.Relay), nil
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeView sends a cacheable JSON view, short-circuiting on a matching If-None-Match.
func writeView(w http.ResponseWriter, r *http.Request, lang i18n.Language, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "view could not be encoded")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Language", lang.String())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Vary", "Accept-Language")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write view body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func (h *Handlers) ready(w http.ResponseWriter, r *http.Request) {
	states := map[string]string{}
	for name, st := range h.Site.States() {
		states[name] = st.String()
	}
	status := http.StatusOK
	if !h.Site.Mounted() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{"mounted": h.Site.Mounted(), "sections": states})
}

func (h *Handlers) getPage(w http.ResponseWriter, r *http.Request) {
	p, err := h.newPage(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Unsupported language", err.Error())
		return
	}
	writeView(w, r, p.Language(), p.Render())
}

func (h *Handlers) getSection(w http.ResponseWriter, r *http.Request) {
	p, err := h.newPage(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Unsupported language", err.Error())
		return
	}
	v, err := p.RenderView(chi.URLParam(r, "section"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
		return
	}
	writeView(w, r, p.Language(), v)
}

func (h *Handlers) getTranslations(w http.ResponseWriter, r *http.Request) {
	lang, err := i18n.Parse(chi.URLParam(r, "lang"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
		return
	}
	writeView(w, r, lang, h.Catalog.Dictionary(lang))
}

func (h *Handlers) submitForm(w http.ResponseWriter, r *http.Request) {
	kind, err := app.ParseFormKind(chi.URLParam(r, "form"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
		return
	}
	p, err := h.newPage(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Unsupported language", err.Error())
		return
	}
	f, _ := p.Form(kind)

	fields, err := readFields(w, r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return
	}
	for name, value := range fields {
		if name == accessKeyField {
			continue
		}
		if err := f.Set(name, value); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid field", err.Error())
			return
		}
	}

	var st app.FormStatus
	if h.allow(r, kind) {
		st = f.Submit(r.Context())
	} else {
		st = f.Throttle()
	}
	writeJSON(w, submitStatus(st.State), formResponse{Status: st, Form: f.View(p.Translator())})
}

// allow consults the limiter; limiter failures let the submission through.
func (h *Handlers) allow(r *http.Request, kind app.FormKind) bool {
	if h.Limiter == nil {
		return true
	}
	ok, err := h.Limiter.Allow(r.Context(), remoteIP(r))
	if err != nil {
		log.Warn().Err(err).Str("form", string(kind)).Msg("submission limiter unavailable")
		return true
	}
	return ok
}

func submitStatus(s app.SubmitState) int {
	switch s {
	case app.StateSent:
		return http.StatusOK
	case app.StateInvalid, app.StateRejected:
		return http.StatusUnprocessableEntity
	case app.StateLimited:
		return http.StatusTooManyRequests
	case app.StateSending:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

var errUnsupportedBody = errors.New("body must be JSON or form-urlencoded")

// readFields accepts a flat JSON object or an urlencoded form.
func readFields(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/json":
		out := map[string]string{}
		if err := json.NewDecoder(r.Body).Decode(&out); err != nil {
			return nil, err
		}
		return out, nil
	case "application/x-www-form-urlencoded", "multipart/form-data", "":
		var err error
		if ct == "multipart/form-data" {
			err = r.ParseMultipartForm(maxFormBytes)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			return nil, err
		}
		out := make(map[string]string, len(r.PostForm))
		for k, vs := range r.PostForm {
			if len(vs) > 0 {
				out[k] = vs[0]
			}
		}
		return out, nil
	}
	return nil, errUnsupportedBody
}
