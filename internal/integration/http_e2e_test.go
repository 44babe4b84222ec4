//go:build integration || !unit

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	server "github.com/Lafiorentina/siteweb/internal/adapters/http_server"
	"github.com/Lafiorentina/siteweb/internal/adapters/ratelimit"
	"github.com/Lafiorentina/siteweb/internal/adapters/sanity"
	"github.com/Lafiorentina/siteweb/internal/adapters/web3forms"
	"github.com/Lafiorentina/siteweb/internal/app"
	"github.com/Lafiorentina/siteweb/internal/i18n"
)

// ---------- fake content store ----------

var documents = map[string]string{
	"heroText":       `{"phrase1":{"en":"Authentic Italian","pt":"Italiano autêntico"},"phrase2":{"en":"in Bairro Alto","pt":"no Bairro Alto"}}`,
	"menu":           `{"title":"Menu","description":"","pdfFile":{"asset":{"_id":"file-9f2c-pdf","url":"https://cdn.sanity.io/files/55mw0v3t/production/9f2c.pdf"}}}`,
	"gallery":        `{"title":"Galeria","images":[{"asset":{"_id":"image-a1-800x600-jpg"},"alt":"Pizza"}]}`,
	"ourRoomGallery": `null`,
	"openingHours":   `{"phone":"+351 213 000 000","email":"reservas@lafiorentina.pt","hours":[{"en":"Every day 12pm-11pm","pt":"Todos os dias 12h-23h"}]}`,
}

func fakeSanity(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2024-01-01/data/query/production" {
			http.Error(w, "bad path "+r.URL.Path, http.StatusNotFound)
			return
		}
		q := r.URL.Query().Get("query")
		_, rest, _ := strings.Cut(q, `_type == "`)
		typ, _, _ := strings.Cut(rest, `"`)
		doc, ok := documents[typ]
		if !ok {
			doc = "null"
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ms":1,"query":"","result":` + doc + `}`))
	}))
}

// ---------- fake intake endpoint ----------

type intake struct {
	mu   sync.Mutex
	got  []url.Values
	fail string // when set, refuse with this message
}

func (in *intake) handler(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	in.mu.Lock()
	in.got = append(in.got, r.PostForm)
	fail := in.fail
	in.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if fail != "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": fail})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Email sent successfully!"})
}

// ---------- the test ----------

func TestHTTP_EndToEnd_PageAndForms(t *testing.T) {
	cms := fakeSanity(t)
	defer cms.Close()
	in := &intake{}
	forms := httptest.NewServer(http.HandlerFunc(in.handler))
	defer forms.Close()

	store, err := sanity.New(sanity.Options{ProjectID: "55mw0v3t", Dataset: "production", BaseURL: cms.URL, RPS: 50, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("sanity.New: %v", err)
	}
	site := app.NewSite(store, sanity.URLBuilder{ProjectID: "55mw0v3t", Dataset: "production"})
	errs := site.Mount(context.Background(), 2)
	if errs[app.SectionRoom] == nil {
		t.Fatalf("room had no document and should have failed")
	}
	for _, s := range []string{app.SectionHero, app.SectionMenu, app.SectionGallery, app.SectionContact} {
		if errs[s] != nil {
			t.Fatalf("%s: %v", s, errs[s])
		}
	}

	relay, err := web3forms.New(forms.URL, "test-key", 50)
	if err != nil {
		t.Fatalf("web3forms.New: %v", err)
	}
	srv := server.New(5 * time.Second)
	srv.MountHandlers(&server.Handlers{
		Site:    site,
		Catalog: i18n.Builtin(),
		Relay:   relay,
		Limiter: ratelimit.NewMemory(2, time.Minute),
		Lang:    i18n.PT,
	})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// page in English
	res, err := http.Get(ts.URL + "/v1/page?lang=en")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var page app.PageView
	if err := json.NewDecoder(res.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	res.Body.Close()
	if page.Hero.Phrase != "Authentic Italian" || page.Hero.SubPhrase != "in Bairro Alto" {
		t.Fatalf("unexpected hero: %+v", page.Hero)
	}
	if page.Menu.Discover == nil || page.Menu.Discover.Href != "https://cdn.sanity.io/files/55mw0v3t/production/9f2c.pdf" {
		t.Fatalf("unexpected menu: %+v", page.Menu)
	}
	if len(page.Gallery.Images) != 1 || page.Gallery.Images[0].URL != "https://cdn.sanity.io/images/55mw0v3t/production/a1-800x600.jpg" {
		t.Fatalf("unexpected gallery: %+v", page.Gallery.Images)
	}
	if len(page.Room.Images) != 0 {
		t.Fatalf("room should render empty, got %+v", page.Room.Images)
	}
	if len(page.Contact.Hours) != 1 || page.Contact.Hours[0] != "Every day 12pm-11pm" {
		t.Fatalf("unexpected hours: %+v", page.Contact.Hours)
	}

	// reservation goes through with the server-side key
	post := func(form string, v url.Values) (int, app.FormStatus) {
		t.Helper()
		res, err := http.PostForm(ts.URL+"/v1/forms/"+form+"?lang=en", v)
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		defer res.Body.Close()
		var out struct {
			Status app.FormStatus `json:"status"`
		}
		if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
			t.Fatalf("decode form response: %v", err)
		}
		return res.StatusCode, out.Status
	}

	code, st := post("reservation", url.Values{
		"name": {"Ana"}, "date": {"2026-11-02"}, "time": {"20:00"}, "guests": {"2"}, "access_key": {"client-supplied"},
	})
	if code != http.StatusOK || st.State != app.StateSent {
		t.Fatalf("reservation: %d %+v", code, st)
	}
	in.mu.Lock()
	if len(in.got) != 1 || in.got[0].Get("access_key") != "test-key" || in.got[0].Get("guests") != "2" {
		t.Fatalf("unexpected relay payload: %+v", in.got)
	}
	in.mu.Unlock()

	// refusal message surfaces verbatim
	in.mu.Lock()
	in.fail = "Invalid email"
	in.mu.Unlock()
	code, st = post("contact", url.Values{
		"name": {"Ana"}, "email": {"ana@example.com"}, "reason": {"general"}, "subject": {"Oi"}, "message": {"Olá"},
	})
	if code != http.StatusUnprocessableEntity || st.State != app.StateRejected || st.Message != "Invalid email" {
		t.Fatalf("contact: %d %+v", code, st)
	}

	// third submission from the same client is throttled before relaying
	code, st = post("contact", url.Values{
		"name": {"Ana"}, "email": {"ana@example.com"}, "reason": {"general"}, "subject": {"Oi"}, "message": {"Olá"},
	})
	if code != http.StatusTooManyRequests || st.State != app.StateLimited {
		t.Fatalf("limited: %d %+v", code, st)
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if len(in.got) != 2 {
		t.Fatalf("intake should have seen 2 submissions, saw %d", len(in.got))
	}
}
