package app

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/Lafiorentina/siteweb/internal/domain"
)

const (
	SectionHero    = "hero"
	SectionMenu    = "menu"
	SectionGallery = "gallery"
	SectionRoom    = "room"
	SectionContact = "contact"
)

// Sections lists the content sections in page order.
var Sections = []string{SectionHero, SectionMenu, SectionGallery, SectionRoom, SectionContact}

// GROQ projections, one document per section type.
const (
	heroQuery = `*[_type == "heroText"][0]{
  phrase1,
  phrase2
}`
	menuQuery = `*[_type == "menu"][0]{
  title,
  description,
  pdfFile {
    asset->{
      _id,
      url
    }
  }
}`
	galleryQuery = `*[_type == "gallery"][0]{
  title,
  images[] {
    asset->{
      _id,
      url
    },
    alt
  }
}`
	roomQuery = `*[_type == "ourRoomGallery"][0]{
  images[] {
    asset->{
      _id,
      url
    },
    caption
  }
}`
	contactQuery = `*[_type == "openingHours"][0]{
  phone,
  email,
  hours[] {
    en,
    pt
  }
}`
)

// fetchDoc queries one document of shape D and normalizes it into N.
func fetchDoc[D, N any](store domain.ContentStore, urls domain.MediaURLs, query string, normalize func(D, domain.MediaURLs) (N, error)) Fetcher[N] {
	return func(ctx context.Context) (N, error) {
		var doc D
		if err := store.Query(ctx, query, &doc); err != nil {
			var zero N
			return zero, err
		}
		return normalize(doc, urls)
	}
}

// Site owns the remote content of every section. The contact record also feeds the footer.
type Site struct {
	Hero    *Resource[domain.Hero]
	Menu    *Resource[domain.Menu]
	Gallery *Resource[domain.Gallery]
	Room    *Resource[domain.RoomGallery]
	Contact *Resource[domain.ContactInfo]

	mounted atomic.Bool
}

func NewSite(store domain.ContentStore, urls domain.MediaURLs) *Site {
	return &Site{
		Hero:    NewResource(SectionHero, fetchDoc(store, urls, heroQuery, mapHero)),
		Menu:    NewResource(SectionMenu, fetchDoc(store, urls, menuQuery, mapMenu)),
		Gallery: NewResource(SectionGallery, fetchDoc(store, urls, galleryQuery, mapGallery)),
		Room:    NewResource(SectionRoom, fetchDoc(store, urls, roomQuery, mapRoom)),
		Contact: NewResource(SectionContact, fetchDoc(store, urls, contactQuery, mapContact)),
	}
}

type loader interface {
	Name() string
	Load(ctx context.Context) error
	State() State
	Close()
}

func (s *Site) resources() []loader {
	return []loader{s.Hero, s.Menu, s.Gallery, s.Room, s.Contact}
}

// Mount fetches every section concurrently, at most workers at a time (0 = unbounded).
// Sections fail independently; the returned map holds each section's outcome (nil on success).
func (s *Site) Mount(ctx context.Context, workers int) map[string]error {
	rs := s.resources()
	errs := make([]error, len(rs))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, r := range rs {
		i, r := i, r
		g.Go(func() error {
			errs[i] = r.Load(ctx)
			return nil // never cancel sibling fetches
		})
	}
	_ = g.Wait()
	s.mounted.Store(true)

	out := make(map[string]error, len(rs))
	for i, r := range rs {
		out[r.Name()] = errs[i]
	}
	return out
}

// Mounted reports whether a Mount pass has completed, whatever its outcome.
func (s *Site) Mounted() bool { return s.mounted.Load() }

// States reports each section's load state, keyed by section name.
func (s *Site) States() map[string]State {
	out := make(map[string]State, len(Sections))
	for _, r := range s.resources() {
		out[r.Name()] = r.State()
	}
	return out
}

// Close tears down every section; late fetch results are dropped.
func (s *Site) Close() {
	for _, r := range s.resources() {
		r.Close()
	}
}

// Snapshot returns the loaded records keyed by section name; unloaded sections are absent.
func (s *Site) Snapshot() map[string]any {
	out := map[string]any{}
	if v, ok := s.Hero.Get(); ok {
		out[SectionHero] = v
	}
	if v, ok := s.Menu.Get(); ok {
		out[SectionMenu] = v
	}
	if v, ok := s.Gallery.Get(); ok {
		out[SectionGallery] = v
	}
	if v, ok := s.Room.Get(); ok {
		out[SectionRoom] = v
	}
	if v, ok := s.Contact.Get(); ok {
		out[SectionContact] = v
	}
	return out
}

// ValidSection reports whether name is a known section.
func ValidSection(name string) error {
	for _, s := range Sections {
		if s == name {
			return nil
		}
	}
	return fmt.Errorf("unknown section %q", name)
}
