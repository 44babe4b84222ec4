package app

import (
	"fmt"
	"time"

	"github.com/Lafiorentina/siteweb/internal/domain"
	"github.com/Lafiorentina/siteweb/internal/i18n"
)

// Views lists the renderable page blocks, in page order.
var Views = []string{"nav", SectionHero, SectionMenu, SectionGallery, SectionRoom, "reservations", SectionContact, "footer"}

// Page is one visitor's session over the shared Site: its own language state and form state.
// Changing the language re-renders loaded content and never refetches it.
type Page struct {
	site *Site
	sel  *i18n.Selector
	tr   i18n.Translator
	now  func() time.Time

	Reservation *Form
	Contact     *Form
}

func NewPage(site *Site, catalog *i18n.Catalog, lang i18n.Language, relay domain.FormRelay) *Page {
	sel := i18n.NewSelector(lang)
	return &Page{
		site:        site,
		sel:         sel,
		tr:          i18n.Translator{Catalog: catalog, Selector: sel},
		now:         time.Now,
		Reservation: NewReservationForm(relay),
		Contact:     NewContactForm(relay),
	}
}

func (p *Page) Language() i18n.Language { return p.sel.Language() }

func (p *Page) SetLanguage(lang i18n.Language) error { return p.sel.Set(lang) }

// Translator resolves keys in the page's current language.
func (p *Page) Translator() i18n.Translator { return p.tr }

func (p *Page) Form(kind FormKind) (*Form, error) {
	switch kind {
	case ReservationForm:
		return p.Reservation, nil
	case ContactForm:
		return p.Contact, nil
	}
	return nil, fmt.Errorf("unknown form %q", kind)
}

func (p *Page) Render() PageView {
	return PageView{
		Language:     p.Language(),
		Nav:          p.renderNav(),
		Hero:         p.renderHero(),
		Menu:         p.renderMenu(),
		Gallery:      p.renderGallery(),
		Room:         p.renderRoom(),
		Reservations: p.renderReservations(),
		Contact:      p.renderContact(),
		Footer:       p.renderFooter(),
	}
}

// RenderView renders a single block named as in Views.
func (p *Page) RenderView(name string) (any, error) {
	switch name {
	case "nav":
		return p.renderNav(), nil
	case SectionHero:
		return p.renderHero(), nil
	case SectionMenu:
		return p.renderMenu(), nil
	case SectionGallery:
		return p.renderGallery(), nil
	case SectionRoom:
		return p.renderRoom(), nil
	case "reservations":
		return p.renderReservations(), nil
	case SectionContact:
		return p.renderContact(), nil
	case "footer":
		return p.renderFooter(), nil
	}
	return nil, fmt.Errorf("unknown view %q", name)
}
