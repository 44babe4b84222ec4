package app

import (
	"strconv"

	"github.com/Lafiorentina/siteweb/internal/domain"
	"github.com/Lafiorentina/siteweb/internal/i18n"
)

// Fixed venue details that are not managed in the content store.
const (
	restaurantName = "La Fiorentina"
	roomRating     = "4,8/5"
	instagramURL   = "https://www.instagram.com/lafiorentina_pt/"
	mapsEmbedURL   = "https://www.google.com/maps/embed?pb=!1m18!1m12!1m3!1d3113.275259750262!2d-9.144994684685773!3d38.71472537959791!2m3!1f0!2f0!3f0!3m2!1i1024!2i768!4f13.1!3m3!1m2!1s0xd19338e21f11ab1%3A0x1d94d0fb5f5b6ae5!2sR.%20de%20S%C3%A3o%20Pedro%20de%20Alc%C3%A2ntara%2065%2C%201250-238%20Lisboa%2C%20Portugal!5e0!3m2!1spt!2spt!4v1645541234567!5m2!1spt!2spt"
)

var addressLines = []string{"R. de São Pedro de Alcântara 65", "Bairro Alto, Lisboa", "Portugal"}

// ---- view models ----

type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type LanguageOption struct {
	Code   i18n.Language `json:"code"`
	Label  string        `json:"label"`
	Active bool          `json:"active"`
}

type NavView struct {
	Brand     string           `json:"brand"`
	Links     []Link           `json:"links"`
	Languages []LanguageOption `json:"languages"`
}

type HeroView struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Phrase      string `json:"phrase"`
	SubPhrase   string `json:"subPhrase"`
	Description string `json:"description"`
	CTA         Link   `json:"cta"`
}

type MenuView struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Discover    *Link  `json:"discover,omitempty"` // only when a menu document is published
}

type GalleryView struct {
	Title  string         `json:"title"`
	Images []domain.Image `json:"images"`
}

type RoomView struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Rating      string         `json:"rating"`
	Review      string         `json:"review"`
	Images      []domain.Image `json:"images"`
}

type ReservationsView struct {
	Title      string   `json:"title"`
	HoursTitle string   `json:"hoursTitle"`
	Hours      []string `json:"hours"`
	Form       FormView `json:"form"`
}

type ContactView struct {
	Title      string   `json:"title"`
	HowToReach string   `json:"howToReach"`
	Address    []string `json:"address"`
	MapURL     string   `json:"mapUrl"`
	TalkToUs   string   `json:"talkToUs"`
	Phone      string   `json:"phone"`
	Email      string   `json:"email"`
	Hours      []string `json:"hours"`
	Form       FormView `json:"form"`
}

type FooterView struct {
	Brand      string `json:"brand"`
	Experience string `json:"experience"`
	QuickLinks string `json:"quickLinksTitle"`
	Links      []Link `json:"links"`
	Contact    string `json:"contactTitle"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	FollowUs   string `json:"followUsTitle"`
	Instagram  string `json:"instagram"`
	Copyright  string `json:"copyright"`
}

type PageView struct {
	Language     i18n.Language    `json:"language"`
	Nav          NavView          `json:"nav"`
	Hero         HeroView         `json:"hero"`
	Menu         MenuView         `json:"menu"`
	Gallery      GalleryView      `json:"gallery"`
	Room         RoomView         `json:"room"`
	Reservations ReservationsView `json:"reservations"`
	Contact      ContactView      `json:"contact"`
	Footer       FooterView       `json:"footer"`
}

// ---- renderers ----

func (p *Page) renderNav() NavView {
	t := p.tr.T
	v := NavView{
		Brand: restaurantName,
		Links: []Link{
			{Label: t("nav.home"), Href: "#inicio"},
			{Label: t("nav.menu"), Href: "#menu"},
			{Label: t("nav.gallery"), Href: "#galeria"},
			{Label: t("nav.reservations"), Href: "#reservas"},
			{Label: t("nav.contact"), Href: "#contato"},
		},
	}
	cur := p.tr.Language()
	for _, l := range i18n.Supported() {
		v.Languages = append(v.Languages, LanguageOption{Code: l, Label: t("language." + l.String()), Active: l == cur})
	}
	return v
}

func (p *Page) renderHero() HeroView {
	t := p.tr.T
	v := HeroView{
		Title:       restaurantName,
		Subtitle:    t("hero.subtitle"),
		Description: t("hero.description"),
		CTA:         Link{Label: t("hero.cta"), Href: "#reservas"},
	}
	if h, ok := p.site.Hero.Get(); ok {
		lang := p.tr.Language()
		v.Phrase = h.Phrase1.In(lang)
		v.SubPhrase = h.Phrase2.In(lang)
	}
	return v
}

func (p *Page) renderMenu() MenuView {
	t := p.tr.T
	v := MenuView{Title: t("menu.title"), Description: t("menu.description")}
	if m, ok := p.site.Menu.Get(); ok && m.PDFURL != "" {
		v.Discover = &Link{Label: t("menu.discover"), Href: m.PDFURL}
	}
	return v
}

func (p *Page) renderGallery() GalleryView {
	v := GalleryView{Title: p.tr.T("gallery.title"), Images: []domain.Image{}}
	if g, ok := p.site.Gallery.Get(); ok {
		v.Images = g.Images
	}
	return v
}

func (p *Page) renderRoom() RoomView {
	t := p.tr.T
	v := RoomView{
		Title:       t("room.title"),
		Description: t("room.description"),
		Rating:      roomRating + " " + t("room.rating"),
		Review:      t("room.review"),
		Images:      []domain.Image{},
	}
	if r, ok := p.site.Room.Get(); ok {
		v.Images = r.Images
	}
	return v
}

func (p *Page) renderReservations() ReservationsView {
	t := p.tr.T
	return ReservationsView{
		Title:      t("reservations.title"),
		HoursTitle: t("reservations.hours.title"),
		Hours:      []string{t("reservations.hours.weekdays"), t("reservations.hours.weekend")},
		Form:       p.Reservation.View(p.tr),
	}
}

func (p *Page) renderContact() ContactView {
	t := p.tr.T
	v := ContactView{
		Title:      t("contact.title"),
		HowToReach: t("contact.how.to.reach"),
		Address:    addressLines,
		MapURL:     mapsEmbedURL,
		TalkToUs:   t("contact.talk.to.us"),
		Hours:      []string{},
		Form:       p.Contact.View(p.tr),
	}
	if c, ok := p.site.Contact.Get(); ok {
		v.Phone = c.Phone
		v.Email = c.Email
		v.Hours = i18n.Project(c.Hours, p.tr.Language())
	}
	return v
}

func (p *Page) renderFooter() FooterView {
	t := p.tr.T
	v := FooterView{
		Brand:      restaurantName,
		Experience: t("footer.experience"),
		QuickLinks: t("footer.quickLinks"),
		Links: []Link{
			{Label: t("nav.home"), Href: "#inicio"},
			{Label: t("nav.menu"), Href: "#menu"},
			{Label: t("nav.reservations"), Href: "#reservas"},
			{Label: t("nav.contact"), Href: "#contato"},
		},
		Contact:   t("footer.contact"),
		Address:   addressLines[0] + ", Bairro Alto",
		FollowUs:  t("footer.followUs"),
		Instagram: instagramURL,
		Copyright: "© " + strconv.Itoa(p.now().Year()) + " " + restaurantName + ". " + t("footer.rights"),
	}
	if c, ok := p.site.Contact.Get(); ok {
		v.Phone = c.Phone
		v.Email = c.Email
	}
	return v
}
