package app

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Lafiorentina/siteweb/internal/domain"
	"github.com/Lafiorentina/siteweb/internal/i18n"
)

// Normalizers turn store documents into section records. Missing optional fields become
// zero values; media that cannot be resolved is dropped rather than failing the section.

func mapHero(d domain.HeroDoc, _ domain.MediaURLs) (domain.Hero, error) {
	return domain.Hero{Phrase1: d.Phrase1, Phrase2: d.Phrase2}, nil
}

func mapMenu(d domain.MenuDoc, urls domain.MediaURLs) (domain.Menu, error) {
	m := domain.Menu{Title: strings.TrimSpace(d.Title), Description: strings.TrimSpace(d.Description)}
	if d.PDFFile != nil && d.PDFFile.Asset != nil {
		u, err := urls.URLFor(*d.PDFFile.Asset)
		if err != nil {
			log.Warn().Err(err).Str("section", SectionMenu).Msg("menu document asset unresolved")
		} else {
			m.PDFURL = u
		}
	}
	return m, nil
}

func mapImages(section string, in []domain.ImageDoc, urls domain.MediaURLs) []domain.Image {
	out := make([]domain.Image, 0, len(in))
	for i, img := range in {
		if img.Asset == nil {
			log.Warn().Str("section", section).Int("index", i).Msg("image without asset skipped")
			continue
		}
		u, err := urls.URLFor(*img.Asset)
		if err != nil {
			log.Warn().Err(err).Str("section", section).Int("index", i).Msg("image asset unresolved")
			continue
		}
		out = append(out, domain.Image{URL: u, Alt: img.Alt, Caption: img.Caption})
	}
	return out
}

func mapGallery(d domain.GalleryDoc, urls domain.MediaURLs) (domain.Gallery, error) {
	return domain.Gallery{Title: d.Title, Images: mapImages(SectionGallery, d.Images, urls)}, nil
}

func mapRoom(d domain.RoomGalleryDoc, urls domain.MediaURLs) (domain.RoomGallery, error) {
	return domain.RoomGallery{Images: mapImages(SectionRoom, d.Images, urls)}, nil
}

func mapContact(d domain.OpeningHoursDoc, _ domain.MediaURLs) (domain.ContactInfo, error) {
	c := domain.ContactInfo{
		Phone: strings.TrimSpace(d.Phone),
		Email: strings.TrimSpace(d.Email),
		Hours: d.Hours,
	}
	if c.Hours == nil {
		c.Hours = []i18n.Text{}
	}
	return c, nil
}
