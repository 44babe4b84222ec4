package domain

import "github.com/Lafiorentina/siteweb/internal/i18n"

// ---- documents as the content store returns them ----

// AssetRef is an embedded media reference, dereferenced (`asset->{_id, url}`) or not (`_ref`).
type AssetRef struct {
	ID  string `json:"_id,omitempty"`
	Ref string `json:"_ref,omitempty"`
	URL string `json:"url,omitempty"`
}

// Key is the store identifier of the asset, whichever form it came in.
func (a AssetRef) Key() string {
	if a.ID != "" {
		return a.ID
	}
	return a.Ref
}

type HeroDoc struct {
	Phrase1 i18n.Text `json:"phrase1"`
	Phrase2 i18n.Text `json:"phrase2"`
}

type MenuDoc struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PDFFile     *struct {
		Asset *AssetRef `json:"asset"`
	} `json:"pdfFile"`
}

type ImageDoc struct {
	Asset   *AssetRef `json:"asset"`
	Alt     string    `json:"alt"`
	Caption string    `json:"caption"`
}

type GalleryDoc struct {
	Title  string     `json:"title"`
	Images []ImageDoc `json:"images"`
}

type RoomGalleryDoc struct {
	Images []ImageDoc `json:"images"`
}

type OpeningHoursDoc struct {
	Phone string      `json:"phone"`
	Email string      `json:"email"`
	Hours []i18n.Text `json:"hours"`
}

// ---- normalized records (media already resolved to URLs) ----

type Hero struct {
	Phrase1 i18n.Text `json:"phrase1"`
	Phrase2 i18n.Text `json:"phrase2"`
}

type Menu struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PDFURL      string `json:"pdfUrl"`
}

type Image struct {
	URL     string `json:"url"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

type Gallery struct {
	Title  string  `json:"title"`
	Images []Image `json:"images"`
}

type RoomGallery struct {
	Images []Image `json:"images"`
}

type ContactInfo struct {
	Phone string      `json:"phone"`
	Email string      `json:"email"`
	Hours []i18n.Text `json:"hours"`
}
