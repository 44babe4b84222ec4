package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language is one of the two languages the site is published in.
type Language string

const (
	PT Language = "pt"
	EN Language = "en"
)

// Default is the language a page session starts in.
const Default = PT

func (l Language) String() string { return string(l) }

func (l Language) Valid() bool { return l == PT || l == EN }

// Supported returns the languages in toggle order.
func Supported() []Language { return []Language{PT, EN} }

func Parse(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case PT:
		return PT, nil
	case EN:
		return EN, nil
	default:
		return "", fmt.Errorf("unsupported language: %q", s)
	}
}

// matcher order must follow Supported().
var matcher = language.NewMatcher([]language.Tag{language.Portuguese, language.English})

// Negotiate picks a supported language from an Accept-Language header value.
// Unparseable or unmatched headers yield Default.
func Negotiate(acceptLanguage string) Language {
	if strings.TrimSpace(acceptLanguage) == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return Supported()[idx]
}
