package i18n

// Text is a value stored in the content store once per language.
type Text struct {
	EN string `json:"en"`
	PT string `json:"pt"`
}

// In returns the Portuguese value for PT and the English value otherwise.
func (t Text) In(lang Language) string {
	if lang == PT {
		return t.PT
	}
	return t.EN
}

// Project flattens entries to lang, keeping their order. Empty input yields an empty, non-nil slice.
func Project(entries []Text, lang Language) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.In(lang))
	}
	return out
}
