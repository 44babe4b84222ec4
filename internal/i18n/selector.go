package i18n

import "sync"

// Selector is the language state of one page session.
// Readers must call Language on every render; there is no change notification.
type Selector struct {
	mu   sync.RWMutex
	lang Language
}

// NewSelector starts at initial, or Default when initial is not supported.
func NewSelector(initial Language) *Selector {
	if !initial.Valid() {
		initial = Default
	}
	return &Selector{lang: initial}
}

func (s *Selector) Language() Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// Set switches the session language. Unsupported values leave it unchanged.
func (s *Selector) Set(lang Language) error {
	lang, err := Parse(string(lang))
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.lang = lang
	s.mu.Unlock()
	return nil
}

// Translator resolves keys in whatever language its selector currently holds.
type Translator struct {
	Catalog  *Catalog
	Selector *Selector
}

func (t Translator) T(key string) string {
	return t.Catalog.T(t.Selector.Language(), key)
}

func (t Translator) Language() Language { return t.Selector.Language() }
