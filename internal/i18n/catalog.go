package i18n

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed translations/*.toml
var translationFiles embed.FS

// Dictionary maps translation keys to localized text for one language.
type Dictionary map[string]string

// Catalog holds one Dictionary per supported language. It is immutable once built.
type Catalog struct {
	dicts map[Language]Dictionary
}

// NewCatalog copies dicts into a Catalog and rejects key sets that differ between languages.
func NewCatalog(dicts map[Language]Dictionary) (*Catalog, error) {
	c := &Catalog{dicts: make(map[Language]Dictionary, len(dicts))}
	for _, lang := range Supported() {
		d, ok := dicts[lang]
		if !ok {
			return nil, fmt.Errorf("i18n: no dictionary for %s", lang)
		}
		cp := make(Dictionary, len(d))
		for k, v := range d {
			cp[k] = v
		}
		c.dicts[lang] = cp
	}
	if missing := c.Missing(); len(missing) > 0 {
		var parts []string
		for _, lang := range Supported() {
			if keys := missing[lang]; len(keys) > 0 {
				parts = append(parts, fmt.Sprintf("%s lacks %s", lang, strings.Join(keys, ",")))
			}
		}
		return nil, fmt.Errorf("i18n: dictionaries out of parity: %s", strings.Join(parts, "; "))
	}
	return c, nil
}

// Load decodes the embedded translations/<lang>.toml files.
func Load() (*Catalog, error) {
	dicts := make(map[Language]Dictionary, 2)
	for _, lang := range Supported() {
		name := "translations/" + lang.String() + ".toml"
		raw, err := translationFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", name, err)
		}
		var d Dictionary
		if _, err := toml.Decode(string(raw), &d); err != nil {
			return nil, fmt.Errorf("i18n: decode %s: %w", name, err)
		}
		dicts[lang] = d
	}
	return NewCatalog(dicts)
}

var (
	builtinOnce sync.Once
	builtin     *Catalog
)

// Builtin returns the catalog built from the embedded dictionaries.
// It panics if they fail to load, which only a broken build can cause.
func Builtin() *Catalog {
	builtinOnce.Do(func() {
		c, err := Load()
		if err != nil {
			panic(err)
		}
		builtin = c
	})
	return builtin
}

// T resolves key for lang. Unknown keys resolve to the key itself.
func (c *Catalog) T(lang Language, key string) string {
	if v, ok := c.dicts[lang][key]; ok {
		return v
	}
	return key
}

// Keys returns the sorted keys of lang's dictionary.
func (c *Catalog) Keys(lang Language) []string {
	d := c.dicts[lang]
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dictionary returns a copy of lang's dictionary, or nil for an unsupported language.
func (c *Catalog) Dictionary(lang Language) Dictionary {
	d, ok := c.dicts[lang]
	if !ok {
		return nil
	}
	cp := make(Dictionary, len(d))
	for k, v := range d {
		cp[k] = v
	}
	return cp
}

// Missing lists, per language, the keys other languages define but it does not.
func (c *Catalog) Missing() map[Language][]string {
	all := map[string]struct{}{}
	for _, d := range c.dicts {
		for k := range d {
			all[k] = struct{}{}
		}
	}
	out := map[Language][]string{}
	for lang, d := range c.dicts {
		for k := range all {
			if _, ok := d[k]; !ok {
				out[lang] = append(out[lang], k)
			}
		}
		sort.Strings(out[lang])
		if len(out[lang]) == 0 {
			delete(out, lang)
		}
	}
	return out
}
