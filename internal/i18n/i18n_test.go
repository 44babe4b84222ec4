package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lafiorentina/siteweb/internal/i18n"
)

func TestBuiltinCatalog_Parity(t *testing.T) {
	c, err := i18n.Load()
	require.NoError(t, err)

	assert.Empty(t, c.Missing())
	assert.Equal(t, c.Keys(i18n.PT), c.Keys(i18n.EN))
	assert.Contains(t, c.Keys(i18n.PT), "nav.home")
}

func TestCatalog_T(t *testing.T) {
	c := i18n.Builtin()

	assert.Equal(t, "Início", c.T(i18n.PT, "nav.home"))
	assert.Equal(t, "Home", c.T(i18n.EN, "nav.home"))
	assert.Equal(t, "Restaurante Italiano em Lisboa", c.T(i18n.PT, "hero.subtitle"))

	// unknown keys come back unchanged, never blank
	assert.Equal(t, "does.not.exist", c.T(i18n.PT, "does.not.exist"))
	assert.Equal(t, "does.not.exist", c.T(i18n.EN, "does.not.exist"))
	assert.Equal(t, "nav.home", c.T(i18n.Language("fr"), "nav.home"))
}

func TestNewCatalog_RejectsParityViolation(t *testing.T) {
	_, err := i18n.NewCatalog(map[i18n.Language]i18n.Dictionary{
		i18n.PT: {"a": "um", "b": "dois"},
		i18n.EN: {"a": "one"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "en lacks b")

	_, err = i18n.NewCatalog(map[i18n.Language]i18n.Dictionary{i18n.PT: {"a": "um"}})
	require.Error(t, err)
}

func TestNewCatalog_CopiesInput(t *testing.T) {
	src := map[i18n.Language]i18n.Dictionary{
		i18n.PT: {"only": "só"},
		i18n.EN: {"only": "only-en"},
	}
	c, err := i18n.NewCatalog(src)
	require.NoError(t, err)

	// later mutation of the source must not leak into the catalog
	src[i18n.PT]["only"] = "mutated"
	assert.Equal(t, "só", c.T(i18n.PT, "only"))

	d := c.Dictionary(i18n.EN)
	d["only"] = "mutated"
	assert.Equal(t, "only-en", c.T(i18n.EN, "only"))
	assert.Nil(t, c.Dictionary(i18n.Language("de")))
}

func TestParse(t *testing.T) {
	l, err := i18n.Parse(" EN ")
	require.NoError(t, err)
	assert.Equal(t, i18n.EN, l)

	_, err = i18n.Parse("es")
	assert.Error(t, err)
}

func TestNegotiate(t *testing.T) {
	cases := map[string]i18n.Language{
		"":                    i18n.PT,
		"en-US,en;q=0.9":      i18n.EN,
		"pt-BR,pt;q=0.9":      i18n.PT,
		"fr-FR":               i18n.PT,
		"not a ;; header ===": i18n.PT,
	}
	for header, want := range cases {
		assert.Equal(t, want, i18n.Negotiate(header), "header %q", header)
	}
}

func TestSelector_ToggleRestoresText(t *testing.T) {
	sel := i18n.NewSelector(i18n.PT)
	tr := i18n.Translator{Catalog: i18n.Builtin(), Selector: sel}

	keys := []string{"nav.home", "hero.cta", "menu.title", "footer.rights", "missing.key"}
	before := make([]string, len(keys))
	for i, k := range keys {
		before[i] = tr.T(k)
	}

	require.NoError(t, sel.Set(i18n.EN))
	assert.Equal(t, "Home", tr.T("nav.home"))
	require.NoError(t, sel.Set(i18n.PT))

	for i, k := range keys {
		assert.Equal(t, before[i], tr.T(k))
	}
}

func TestSelector_RejectsUnsupported(t *testing.T) {
	sel := i18n.NewSelector(i18n.Language("xx"))
	assert.Equal(t, i18n.Default, sel.Language())

	assert.Error(t, sel.Set(i18n.Language("es")))
	assert.Equal(t, i18n.PT, sel.Language())
}

func TestProject(t *testing.T) {
	hours := []i18n.Text{{EN: "Mon-Fri 12-11pm", PT: "Seg-Sex 12h-23h"}}

	assert.Equal(t, []string{"Seg-Sex 12h-23h"}, i18n.Project(hours, i18n.PT))
	assert.Equal(t, []string{"Mon-Fri 12-11pm"}, i18n.Project(hours, i18n.EN))
	assert.Equal(t, []string{}, i18n.Project(nil, i18n.PT))

	two := []i18n.Text{{EN: "a", PT: "um"}, {EN: "b", PT: "dois"}}
	assert.Equal(t, []string{"um", "dois"}, i18n.Project(two, i18n.PT))
}
