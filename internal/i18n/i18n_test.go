package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver([]string{"en", "es"}, "en", "locale")
	require.NoError(t, err)
	return r
}

func TestResolvePrecedence(t *testing.T) {
	r := newTestResolver(t)

	t.Run("default", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		res := r.Resolve(req)
		assert.Equal(t, "en", res.Locale)
		assert.Nil(t, res.Persist)
	})

	t.Run("cookie beats default", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "locale", Value: "es"})
		assert.Equal(t, "es", r.Resolve(req).Locale)
	})

	t.Run("query beats cookie and persists", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?lng=en", nil)
		req.AddCookie(&http.Cookie{Name: "locale", Value: "es"})
		res := r.Resolve(req)
		assert.Equal(t, "en", res.Locale)
		require.NotNil(t, res.Persist)
		assert.Equal(t, "locale", res.Persist.Name)
		assert.Equal(t, "en", res.Persist.Value)
	})

	t.Run("query equal to cookie is not persisted again", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?lng=es", nil)
		req.AddCookie(&http.Cookie{Name: "locale", Value: "es"})
		res := r.Resolve(req)
		assert.Equal(t, "es", res.Locale)
		assert.Nil(t, res.Persist)
	})

	t.Run("unsupported query is ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?lng=fr", nil)
		res := r.Resolve(req)
		assert.Equal(t, "en", res.Locale)
		assert.Nil(t, res.Persist)
	})

	t.Run("accept language", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "es-MX,es;q=0.9,en;q=0.5")
		assert.Equal(t, "es", r.Resolve(req).Locale)
	})
}

func TestLocaleSurvivesReloadWithoutQuery(t *testing.T) {
	r := newTestResolver(t)

	first := r.Resolve(httptest.NewRequest(http.MethodGet, "/songs?lng=es", nil))
	require.NotNil(t, first.Persist)

	reload := httptest.NewRequest(http.MethodGet, "/songs", nil)
	reload.AddCookie(first.Persist)
	assert.Equal(t, "es", r.Resolve(reload).Locale)
}

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog("en")
	require.NoError(t, err)

	es := c.Translate("es", "common")
	assert.Equal(t, "Inicio", es["nav.home"])

	en := c.Localizer("en", "common", "songs")
	assert.Equal(t, "Home", en.T("nav.home"))
	assert.Equal(t, "Delete", en.T("songs.delete"))
	assert.Equal(t, "missing.key", en.T("missing.key"))
}

func TestTranslateFallsBackToDefault(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en/common.en.json": {Data: []byte(`{"a":"A","b":"B"}`)},
		"locales/es/common.es.json": {Data: []byte(`{"a":"Á"}`)},
	}
	c, err := LoadCatalog(fsys, "en")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"a": "Á", "b": "B"}, c.Translate("es", "common"))
	assert.Equal(t, map[string]string{"a": "A", "b": "B"}, c.Translate("de", "common"))
}

func TestLoadCatalogRequiresDefault(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/es/common.es.json": {Data: []byte(`{"a":"Á"}`)},
	}
	_, err := LoadCatalog(fsys, "en")
	assert.Error(t, err)
}

func TestTranslateKeepsNamespacesApart(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en/common.en.json": {Data: []byte(`{"nav.home":"Home"}`)},
		"locales/en/songs.en.json":  {Data: []byte(`{"songs.add":"Add"}`)},
		"locales/es/songs.es.json":  {Data: []byte(`{"songs.add":"Agregar"}`)},
	}
	c, err := LoadCatalog(fsys, "en")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"songs.add": "Agregar"}, c.Translate("es", "songs"))
	assert.Equal(t, map[string]string{"nav.home": "Home"}, c.Translate("es", "common"))

	l := c.Localizer("es", "common")
	assert.Equal(t, "songs.add", l.T("songs.add"))
}
