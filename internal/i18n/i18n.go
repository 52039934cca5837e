// Package i18n negotiates the display language of a request and serves the
// translation catalogs bundled with the binary.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales
var bundled embed.FS

// QueryParam is the query parameter that switches the locale.
const QueryParam = "lng"

const localeCookieTTL = 365 * 24 * time.Hour

// Catalog is a message bundle whose files are grouped into namespaces.
// Files are named locales/<code>/<namespace>.<code>.json.
type Catalog struct {
	bundle        *goi18n.Bundle
	defaultLocale string
	// namespaces lists the message ids declared by each namespace across locales.
	namespaces map[string][]string
}

// LoadCatalog loads every JSON message file under locales/ in fsys.
func LoadCatalog(fsys fs.FS, defaultLocale string) (*Catalog, error) {
	defaultTag, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("parse default locale %q: %w", defaultLocale, err)
	}

	bundle := goi18n.NewBundle(defaultTag)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	c := &Catalog{
		bundle:        bundle,
		defaultLocale: defaultLocale,
		namespaces:    map[string][]string{},
	}
	seen := map[string]map[string]bool{}
	hasDefault := false

	err = fs.WalkDir(fsys, "locales", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || path.Ext(p) != ".json" {
			return nil
		}
		file, err := bundle.LoadMessageFileFS(fsys, p)
		if err != nil {
			return fmt.Errorf("load catalog %s: %w", p, err)
		}
		if file.Tag.String() == defaultTag.String() {
			hasDefault = true
		}

		ns, _, _ := strings.Cut(path.Base(p), ".")
		if seen[ns] == nil {
			seen[ns] = map[string]bool{}
		}
		for _, msg := range file.Messages {
			if !seen[ns][msg.ID] {
				seen[ns][msg.ID] = true
				c.namespaces[ns] = append(c.namespaces[ns], msg.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !hasDefault {
		return nil, fmt.Errorf("no catalog for default locale %q", defaultLocale)
	}
	return c, nil
}

// DefaultCatalog loads the catalogs embedded in the binary.
func DefaultCatalog(defaultLocale string) (*Catalog, error) {
	return LoadCatalog(bundled, defaultLocale)
}

// Translate returns the messages of namespace ns for code, filling gaps
// from the default locale.
func (c *Catalog) Translate(code, ns string) map[string]string {
	loc := goi18n.NewLocalizer(c.bundle, code, c.defaultLocale)
	out := make(map[string]string, len(c.namespaces[ns]))
	for _, id := range c.namespaces[ns] {
		msg, err := loc.Localize(&goi18n.LocalizeConfig{MessageID: id})
		if err != nil {
			continue
		}
		out[id] = msg
	}
	return out
}

// Localizer merges the given namespaces for code.
func (c *Catalog) Localizer(code string, namespaces ...string) Localizer {
	merged := map[string]string{}
	for _, ns := range namespaces {
		for k, v := range c.Translate(code, ns) {
			merged[k] = v
		}
	}
	return Localizer{Locale: code, messages: merged}
}

// Localizer looks up messages for a single locale.
type Localizer struct {
	Locale   string
	messages map[string]string
}

// T returns the message for key, or key itself when untranslated.
func (l Localizer) T(key string) string {
	if msg, ok := l.messages[key]; ok {
		return msg
	}
	return key
}

// Resolution is the outcome of locale negotiation for one request.
type Resolution struct {
	Locale string
	// Persist is non-nil when the locale came from the query parameter and
	// differs from the stored cookie.
	Persist *http.Cookie
}

// Resolver picks a supported locale per request.
type Resolver struct {
	codes         []string
	matcher       language.Matcher
	defaultLocale string
	cookieName    string
}

// NewResolver builds a resolver; defaultLocale must be one of supported.
func NewResolver(supported []string, defaultLocale, cookieName string) (*Resolver, error) {
	codes := []string{defaultLocale}
	for _, code := range supported {
		code = strings.ToLower(strings.TrimSpace(code))
		if code != "" && code != defaultLocale {
			codes = append(codes, code)
		}
	}

	tags := make([]language.Tag, 0, len(codes))
	for _, code := range codes {
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("parse locale %q: %w", code, err)
		}
		tags = append(tags, tag)
	}
	if cookieName == "" {
		cookieName = "locale"
	}

	return &Resolver{
		codes:         codes,
		matcher:       language.NewMatcher(tags),
		defaultLocale: defaultLocale,
		cookieName:    cookieName,
	}, nil
}

// Supported lists the locale codes, default first.
func (r *Resolver) Supported() []string {
	return append([]string(nil), r.codes...)
}

func (r *Resolver) supported(code string) (string, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, c := range r.codes {
		if c == code {
			return c, true
		}
	}
	return "", false
}

// Resolve applies query parameter, then cookie, then Accept-Language, then
// the default locale.
func (r *Resolver) Resolve(req *http.Request) Resolution {
	stored := ""
	if cookie, err := req.Cookie(r.cookieName); err == nil {
		stored = cookie.Value
	}

	if code, ok := r.supported(req.URL.Query().Get(QueryParam)); ok {
		res := Resolution{Locale: code}
		if code != stored {
			res.Persist = &http.Cookie{
				Name:     r.cookieName,
				Value:    code,
				Path:     "/",
				MaxAge:   int(localeCookieTTL.Seconds()),
				SameSite: http.SameSiteLaxMode,
			}
		}
		return res
	}

	if code, ok := r.supported(stored); ok {
		return Resolution{Locale: code}
	}

	if header := req.Header.Get("Accept-Language"); header != "" {
		tags, _, err := language.ParseAcceptLanguage(header)
		if err == nil && len(tags) > 0 {
			_, idx, confidence := r.matcher.Match(tags...)
			if confidence != language.No {
				return Resolution{Locale: r.codes[idx]}
			}
		}
	}

	return Resolution{Locale: r.defaultLocale}
}
