// Package session issues and verifies the signed cookie that identifies the
// logged in user. No session state is kept on the server.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultRedirect is where a user lands after logging in without an explicit target.
const DefaultRedirect = "/songs"

// ErrNoSession is returned by Require when the request carries no valid session.
var ErrNoSession = errors.New("no valid session")

// LoginRequiredError tells the caller where to send an anonymous user.
type LoginRequiredError struct {
	// LoginURL is the login page with the requested path preserved in redirectTo.
	LoginURL string
}

func (e *LoginRequiredError) Error() string {
	return "login required"
}

func (e *LoginRequiredError) Unwrap() error {
	return ErrNoSession
}

// Claims is the token payload; the subject carries the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// Options configures a Manager.
type Options struct {
	Secret     []byte
	CookieName string
	TTL        time.Duration
	Secure     bool
	Now        func() time.Time
}

// Manager signs and verifies session cookies.
type Manager struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
	now        func() time.Time
}

func NewManager(opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "mga_session"
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		secret:     opts.Secret,
		cookieName: opts.CookieName,
		ttl:        opts.TTL,
		secure:     opts.Secure,
		now:        opts.Now,
	}
}

// Issue sets a freshly signed session cookie for userID on w.
func (m *Manager) Issue(w http.ResponseWriter, userID string) error {
	if userID == "" {
		return errors.New("session user id is required")
	}
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		Expires:  now.Add(m.ttl),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Destroy expires the session cookie.
func (m *Manager) Destroy(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// UserID returns the user id carried by the session cookie of r. A missing,
// malformed, expired or forged cookie yields ok == false.
func (m *Manager) UserID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return m.Verify(cookie.Value)
}

// Verify checks a raw token and returns its subject.
func (m *Manager) Verify(raw string) (string, bool) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		raw,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

// Require returns the session user id, or a *LoginRequiredError pointing at
// the login page with the requested path preserved.
func (m *Manager) Require(r *http.Request) (string, error) {
	if userID, ok := m.UserID(r); ok {
		return userID, nil
	}
	return "", &LoginRequiredError{LoginURL: LoginURL(r.URL.RequestURI())}
}

// LoginURL builds the login page URL that returns to redirectTo afterwards.
func LoginURL(redirectTo string) string {
	return "/login?" + url.Values{"redirectTo": {redirectTo}}.Encode()
}

// SafeRedirect accepts only local absolute paths and falls back to
// DefaultRedirect for anything that could leave the site.
func SafeRedirect(target string) string {
	target = strings.TrimSpace(target)
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return DefaultRedirect
	}
	return target
}
