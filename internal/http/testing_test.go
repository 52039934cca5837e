package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"music-genre-app/internal/i18n"
	"music-genre-app/internal/repository"
	"music-genre-app/internal/repository/sqlite"
	"music-genre-app/internal/service"
	"music-genre-app/internal/session"
)

type testServer struct {
	router   *gin.Engine
	sessions *session.Manager
	users    repository.UserRepository
	catalog  repository.CatalogRepository
}

func newTestServer(t *testing.T, configure ...func(*Options)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	userRepo := sqlite.NewUserRepository(db)
	songRepo := sqlite.NewSongRepository(db)
	require.NoError(t, sqlite.InitAll(context.Background(), userRepo, songRepo))

	resolver, err := i18n.NewResolver([]string{"en", "es"}, "en", "locale")
	require.NoError(t, err)
	catalog, err := i18n.DefaultCatalog("en")
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	sessions := session.NewManager(session.Options{Secret: []byte("test-secret")})
	opts := Options{
		Users:       service.NewUserService(userRepo, bcrypt.MinCost),
		Songs:       service.NewSongService(songRepo),
		Sessions:    sessions,
		Locales:     resolver,
		Catalog:     catalog,
		ThemeCookie: "theme",
		Logger:      logger,
	}
	for _, fn := range configure {
		fn(&opts)
	}

	router := gin.New()
	NewHandler(opts).RegisterRoutes(router)

	return &testServer{
		router:   router,
		sessions: sessions,
		users:    userRepo,
		catalog:  sqlite.NewCatalogRepository(db),
	}
}

func (s *testServer) get(target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) post(target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// register signs up username and returns the session cookie it was given.
func (s *testServer) register(t *testing.T, username string) *http.Cookie {
	t.Helper()
	rec := s.post("/login", url.Values{
		"loginType": {"register"},
		"username":  {username},
		"password":  {"secret1"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookie := findCookie(rec, "mga_session")
	require.NotNil(t, cookie)
	return cookie
}

// createSong submits the new song form and returns the new song id.
func (s *testServer) createSong(t *testing.T, cookie *http.Cookie, title, artist string) string {
	t.Helper()
	rec := s.post("/songs/new", url.Values{
		"title":  {title},
		"info":   {""},
		"artist": {artist},
		"genre":  {"Pop music"},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/songs/"), location)
	return strings.TrimPrefix(location, "/songs/")
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
