package http

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"music-genre-app/internal/domain"
	"music-genre-app/internal/i18n"
	"music-genre-app/internal/repository"
	"music-genre-app/internal/service"
	"music-genre-app/internal/session"
	"music-genre-app/internal/validation"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var errUnsupportedMethod = errors.New("unsupported _method")

func parseTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))
}

// page is the data shared by every rendered document.
type page struct {
	Ctx     RequestContext
	L       i18n.Localizer
	User    *domain.User
	Path    string
	Locales []string
	Message string
}

type songsPage struct {
	page
	Songs []domain.SongSummary
	Song  *service.SongDetail
	// Intro is the message key shown above Song.
	Intro         string
	Form          *songForm
	LoginRequired bool
}

type songForm struct {
	Fields service.NewSong
	Errors validation.Errors
}

type loginPage struct {
	page
	RedirectTo  string
	LoginType   string
	Username    string
	FieldErrors validation.Errors
	FormError   string
}

func (h *Handler) basePage(c *gin.Context) page {
	rc := requestContextFrom(c)
	return page{
		Ctx:     rc,
		L:       h.catalog.Localizer(rc.Locale, "common", "index", "songs"),
		Path:    c.Request.URL.RequestURI(),
		Locales: h.locales.Supported(),
	}
}

// currentUser loads the logged in user; a session for a deleted user counts as anonymous.
func (h *Handler) currentUser(c *gin.Context) (*domain.User, error) {
	rc := requestContextFrom(c)
	if !rc.LoggedIn() {
		return nil, nil
	}
	user, err := h.users.GetByID(c.Request.Context(), rc.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// renderSongs fills in the song list and current user shared by every /songs page.
func (h *Handler) renderSongs(c *gin.Context, status int, p songsPage) {
	ctx := c.Request.Context()
	songs, err := h.songs.ListRecent(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	user, err := h.currentUser(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	p.page = h.basePage(c)
	p.User = user
	p.Songs = songs
	c.HTML(status, "songs", p)
}

func (h *Handler) renderError(c *gin.Context, status int, messageKey string) {
	p := h.basePage(c)
	p.Message = p.L.T(messageKey)
	c.HTML(status, "error", p)
}

// fail maps an error to its response. Anything unclassified is logged and
// answered with the generic page.
func (h *Handler) fail(c *gin.Context, err error) {
	var loginErr *session.LoginRequiredError
	switch {
	case errors.As(err, &loginErr):
		c.Redirect(http.StatusSeeOther, loginErr.LoginURL)
	case errors.Is(err, service.ErrSongNotFound):
		h.renderError(c, http.StatusNotFound, "error.missing")
	case errors.Is(err, service.ErrNoSongs):
		h.renderError(c, http.StatusNotFound, "songs.empty")
	case errors.Is(err, service.ErrNotOwner):
		h.renderError(c, http.StatusUnauthorized, "error.notOwner")
	case errors.Is(err, errUnsupportedMethod):
		h.renderError(c, http.StatusBadRequest, "error.unsupported")
	default:
		h.logger.WithField("path", c.Request.URL.Path).Errorf("unexpected error: %v", err)
		h.renderError(c, http.StatusInternalServerError, "error.generic")
	}
}

func (h *Handler) index(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	p := h.basePage(c)
	p.User = user
	c.HTML(http.StatusOK, "index", p)
}
