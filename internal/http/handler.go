package http

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"music-genre-app/internal/i18n"
	"music-genre-app/internal/service"
	"music-genre-app/internal/session"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users       service.UserService
	songs       service.SongService
	sessions    *session.Manager
	locales     *i18n.Resolver
	catalog     *i18n.Catalog
	themeCookie string
	loginLimit  *ipLimiter
	templates   *template.Template
	logger      *logrus.Logger
}

// Options carries the collaborators of a Handler.
type Options struct {
	Users       service.UserService
	Songs       service.SongService
	Sessions    *session.Manager
	Locales     *i18n.Resolver
	Catalog     *i18n.Catalog
	ThemeCookie string
	// LoginRate is the number of login attempts per minute allowed per client ip.
	LoginRate  float64
	LoginBurst int
	Logger     *logrus.Logger
}

func NewHandler(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	if opts.ThemeCookie == "" {
		opts.ThemeCookie = "theme"
	}
	return &Handler{
		users:       opts.Users,
		songs:       opts.Songs,
		sessions:    opts.Sessions,
		locales:     opts.Locales,
		catalog:     opts.Catalog,
		themeCookie: opts.ThemeCookie,
		loginLimit:  newIPLimiter(opts.LoginRate, opts.LoginBurst),
		templates:   parseTemplates(),
		logger:      opts.Logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(h.templates)
	router.Use(h.requestLogger(), h.recovery(), h.requestContext())

	router.GET("/", h.index)
	router.GET("/login", h.loginPage)
	router.POST("/login", h.loginThrottle(), h.login)
	router.POST("/logout", h.logout)
	router.POST("/action/set-theme", h.setTheme)

	router.GET("/songs", h.randomSong)
	router.GET("/songs.rss", h.rssFeed)
	router.GET("/songs/new", h.newSongPage)
	router.POST("/songs/new", h.createSong)
	router.GET("/songs/:songId", h.songDetail)
	router.POST("/songs/:songId", h.deleteSong)

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	router.NoRoute(func(c *gin.Context) {
		h.renderError(c, http.StatusNotFound, "error.missing")
	})
}
