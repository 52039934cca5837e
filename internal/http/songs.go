package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"music-genre-app/internal/feed"
	"music-genre-app/internal/service"
	"music-genre-app/internal/validation"
)

func (h *Handler) randomSong(c *gin.Context) {
	song, err := h.songs.Random(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderSongs(c, http.StatusOK, songsPage{Song: song, Intro: "songs.randomIntro"})
}

func (h *Handler) songDetail(c *gin.Context) {
	rc := requestContextFrom(c)
	song, err := h.songs.Get(c.Request.Context(), c.Param("songId"), rc.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderSongs(c, http.StatusOK, songsPage{Song: song, Intro: "songs.yours"})
}

func (h *Handler) newSongPage(c *gin.Context) {
	if !requestContextFrom(c).LoggedIn() {
		h.renderSongs(c, http.StatusUnauthorized, songsPage{LoginRequired: true})
		return
	}
	h.renderSongs(c, http.StatusOK, songsPage{Form: &songForm{}})
}

func (h *Handler) createSong(c *gin.Context) {
	rc := requestContextFrom(c)
	if !rc.LoggedIn() {
		h.renderSongs(c, http.StatusUnauthorized, songsPage{LoginRequired: true})
		return
	}

	input := service.NewSong{
		Title:  c.PostForm("title"),
		Info:   c.PostForm("info"),
		Artist: c.PostForm("artist"),
		Genre:  c.PostForm("genre"),
	}
	if errs := validation.Song(input.Title, input.Info, input.Artist, input.Genre); errs.Any() {
		h.renderSongs(c, http.StatusBadRequest, songsPage{Form: &songForm{Fields: input, Errors: errs}})
		return
	}

	song, err := h.songs.Create(c.Request.Context(), rc.UserID, input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/songs/"+song.ID)
}

func (h *Handler) deleteSong(c *gin.Context) {
	if c.PostForm("_method") != "delete" {
		h.fail(c, errUnsupportedMethod)
		return
	}
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	if err := h.songs.Delete(c.Request.Context(), c.Param("songId"), userID); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/songs")
}

func (h *Handler) rssFeed(c *gin.Context) {
	base, err := feed.Domain(c.GetHeader("X-Forwarded-Host"), c.Request.Host)
	if err != nil {
		h.fail(c, err)
		return
	}
	items, err := h.songs.Feed(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	doc := []byte(feed.Render(base, items))
	c.Header("Cache-Control", feed.CacheControl)
	c.Header("Content-Length", strconv.Itoa(len(doc)))
	c.Data(http.StatusOK, feed.ContentType, doc)
}
