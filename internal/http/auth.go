package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"music-genre-app/internal/domain"
	"music-genre-app/internal/service"
	"music-genre-app/internal/session"
	"music-genre-app/internal/validation"
)

const (
	msgFormNotSubmitted = "Form not submitted correctly."
	msgBadCombination   = "Username/Password combination is incorrect"
	msgLoginTypeInvalid = "Login type invalid"
)

func (h *Handler) loginPage(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	p := loginPage{
		page:       h.basePage(c),
		RedirectTo: c.Query("redirectTo"),
		LoginType:  "login",
	}
	p.User = user
	c.HTML(http.StatusOK, "login", p)
}

func (h *Handler) login(c *gin.Context) {
	loginType, hasType := c.GetPostForm("loginType")
	username, hasUsername := c.GetPostForm("username")
	password, hasPassword := c.GetPostForm("password")

	p := loginPage{
		page:       h.basePage(c),
		RedirectTo: c.PostForm("redirectTo"),
		LoginType:  loginType,
		Username:   username,
	}
	badRequest := func() {
		c.HTML(http.StatusBadRequest, "login", p)
	}

	if !hasType || !hasUsername || !hasPassword {
		p.FormError = msgFormNotSubmitted
		badRequest()
		return
	}
	if errs := validation.Credentials(username, password); errs.Any() {
		p.FieldErrors = errs
		badRequest()
		return
	}

	ctx := c.Request.Context()
	var (
		user *domain.User
		err  error
	)
	switch loginType {
	case "login":
		user, err = h.users.Authenticate(ctx, username, password)
		if errors.Is(err, service.ErrInvalidCredentials) {
			p.FormError = msgBadCombination
			badRequest()
			return
		}
	case "register":
		user, err = h.users.Register(ctx, username, password)
		if errors.Is(err, service.ErrUserAlreadyExists) {
			p.FormError = fmt.Sprintf("User with username %s already exists", username)
			badRequest()
			return
		}
	default:
		p.FormError = msgLoginTypeInvalid
		badRequest()
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.sessions.Issue(c.Writer, user.ID); err != nil {
		h.fail(c, err)
		return
	}
	h.logger.WithField("user", user.Username).Infof("%s succeeded", loginType)
	c.Redirect(http.StatusSeeOther, session.SafeRedirect(p.RedirectTo))
}

func (h *Handler) logout(c *gin.Context) {
	h.sessions.Destroy(c.Writer)
	c.Redirect(http.StatusSeeOther, "/")
}

// requireUser answers with a redirect to the login page when the caller is anonymous.
func (h *Handler) requireUser(c *gin.Context) (string, bool) {
	userID, err := h.sessions.Require(c.Request)
	if err != nil {
		h.fail(c, err)
		return "", false
	}
	return userID, true
}
