// Package validation holds the form field rules shared by the login and
// song forms. Every validator returns an empty string when the value is
// acceptable and a human readable message otherwise.
package validation

import (
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MsgUsernameTooShort = "Usernames must be at least 3 characters long"
	MsgPasswordTooShort = "Passwords must be at least 6 characters long"
	MsgNameTooShort     = "That name is too short"
	MsgInfoTooShort     = "That info is too short"
)

var validate = validator.New()

// Username requires at least 3 characters.
func Username(username string) string {
	return check(username, "min=3", MsgUsernameTooShort)
}

// Password requires at least 6 characters.
func Password(password string) string {
	return check(password, "min=6", MsgPasswordTooShort)
}

// Name covers song titles, artist names and genre names.
func Name(name string) string {
	return check(name, "min=3", MsgNameTooShort)
}

// Info is optional but must be at least 10 characters when present.
func Info(info string) string {
	return check(info, "omitempty,min=10", MsgInfoTooShort)
}

func check(value, rule, message string) string {
	if err := validate.Var(value, rule); err != nil {
		return message
	}
	return ""
}

// Errors maps a form field to the message explaining why it was rejected.
type Errors map[string]string

// Add records message for field unless message is empty.
func (e Errors) Add(field, message string) {
	if message != "" {
		e[field] = message
	}
}

// Any reports whether at least one field failed.
func (e Errors) Any() bool {
	return len(e) > 0
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}

// Credentials validates the login form fields independently.
func Credentials(username, password string) Errors {
	errs := Errors{}
	errs.Add("username", Username(username))
	errs.Add("password", Password(password))
	return errs
}

// Song validates the new song form fields independently.
func Song(title, info, artist, genre string) Errors {
	errs := Errors{}
	errs.Add("title", Name(title))
	errs.Add("info", Info(info))
	errs.Add("artist", Name(artist))
	errs.Add("genre", Name(genre))
	return errs
}
