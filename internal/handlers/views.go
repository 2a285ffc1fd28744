package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/otcheredev/lims-admin-console/internal/crud"
	"github.com/otcheredev/lims-admin-console/internal/identity"
	"github.com/otcheredev/lims-admin-console/internal/screens"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFS embed.FS

const htmlContentType = "text/html; charset=utf-8"

// Views holds the parsed page templates, each a clone of the base layout
type Views struct {
	login     *template.Template
	dashboard *template.Template
	screen    *template.Template
}

// LoadViews parses the embedded templates
func LoadViews() (*Views, error) {
	base, err := template.ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base template: %w", err)
	}

	page := func(name string) (*template.Template, error) {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		return t, nil
	}

	v := &Views{}
	if v.login, err = page("login.html"); err != nil {
		return nil, err
	}
	if v.dashboard, err = page("dashboard.html"); err != nil {
		return nil, err
	}
	if v.screen, err = page("screen.html"); err != nil {
		return nil, err
	}
	return v, nil
}

// MustLoadViews panics when the embedded templates are broken
func MustLoadViews() *Views {
	v, err := LoadViews()
	if err != nil {
		panic(err)
	}
	return v
}

type loginPage struct {
	User  *identity.Context
	Email string
	Error string
}

type dashboardPage struct {
	User    *identity.Context
	Screens []screens.Definition
}

type screenPage struct {
	User *identity.Context
	View crud.View
	Edit *crud.Row
}

type executor interface {
	Execute(io.Writer, any) error
}

func templateResponse(w http.ResponseWriter, code int, tmpl executor, data any) {
	w.Header().Set("Content-Type", htmlContentType)
	w.WriteHeader(code)
	if err := tmpl.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("Failed to render template")
	}
}
