package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/jrsteele09/go-route-finder/api"
	"github.com/jrsteele09/go-route-finder/history"
	"github.com/jrsteele09/go-route-finder/internal/logging"
)

//go:embed templates/*
var templateFiles embed.FS

const layoutTemplate = "layout.html"

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

var templateFuncs = template.FuncMap{
	"duration": func(d time.Duration) string {
		return d.Round(time.Second).String()
	},
	"date": func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.Format("2 Jan 2006 15:04")
	},
	"timestamp": func(t time.Time) string {
		return t.Format("2 Jan 15:04")
	},
}

// ParseTemplate parses a page together with the shared layout from the embedded filesystem
func ParseTemplate(name string) (*template.Template, error) {
	return template.New(name).Funcs(templateFuncs).ParseFS(TemplateFilesFS(), layoutTemplate, name)
}

type pages struct {
	login          *template.Template
	register       *template.Template
	forgotPassword *template.Template
	resetPassword  *template.Template
	recovery       *template.Template
	dashboard      *template.Template
	search         *template.Template
}

func parsePages() (*pages, error) {
	p := &pages{}
	for name, dst := range map[string]**template.Template{
		"login.html":           &p.login,
		"register.html":        &p.register,
		"forgot_password.html": &p.forgotPassword,
		"reset_password.html":  &p.resetPassword,
		"recovery.html":        &p.recovery,
		"dashboard.html":       &p.dashboard,
		"search.html":          &p.search,
	} {
		tmpl, err := ParseTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		*dst = tmpl
	}
	return p, nil
}

type searchSettings struct {
	MinChars   int
	DebounceMs int64
}

// PageData is the template model shared by every page
type PageData struct {
	AppName       string
	LoggedIn      bool
	Error         string
	Message       string
	LoginRequired bool

	// Form values echoed back after a failed submission
	Email string
	UID   string
	Token string

	User           *api.User
	TokenExpiresIn time.Duration
	TOTPSetup      *api.TOTPSetup
	RecoveryCodes  []string
	History        []history.Entry

	Search searchSettings
}

// pageData fills the fields every page takes from the request.
func (s *Server) pageData(r *http.Request) PageData {
	query := r.URL.Query()
	return PageData{
		AppName:       s.config.GetAppName(),
		Error:         query.Get("error"),
		Message:       query.Get("message"),
		LoginRequired: query.Get("showLoginRequired") == "true",
		Email:         query.Get("email"),
		UID:           query.Get("uid"),
		Token:         query.Get("token"),
	}
}

func render(w http.ResponseWriter, r *http.Request, tmpl *template.Template, data PageData) {
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := tmpl.Execute(w, data); err != nil {
		logging.FromContext(r.Context()).Err(err).Str("template", tmpl.Name()).Msg("Failed to render template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// PageHandler renders a page that needs nothing beyond the request
func (s *Server) PageHandler(tmpl *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := s.pageData(r)
		if id := sessionIDFromRequest(r); id != "" {
			data.LoggedIn = s.browserSessionFor(id, r).loggedIn()
		}
		render(w, r, tmpl, data)
	}
}
