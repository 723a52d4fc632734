package oauth

import (
	"embed"
	"html/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(
	template.New("pages").Funcs(sprig.FuncMap()).ParseFS(templateFS, "templates/*.html"),
)

type homePage struct {
	Authenticated bool
	AuthURL       string
	Port          int
	RedirectURI   string
	Scopes        []string
}

type errorPage struct {
	Message string
	Detail  string
}
