// Package render turns catalog and feed records into HTML through embedded templates.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
)

// Template names.
const (
	IndexTemplate        = "index.html"
	PromoPageTemplate    = "promo_page"
	PromoPopupTemplate   = "promo_popup"
	ProductPopupTemplate = "product_popup"
)

var (
	//go:embed templates/*.html
	templatesFS embed.FS

	//go:embed static
	staticFS embed.FS
)

// Static serves the embedded stylesheet and scripts.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	return http.FS(sub)
}

// Renderer executes the embedded templates.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	const opn = "render.New"

	tmpl, err := template.New("").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse templates: %w", opn, err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

// Template exposes the parsed set, e.g. for gin's SetHTMLTemplate.
func (r *Renderer) Template() *template.Template {
	return r.tmpl
}

// Execute renders one named template.
func (r *Renderer) Execute(w io.Writer, name string, data any) error {
	const opn = "render.Execute"

	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("%s: failed to execute %s: %w", opn, name, err)
	}

	return nil
}
