package transport

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateRenderer serves the embedded HTML views through echo's
// Renderer interface. Templates are addressed by file name.
type TemplateRenderer struct {
	templates *template.Template
}

func NewTemplateRenderer() *TemplateRenderer {
	t := template.Must(template.New("").Funcs(template.FuncMap{
		"pageRange": pageRange,
	}).ParseFS(templateFS, "templates/*.html"))
	return &TemplateRenderer{templates: t}
}

func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

func pageRange(n int) []int {
	pages := make([]int, n)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
