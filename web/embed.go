package web

import "embed"

// TemplateFS holds the layout and the page templates under charts/.
//
//go:embed templates/*.html templates/charts/*.html
var TemplateFS embed.FS
