// Package view holds the HTML templates rendered by the controllers.
package view

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var files embed.FS

// Funcs are available to every template.
var Funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return d.StringFixed(2)
	},
	"productPath": func(id uint) string {
		return fmt.Sprintf("/product/%d/", id)
	},
}

// Templates parses the embedded templates. Pages are addressed by file
// name, e.g. "cart.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(files, "templates/*.html")
}
