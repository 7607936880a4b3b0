package render

import (
	"html/template"
	"strings"
)

// BuildFuncMap creates the template FuncMap.
func BuildFuncMap(indentUnit string) template.FuncMap {
	if indentUnit == "" {
		indentUnit = "  "
	}
	return template.FuncMap{
		"indent": func(depth int) template.HTML {
			return template.HTML(strings.Repeat(indentUnit, depth))
		},
	}
}
