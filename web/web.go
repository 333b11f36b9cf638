// Package web хранит HTML-шаблоны сайта и админки.
package web

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates собирает все шаблоны в один набор: страницы ссылаются на
// общие блоки из layout.html. Если glob задан, шаблоны читаются с диска
// (удобно при разработке), иначе из бинарника.
func Templates(funcs template.FuncMap, glob string) (*template.Template, error) {
	t := template.New("").Funcs(funcs)

	var err error
	if glob != "" {
		t, err = t.ParseGlob(glob)
	} else {
		t, err = t.ParseFS(files, "templates/*.html")
	}
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}
	return t, nil
}
