package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"domq/config"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	Title      string
	Language   string
	Format     string
	Kind       string
	SourceFile string
	SourceDir  string
	Selector   string
	Matches    int
}

func expandTemplate(d *Document, p *pipeline, name config.TemplateFieldName, field string) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		Title:      d.Title,
		Language:   d.Lang,
		Format:     p.format.String(),
		Kind:       d.Kind.String(),
		SourceFile: strings.TrimSuffix(filepath.Base(d.SrcName), filepath.Ext(d.SrcName)),
		SourceDir:  filepath.ToSlash(filepath.Dir(d.SrcName)),
		Selector:   p.selector,
		Matches:    d.Content().Length(),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
