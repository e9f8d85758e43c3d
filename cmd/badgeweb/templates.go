package main

import (
	"fmt"
	"html/template"

	webassets "github.com/johnqtcg/downloads-badge/web"
)

type indexData struct {
	Colors []string
}

func loadTemplate() (*template.Template, error) {
	tmpl, err := template.ParseFS(webassets.FS, "templates/index.html")
	if err == nil {
		return tmpl, nil
	}

	fallback, fallbackErr := template.New("index").Parse(defaultIndexTemplate)
	if fallbackErr != nil {
		return nil, fmt.Errorf("parse embedded template: %w", err)
	}
	return fallback, nil
}

const defaultIndexTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>GitHub Downloads Badge</title>
</head>
<body>
  <main>
    <h1>GitHub Downloads Badge</h1>
    <p>Use <code>/{owner}/{repo}</code> or <code>/{owner}/{repo}/{tag}</code> as an image URL.</p>
    <p>Query parameters: <code>color</code>, <code>label</code>, <code>style</code>.</p>
    <p>Colors: {{ range $i, $c := .Colors }}{{ if $i }}, {{ end }}<code>{{ $c }}</code>{{ end }}</p>
    <img src="/example.svg" alt="Preview Badge">
  </main>
</body>
</html>`
