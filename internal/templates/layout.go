// Package templates holds the HTML pages and htmx fragments of the web UI.
// Every page and fragment is exposed as a templ.Component.
package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

var funcs = template.FuncMap{
	"money":         money,
	"itoa":          itoa,
	"date":          date,
	"datetime":      datetime,
	"status":        statusLabel,
	"affiliateName": affiliateName,
}

var base = template.Must(template.New("base").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{block "title" .}}Documentos de RH{{end}}</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<link rel="preconnect" href="https://fonts.googleapis.com">
<link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
<link href="https://fonts.googleapis.com/css2?family=IBM+Plex+Mono:wght@400;500;600&family=IBM+Plex+Sans:wght@300;400;500;600&display=swap" rel="stylesheet">
<style>
  :root{--ink:#0d1117;--paper:#f5f0e8;--ledger:#e8e0cc;--accent:#c0392b;--accent2:#2c6e49;--muted:#6b5e4e;--rule:#b8a898;}
  *{box-sizing:border-box;}
  body{background:var(--paper);color:var(--ink);font-family:'IBM Plex Sans',sans-serif;min-height:100vh;margin:0;}
  .mono{font-family:'IBM Plex Mono',monospace;}
  .card{background:rgba(255,255,255,0.7);border:1px solid var(--ledger);border-left:4px solid var(--ink);padding:20px;}
  .field-label{font-family:'IBM Plex Mono',monospace;font-size:0.6rem;font-weight:600;letter-spacing:0.1em;text-transform:uppercase;color:var(--muted);display:block;margin-bottom:2px;}
  input,select,textarea{background:white;border:1px solid var(--rule);border-bottom:2px solid var(--ink);padding:6px 8px;font-family:'IBM Plex Mono',monospace;font-size:0.85rem;width:100%;outline:none;}
  input:focus,select:focus,textarea:focus{border-bottom-color:var(--accent);}
  .btn{font-family:'IBM Plex Mono',monospace;font-weight:600;font-size:0.8rem;letter-spacing:0.08em;padding:8px 18px;border:2px solid var(--ink);cursor:pointer;text-transform:uppercase;text-decoration:none;display:inline-block;}
  .btn-primary{background:var(--ink);color:white;}
  .btn-primary:hover{background:var(--accent);border-color:var(--accent);}
  .btn-danger{background:white;color:var(--accent);border-color:var(--accent);}
  .btn-success{background:var(--accent2);color:white;border-color:var(--accent2);}
  .section-header{font-family:'IBM Plex Mono',monospace;font-size:0.7rem;font-weight:600;letter-spacing:0.18em;text-transform:uppercase;color:var(--muted);border-bottom:1px solid var(--rule);padding-bottom:4px;margin-bottom:16px;}
  .grid{display:grid;grid-template-columns:1fr 1fr;gap:12px;}
  .row{border-bottom:1px solid var(--ledger);padding:10px 0;display:flex;justify-content:space-between;align-items:center;gap:12px;}
  .row:last-child{border-bottom:none;}
  .muted{color:var(--muted);font-size:0.8rem;}
  nav a{font-family:'IBM Plex Mono',monospace;font-size:0.75rem;letter-spacing:0.1em;text-transform:uppercase;color:var(--ink);margin-right:18px;}
  pre.preview{white-space:pre-wrap;background:white;border:1px solid var(--rule);padding:16px;font-family:'IBM Plex Sans',sans-serif;}
</style>
</head>
<body>
<div style="max-width:1100px;margin:0 auto;padding:32px 24px;">
<div style="margin-bottom:28px;">
  <h1 class="mono" style="font-size:1.5rem;font-weight:600;margin:0 0 12px;">Gerador de Documentos de RH</h1>
  <nav>
    <a href="/">Início</a>
    <a href="/employees">Colaboradores</a>
    <a href="/templates">Modelos</a>
    <a href="/affiliates">Coligadas</a>
    <a href="/documents">Documentos</a>
  </nav>
</div>
{{template "content" .}}
</div>
</body>
</html>
{{define "content"}}{{end}}`))

// fragments are executed on their own, outside any page.
var fragments = template.Must(template.Must(base.Clone()).Parse(fragmentSrc))

// page clones the layout and all fragments, then adds the page's content.
func page(content string) *template.Template {
	t := template.Must(base.Clone())
	template.Must(t.Parse(fragmentSrc))
	return template.Must(t.Parse(content))
}

// component adapts a named html/template to templ.Component.
func component(t *template.Template, name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return t.ExecuteTemplate(w, name, data)
	})
}
