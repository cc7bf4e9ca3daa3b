package templates

import (
	"github.com/a-h/templ"

	"github.com/csg33k/hrdoc-generator/internal/domain"
)

const fragmentSrc = `
{{define "employee-rows"}}
{{if not .Employees}}
<div class="muted" style="padding:16px;text-align:center;">Nenhum colaborador cadastrado.</div>
{{else}}
{{range .Employees}}
<div class="row" id="employee-{{.ID}}">
  <div>
    <div style="font-weight:600;">{{.Name}}</div>
    <div class="muted">
      {{if .Position}}{{.Position}}{{end}}{{if .CPF}} · CPF <span class="mono">{{.CPF}}</span>{{end}}
      {{with affiliateName .AffiliateID $.Affiliates}} · {{.}}{{end}}
      {{if .Salary}} · {{money .Salary}}{{end}}
      {{if .HireDate}} · admissão {{date .HireDate}}{{end}}
    </div>
  </div>
  <button class="btn btn-danger"
    hx-delete="/employees/{{.ID}}"
    hx-target="#employee-list"
    hx-swap="innerHTML"
    hx-confirm="Excluir este colaborador?">EXCLUIR</button>
</div>
{{end}}
{{end}}
{{end}}

{{define "import-summary"}}
<div class="card" style="margin-bottom:12px;">
  <strong>{{.Imported}}</strong> colaborador(es) importado(s).
  {{if .Skipped}}
  <div class="muted" style="margin-top:6px;">Linhas ignoradas:</div>
  <ul class="muted">{{range .Skipped}}<li>{{.}}</li>{{end}}</ul>
  {{end}}
</div>
{{end}}

{{define "cleanup-summary"}}
<div class="card" style="margin-bottom:12px;">
  {{.Duplicates}} duplicado(s) por CPF e {{.Empty}} registro(s) sem nome removidos.
</div>
{{end}}

{{define "template-rows"}}
{{if not .}}
<div class="muted" style="padding:16px;text-align:center;">Nenhum modelo cadastrado.</div>
{{else}}
{{range .}}
<div class="row" id="template-{{.ID}}">
  <div>
    <div style="font-weight:600;">{{.Name}}</div>
    <div class="muted">{{if .Type}}{{.Type}} · {{end}}{{.Description}}</div>
  </div>
  <button class="btn btn-danger"
    hx-delete="/templates/{{.ID}}"
    hx-target="#template-list"
    hx-swap="innerHTML"
    hx-confirm="Excluir este modelo?">EXCLUIR</button>
</div>
{{end}}
{{end}}
{{end}}

{{define "affiliate-rows"}}
{{if not .}}
<div class="muted" style="padding:16px;text-align:center;">Nenhuma coligada cadastrada.</div>
{{else}}
{{range .}}
<div class="row" id="affiliate-{{.ID}}">
  <div>
    <div style="font-weight:600;">{{.Name}}</div>
    <div class="muted">{{if .CNPJ}}CNPJ <span class="mono">{{.CNPJ}}</span> · {{end}}{{.Address}}</div>
  </div>
  <button class="btn btn-danger"
    hx-delete="/affiliates/{{.ID}}"
    hx-target="#affiliate-list"
    hx-swap="innerHTML"
    hx-confirm="Excluir esta coligada?">EXCLUIR</button>
</div>
{{end}}
{{end}}
{{end}}

{{define "document-rows"}}
{{if not .}}
<div class="muted" style="padding:16px;text-align:center;">Nenhum documento gerado.</div>
{{else}}
{{range .}}
<div class="row">
  <div>
    <div style="font-weight:600;">{{.TemplateName}} · {{.EmployeeName}}</div>
    <div class="muted">{{datetime .CreatedAt}} · {{status .Status}}</div>
  </div>
  {{if .FilePath}}<a class="btn btn-success" href="/documents/{{.ID}}/pdf">PDF</a>{{end}}
</div>
{{end}}
{{end}}
{{end}}

{{define "preview"}}
<div class="card">
  <div class="section-header">{{.TemplateName}} · {{.EmployeeName}}</div>
  <pre class="preview">{{.Text}}</pre>
  {{if .Unknown}}
  <div class="muted">Campos sem valor: {{range $i, $k := .Unknown}}{{if $i}}, {{end}}<span class="mono">{{$k}}</span>{{end}}</div>
  {{end}}
</div>
{{end}}

{{define "generated"}}
<div class="card">
  Documento gerado: <strong>{{.TemplateName}}</strong> para {{.EmployeeName}}.
  <a class="btn btn-success" href="/documents/{{.ID}}/pdf" style="margin-left:12px;">BAIXAR PDF</a>
</div>
{{end}}
`

var indexTmpl = page(`{{define "content"}}
<div class="grid" style="grid-template-columns:repeat(4,1fr);margin-bottom:24px;">
  <div class="card"><span class="field-label">Colaboradores</span><span class="mono" style="font-size:1.6rem;">{{.Employees}}</span></div>
  <div class="card"><span class="field-label">Modelos</span><span class="mono" style="font-size:1.6rem;">{{.Templates}}</span></div>
  <div class="card"><span class="field-label">Coligadas</span><span class="mono" style="font-size:1.6rem;">{{.Affiliates}}</span></div>
  <div class="card"><span class="field-label">Documentos</span><span class="mono" style="font-size:1.6rem;">{{.Documents}}</span></div>
</div>
<div class="section-header">Documentos recentes</div>
{{template "document-rows" .Recent}}
{{end}}`)

var employeesTmpl = page(`{{define "content"}}
<div class="grid" style="align-items:start;gap:32px;">
<div class="card">
  <div class="section-header">Novo colaborador</div>
  <form hx-post="/employees" hx-target="#employee-list" hx-swap="innerHTML" hx-on::after-request="this.reset()">
    <div class="grid">
      <div style="grid-column:1/-1;"><label class="field-label">Nome *</label><input type="text" name="name" required></div>
      <div><label class="field-label">CPF</label><input type="text" name="cpf" class="mono"></div>
      <div><label class="field-label">RG</label><input type="text" name="rg" class="mono"></div>
      <div><label class="field-label">Cargo</label><input type="text" name="position"></div>
      <div><label class="field-label">Departamento</label><input type="text" name="department"></div>
      <div><label class="field-label">Empresa</label><input type="text" name="company"></div>
      <div><label class="field-label">Loja</label><input type="text" name="store_name"></div>
      <div><label class="field-label">E-mail</label><input type="email" name="email"></div>
      <div><label class="field-label">Telefone</label><input type="text" name="phone"></div>
      <div><label class="field-label">Salário</label><input type="text" name="salary" placeholder="1.234,56"></div>
      <div><label class="field-label">Admissão</label><input type="text" name="hire_date" placeholder="dd/mm/aaaa"></div>
      <div><label class="field-label">Data da carta</label><input type="text" name="letter_issue_date" placeholder="dd/mm/aaaa"></div>
      <div><label class="field-label">Carteira de trabalho</label><input type="text" name="ctps_number" class="mono"></div>
      <div><label class="field-label">Série</label><input type="text" name="ctps_series" class="mono"></div>
      <div style="grid-column:1/-1;"><label class="field-label">Endereço</label><input type="text" name="address"></div>
      <div><label class="field-label">Cidade</label><input type="text" name="city"></div>
      <div><label class="field-label">Estado</label><input type="text" name="state" maxlength="2"></div>
      <div><label class="field-label">CEP</label><input type="text" name="zip_code"></div>
      <div><label class="field-label">Coligada</label>
        <select name="affiliate_id"><option value="">nenhuma</option>{{range .Affiliates}}<option value="{{.ID}}">{{.Name}}</option>{{end}}</select>
      </div>
      <div><label class="field-label">Contato de emergência</label><input type="text" name="emergency_contact"></div>
      <div><label class="field-label">Telefone de emergência</label><input type="text" name="emergency_phone"></div>
      <div><label class="field-label">Logo (chave ou URL)</label><input type="text" name="logo_url"></div>
      <div><label class="field-label">Assinatura (chave ou URL)</label><input type="text" name="signature_url"></div>
      <div><label class="field-label">Carimbo (chave ou URL)</label><input type="text" name="stamp_url"></div>
    </div>
    <div style="margin-top:16px;text-align:right;"><button type="submit" class="btn btn-primary">SALVAR</button></div>
  </form>
</div>
<div>
  <div class="section-header">Planilha</div>
  <form hx-post="/employees/import" hx-encoding="multipart/form-data" hx-target="#employee-notice" style="display:flex;gap:8px;margin-bottom:12px;">
    <input type="file" name="file" accept=".csv,.txt,.xls,.xlsx,.xlsm" required>
    <button type="submit" class="btn btn-primary">IMPORTAR</button>
  </form>
  <div style="display:flex;gap:8px;margin-bottom:16px;">
    <a class="btn" href="/employees/export">CSV</a>
    <a class="btn" href="/employees/export?format=xlsx">XLSX</a>
    <button class="btn btn-danger" hx-post="/employees/dedupe" hx-target="#employee-notice">LIMPAR DUPLICADOS</button>
  </div>
  <div id="employee-notice"></div>
  <div class="section-header">Colaboradores</div>
  <div id="employee-list">{{template "employee-rows" .}}</div>
</div>
</div>
{{end}}`)

var templatesTmpl = page(`{{define "content"}}
<div class="grid" style="align-items:start;gap:32px;">
<div class="card">
  <div class="section-header">Novo modelo</div>
  <form hx-post="/templates" hx-target="#template-list" hx-swap="innerHTML" hx-on::after-request="this.reset()">
    <div><label class="field-label">Nome *</label><input type="text" name="name" required></div>
    <div style="margin-top:8px;"><label class="field-label">Tipo</label><input type="text" name="type" placeholder="carta, declaracao"></div>
    <div style="margin-top:8px;"><label class="field-label">Descrição</label><input type="text" name="description"></div>
    <div style="margin-top:8px;"><label class="field-label">Texto *</label>
      <textarea name="body" rows="14" required placeholder="Declaramos que {{"{{"}}nome{{"}}"}} ..."></textarea></div>
    <div class="muted" style="margin-top:6px;">Use {{"{{"}}campo{{"}}"}} para dados do colaborador e {{"{{"}}assinatura{{"}}"}} ou {{"{{"}}carimbo{{"}}"}} sozinhos em uma linha para as imagens.</div>
    <div style="margin-top:16px;text-align:right;"><button type="submit" class="btn btn-primary">SALVAR</button></div>
  </form>
</div>
<div>
  <div class="section-header">Modelos</div>
  <div id="template-list">{{template "template-rows" .}}</div>
</div>
</div>
{{end}}`)

var affiliatesTmpl = page(`{{define "content"}}
<div class="grid" style="align-items:start;gap:32px;">
<div class="card">
  <div class="section-header">Nova coligada</div>
  <form hx-post="/affiliates" hx-target="#affiliate-list" hx-swap="innerHTML" hx-on::after-request="this.reset()">
    <div><label class="field-label">Nome *</label><input type="text" name="name" required></div>
    <div style="margin-top:8px;"><label class="field-label">CNPJ</label><input type="text" name="cnpj" class="mono"></div>
    <div style="margin-top:8px;"><label class="field-label">Endereço (rodapé)</label><input type="text" name="address"></div>
    <div style="margin-top:8px;"><label class="field-label">Logo</label><input type="text" name="logo_url"></div>
    <div style="margin-top:8px;"><label class="field-label">Assinatura</label><input type="text" name="signature_url"></div>
    <div style="margin-top:8px;"><label class="field-label">Carimbo</label><input type="text" name="stamp_url"></div>
    <div style="margin-top:16px;text-align:right;"><button type="submit" class="btn btn-primary">SALVAR</button></div>
  </form>
  <div class="section-header" style="margin-top:24px;">Enviar imagem</div>
  <form hx-post="/assets" hx-encoding="multipart/form-data" hx-target="#asset-key" style="display:flex;gap:8px;">
    <input type="file" name="file" accept="image/*" required>
    <button type="submit" class="btn">ENVIAR</button>
  </form>
  <div id="asset-key" class="mono muted" style="margin-top:8px;"></div>
</div>
<div>
  <div class="section-header">Coligadas</div>
  <div id="affiliate-list">{{template "affiliate-rows" .}}</div>
</div>
</div>
{{end}}`)

var documentsTmpl = page(`{{define "content"}}
<div class="card" style="margin-bottom:24px;">
  <div class="section-header">Gerar documento</div>
  <form hx-post="/documents" hx-target="#document-result">
    <div class="grid">
      <div><label class="field-label">Colaborador</label>
        <select name="employee_id" required>{{range .Employees}}<option value="{{.ID}}">{{.Name}}</option>{{end}}</select></div>
      <div><label class="field-label">Modelo</label>
        <select name="template_id" required>{{range .Templates}}<option value="{{.ID}}">{{.Name}}</option>{{end}}</select></div>
    </div>
    <div style="margin-top:16px;display:flex;gap:8px;justify-content:flex-end;">
      <button type="button" class="btn" hx-get="/documents/preview" hx-include="closest form" hx-target="#document-result">PRÉ-VISUALIZAR</button>
      <button type="submit" class="btn btn-primary">GERAR PDF</button>
    </div>
  </form>
  <div id="document-result" style="margin-top:16px;"></div>
</div>
<div class="section-header">Histórico</div>
{{template "document-rows" .History}}
{{end}}`)

// Dashboard is the data of the home page.
type Dashboard struct {
	Employees, Templates, Affiliates, Documents int
	Recent                                      []domain.GeneratedDocument
}

// EmployeeList pairs employees with the affiliates their rows refer to.
type EmployeeList struct {
	Employees  []domain.Employee
	Affiliates []domain.Affiliate
}

type ImportSummary struct {
	Imported int
	Skipped  []string
}

type CleanupSummary struct {
	Duplicates, Empty int
}

type DocumentsPage struct {
	Employees []domain.Employee
	Templates []domain.Template
	History   []domain.GeneratedDocument
}

// PreviewData is the resolved text shown before generating.
type PreviewData struct {
	EmployeeName string
	TemplateName string
	Text         string
	Unknown      []string
}

func Index(d Dashboard) templ.Component { return component(indexTmpl, "base", d) }

func Employees(l EmployeeList) templ.Component { return component(employeesTmpl, "base", l) }

func EmployeeRows(l EmployeeList) templ.Component {
	return component(fragments, "employee-rows", l)
}

func Imported(s ImportSummary) templ.Component {
	return component(fragments, "import-summary", s)
}

func Cleaned(s CleanupSummary) templ.Component {
	return component(fragments, "cleanup-summary", s)
}

func Templates(list []domain.Template) templ.Component {
	return component(templatesTmpl, "base", list)
}

func TemplateRows(list []domain.Template) templ.Component {
	return component(fragments, "template-rows", list)
}

func Affiliates(list []domain.Affiliate) templ.Component {
	return component(affiliatesTmpl, "base", list)
}

func AffiliateRows(list []domain.Affiliate) templ.Component {
	return component(fragments, "affiliate-rows", list)
}

func Documents(d DocumentsPage) templ.Component {
	return component(documentsTmpl, "base", d)
}

func Preview(p PreviewData) templ.Component { return component(fragments, "preview", p) }

func Generated(d *domain.GeneratedDocument) templ.Component {
	return component(fragments, "generated", d)
}
