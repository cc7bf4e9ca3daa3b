// Package fields turns employee records into the placeholder values a
// template body can reference.
package fields

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/csg33k/hrdoc-generator/internal/domain"
)

// DateLayout is the pt-BR day/month/year layout.
const DateLayout = "02/01/2006"

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Keys lists every key FromEmployee sets, in display order.
var Keys = []string{
	"nome", "nome_colaborador", "loja", "nome_loja", "rg", "cpf",
	"data_emissao", "data_carta", "funcao", "cargo", "empresa", "email",
	"telefone", "departamento", "data_admissao", "salario",
	"numero_carteira_trabalho", "serie", "endereco", "cidade", "estado", "cep",
	"contato_emergencia", "telefone_emergencia", "coligada", "endereco_coligada",
}

// FromEmployee builds the field map for e. aff may be nil. Missing values
// become empty strings so every key is always present.
func FromEmployee(e *domain.Employee, aff *domain.Affiliate) domain.FieldMap {
	f := domain.FieldMap{
		"nome":                     e.Name,
		"nome_colaborador":         e.Name,
		"loja":                     e.StoreName,
		"nome_loja":                e.StoreName,
		"rg":                       e.RG,
		"cpf":                      e.CPF,
		"data_emissao":             Date(e.LetterIssueDate),
		"data_carta":               Date(e.LetterIssueDate),
		"funcao":                   e.Position,
		"cargo":                    e.Position,
		"empresa":                  e.Company,
		"email":                    e.Email,
		"telefone":                 e.Phone,
		"departamento":             e.Department,
		"data_admissao":            Date(e.HireDate),
		"salario":                  Money(e.Salary),
		"numero_carteira_trabalho": e.CTPSNumber,
		"serie":                    e.CTPSSeries,
		"endereco":                 e.Address,
		"cidade":                   e.City,
		"estado":                   e.State,
		"cep":                      e.ZIPCode,
		"contato_emergencia":       e.EmergencyContact,
		"telefone_emergencia":      e.EmergencyPhone,
		"coligada":                 "",
		"endereco_coligada":        "",
	}
	if aff != nil {
		f["coligada"] = aff.Name
		f["endereco_coligada"] = aff.Address
		if e.Company == "" {
			f["empresa"] = aff.Name
		}
	}
	return f
}

// Date formats t as dd/mm/yyyy, or "" for nil.
func Date(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// Money formats cents as Brazilian reais, e.g. "R$ 1.234,56".
func Money(cents *int64) string {
	if cents == nil {
		return ""
	}
	v := float64(*cents) / 100
	return printer.Sprintf("R$ %v", number.Decimal(v, number.Scale(2)))
}

// Fold lower-cases s and strips diacritics: "Função" -> "funcao".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
