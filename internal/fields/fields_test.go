package fields_test

import (
	"testing"
	"time"

	"github.com/csg33k/hrdoc-generator/internal/domain"
	"github.com/csg33k/hrdoc-generator/internal/fields"
)

func ptr[T any](v T) *T { return &v }

func TestFromEmployee(t *testing.T) {
	hire := time.Date(2021, 2, 15, 0, 0, 0, 0, time.UTC)
	e := &domain.Employee{
		Name:       "João Silva",
		Position:   "Vendedor",
		StoreName:  "Loja 12",
		CPF:        "123.456.789-00",
		HireDate:   &hire,
		Salary:     ptr(int64(123456)),
		CTPSNumber: "998877",
	}
	f := fields.FromEmployee(e, &domain.Affiliate{Name: "Coligada Sul", Address: "Av. Brasil, 10"})

	for _, k := range fields.Keys {
		if _, ok := f[k]; !ok {
			t.Errorf("key %q missing", k)
		}
	}
	want := map[string]string{
		"nome":                     "João Silva",
		"nome_colaborador":         "João Silva",
		"cargo":                    "Vendedor",
		"funcao":                   "Vendedor",
		"nome_loja":                "Loja 12",
		"data_admissao":            "15/02/2021",
		"data_emissao":             "",
		"salario":                  "R$ 1.234,56",
		"numero_carteira_trabalho": "998877",
		"coligada":                 "Coligada Sul",
		"empresa":                  "Coligada Sul",
		"endereco_coligada":        "Av. Brasil, 10",
	}
	for k, v := range want {
		if f[k] != v {
			t.Errorf("%s = %q, want %q", k, f[k], v)
		}
	}
}

func TestFromEmployee_NoAffiliate(t *testing.T) {
	f := fields.FromEmployee(&domain.Employee{Name: "Ana", Company: "ACME"}, nil)
	if f["empresa"] != "ACME" || f["coligada"] != "" || f["salario"] != "" {
		t.Errorf("unexpected fields: %v", f)
	}
}

func TestMoney(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "R$ 0,00"},
		{5, "R$ 0,05"},
		{250050, "R$ 2.500,50"},
		{100000000, "R$ 1.000.000,00"},
	}
	for _, tc := range cases {
		if got := fields.Money(&tc.cents); got != tc.want {
			t.Errorf("Money(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestFold(t *testing.T) {
	cases := map[string]string{
		"Função":         "funcao",
		"  Endereço  ":   "endereco",
		"DATA ADMISSÃO":  "data admissao",
		"plain":          "plain",
	}
	for in, want := range cases {
		if got := fields.Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}
