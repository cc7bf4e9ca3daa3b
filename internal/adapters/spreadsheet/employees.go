package spreadsheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/csg33k/hrdoc-generator/internal/domain"
	"github.com/csg33k/hrdoc-generator/internal/fields"
)

// Column is an employee attribute a sheet column can map to.
type Column string

const (
	ColName             Column = "name"
	ColEmail            Column = "email"
	ColPhone            Column = "phone"
	ColPosition         Column = "position"
	ColDepartment       Column = "department"
	ColCompany          Column = "company"
	ColStoreName        Column = "store_name"
	ColRG               Column = "rg"
	ColCPF              Column = "cpf"
	ColCTPSNumber       Column = "ctps_number"
	ColCTPSSeries       Column = "ctps_series"
	ColAddress          Column = "address"
	ColCity             Column = "city"
	ColState            Column = "state"
	ColZIPCode          Column = "zip_code"
	ColEmergencyContact Column = "emergency_contact"
	ColEmergencyPhone   Column = "emergency_phone"
	ColSalary           Column = "salary"
	ColHireDate         Column = "hire_date"
	ColLetterIssueDate  Column = "letter_issue_date"
)

// aliases maps folded header text to a column.
var aliases = map[string]Column{
	"nome": ColName, "name": ColName, "nome do colaborador": ColName, "nome colaborador": ColName, "colaborador": ColName, "funcionario": ColName,
	"email": ColEmail, "e-mail": ColEmail,
	"telefone": ColPhone, "phone": ColPhone, "celular": ColPhone,
	"funcao": ColPosition, "cargo": ColPosition, "position": ColPosition,
	"departamento": ColDepartment, "setor": ColDepartment, "department": ColDepartment,
	"empresa": ColCompany, "company": ColCompany,
	"loja": ColStoreName, "nome da loja": ColStoreName, "nome loja": ColStoreName, "store": ColStoreName, "store_name": ColStoreName,
	"rg": ColRG,
	"cpf": ColCPF,
	"numero carteira trabalho": ColCTPSNumber, "numero da carteira de trabalho": ColCTPSNumber, "ctps": ColCTPSNumber, "numero_carteira_trabalho": ColCTPSNumber,
	"serie": ColCTPSSeries, "serie ctps": ColCTPSSeries,
	"endereco": ColAddress, "address": ColAddress,
	"cidade": ColCity, "city": ColCity,
	"estado": ColState, "uf": ColState, "state": ColState,
	"cep": ColZIPCode, "zip": ColZIPCode, "zip_code": ColZIPCode,
	"contato emergencia": ColEmergencyContact, "contato de emergencia": ColEmergencyContact, "contato_emergencia": ColEmergencyContact,
	"telefone emergencia": ColEmergencyPhone, "telefone de emergencia": ColEmergencyPhone, "telefone_emergencia": ColEmergencyPhone,
	"salario": ColSalary, "salary": ColSalary,
	"data admissao": ColHireDate, "data de admissao": ColHireDate, "admissao": ColHireDate, "hire_date": ColHireDate, "data_admissao": ColHireDate,
	"data emissao": ColLetterIssueDate, "data de emissao": ColLetterIssueDate, "data carta": ColLetterIssueDate, "data_emissao": ColLetterIssueDate,
}

// MapColumns returns the column index for every recognised header.
// The first occurrence of a column wins.
func MapColumns(header []string) map[Column]int {
	m := make(map[Column]int)
	for i, h := range header {
		if col, ok := aliases[fields.Fold(h)]; ok {
			if _, seen := m[col]; !seen {
				m[col] = i
			}
		}
	}
	return m
}

// RowError reports a sheet row that was not imported. Row is 1-based and
// counts the header.
type RowError struct {
	Row    int
	Reason string
}

func (e RowError) Error() string { return fmt.Sprintf("linha %d: %s", e.Row, e.Reason) }

// Parse converts rows into employees. The first non-blank row is the
// header; blank rows are skipped and row i is reported as line i+1.
func Parse(rows [][]string) ([]domain.Employee, []RowError, error) {
	head := 0
	for head < len(rows) && blank(rows[head]) {
		head++
	}
	if head == len(rows) {
		return nil, nil, domain.ErrEmptySheet
	}
	cols := MapColumns(rows[head])
	if _, ok := cols[ColName]; !ok {
		return nil, nil, fmt.Errorf("%w: no name column in header %q", domain.ErrInvalidInput, rows[head])
	}

	var (
		out  []domain.Employee
		errs []RowError
	)
	for i := head + 1; i < len(rows); i++ {
		row, line := rows[i], i+1
		if blank(row) {
			continue
		}
		get := func(c Column) string {
			idx, ok := cols[c]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		e := domain.Employee{
			Name:             get(ColName),
			Email:            get(ColEmail),
			Phone:            get(ColPhone),
			Position:         get(ColPosition),
			Department:       get(ColDepartment),
			Company:          get(ColCompany),
			StoreName:        get(ColStoreName),
			RG:               get(ColRG),
			CPF:              get(ColCPF),
			CTPSNumber:       get(ColCTPSNumber),
			CTPSSeries:       get(ColCTPSSeries),
			Address:          get(ColAddress),
			City:             get(ColCity),
			State:            get(ColState),
			ZIPCode:          get(ColZIPCode),
			EmergencyContact: get(ColEmergencyContact),
			EmergencyPhone:   get(ColEmergencyPhone),
		}
		if e.Name == "" {
			errs = append(errs, RowError{Row: line, Reason: "nome vazio"})
			continue
		}
		if v := get(ColSalary); v != "" {
			cents, err := ParseMoney(v)
			if err != nil {
				errs = append(errs, RowError{Row: line, Reason: fmt.Sprintf("salário inválido %q", v)})
				continue
			}
			e.Salary = &cents
		}
		var bad bool
		for _, d := range []struct {
			col Column
			dst **time.Time
		}{
			{ColHireDate, &e.HireDate},
			{ColLetterIssueDate, &e.LetterIssueDate},
		} {
			v := get(d.col)
			if v == "" {
				continue
			}
			t, err := ParseDate(v)
			if err != nil {
				errs = append(errs, RowError{Row: line, Reason: fmt.Sprintf("data inválida %q", v)})
				bad = true
				break
			}
			*d.dst = &t
		}
		if bad {
			continue
		}
		out = append(out, e)
	}
	return out, errs, nil
}

// maxMoney caps parsed amounts at one trillion reais.
const maxMoney = 1e12

// ParseMoney accepts "R$ 1.234,56", "1234,56", "1234.56", "1,234.56" and
// "R$ 3.500" and returns cents. Without a comma, dots followed by exactly
// three digits are thousands separators.
func ParseMoney(s string) (int64, error) {
	in := s
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	s = strings.ReplaceAll(s, " ", "")
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastDot > lastComma && lastComma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case lastDot >= 0 && thousandsDots(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	if s == "" || strings.Trim(s, "0123456789.") != "" {
		return 0, fmt.Errorf("%w: money %q", domain.ErrInvalidInput, in)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) || f > maxMoney {
		return 0, fmt.Errorf("%w: money %q", domain.ErrInvalidInput, in)
	}
	return int64(math.Round(f * 100)), nil
}

// thousandsDots reports whether every dot in s is followed by exactly
// three digits, as in "3.500" or "1.234.567".
func thousandsDots(s string) bool {
	parts := strings.Split(s, ".")
	if parts[0] == "" {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}

var dateLayouts = []string{"02/01/2006", "2/1/2006", "2006-01-02", "02-01-2006", "02.01.2006", "2006-01-02T15:04:05Z07:00"}

// ParseDate accepts pt-BR and ISO dates and Excel serial numbers.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial >= 1 && serial <= 80000 {
			return excelize.ExcelDateToTime(serial, false)
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q", domain.ErrInvalidInput, s)
}
