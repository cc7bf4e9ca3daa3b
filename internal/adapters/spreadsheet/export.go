package spreadsheet

import (
	"encoding/csv"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/csg33k/hrdoc-generator/internal/domain"
	"github.com/csg33k/hrdoc-generator/internal/fields"
)

var exportHeader = []string{
	"Nome", "CPF", "RG", "Cargo", "Departamento", "Empresa", "Loja", "Email", "Telefone",
	"Data de Admissão", "Salário", "Endereço", "Cidade", "Estado", "CEP",
}

func exportRow(e *domain.Employee) []string {
	return []string{
		e.Name, e.CPF, e.RG, e.Position, e.Department, e.Company, e.StoreName, e.Email, e.Phone,
		fields.Date(e.HireDate), fields.Money(e.Salary), e.Address, e.City, e.State, e.ZIPCode,
	}
}

// ExportCSV writes employees as UTF-8 CSV with a byte-order mark so
// spreadsheet programs detect the encoding.
func ExportCSV(w io.Writer, employees []domain.Employee) error {
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for i := range employees {
		if err := cw.Write(exportRow(&employees[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportXLSX writes employees to a single-sheet workbook.
func ExportXLSX(w io.Writer, employees []domain.Employee) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	const sheet = "Colaboradores"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	write := func(row int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &values)
	}
	if err := write(1, exportHeader); err != nil {
		return err
	}
	for i := range employees {
		if err := write(i+2, exportRow(&employees[i])); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}
