package docgen

import (
	"context"
	"fmt"
	"io"

	"github.com/csg33k/hrdoc-generator/internal/adapters/spreadsheet"
)

// ImportResult summarises a spreadsheet import.
type ImportResult struct {
	Imported int
	Skipped  []spreadsheet.RowError
}

// ImportEmployees reads a CSV/XLSX/XLS sheet and creates one employee per
// valid row. Rows that fail to parse are reported, not fatal.
func (s *Service) ImportEmployees(ctx context.Context, r io.Reader, filename string) (*ImportResult, error) {
	rows, err := spreadsheet.ReadRows(r, filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	employees, skipped, err := spreadsheet.Parse(rows)
	if err != nil {
		return nil, err
	}
	res := &ImportResult{Skipped: skipped}
	for i := range employees {
		if err := s.repo.CreateEmployee(ctx, &employees[i]); err != nil {
			return res, fmt.Errorf("import %q: %w", employees[i].Name, err)
		}
		res.Imported++
	}
	s.log.Info("employees imported", "file", filename, "imported", res.Imported, "skipped", len(skipped))
	return res, nil
}

// ExportEmployees writes every employee as CSV, or XLSX when xlsx is set.
func (s *Service) ExportEmployees(ctx context.Context, w io.Writer, xlsx bool) error {
	list, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return err
	}
	if xlsx {
		return spreadsheet.ExportXLSX(w, list)
	}
	return spreadsheet.ExportCSV(w, list)
}

// CleanupEmployees removes CPF duplicates (keeping the oldest) and rows
// without a name.
func (s *Service) CleanupEmployees(ctx context.Context) (duplicates, empty int, err error) {
	if duplicates, err = s.repo.DeleteDuplicatesByCPF(ctx); err != nil {
		return 0, 0, err
	}
	if empty, err = s.repo.DeleteEmpty(ctx); err != nil {
		return duplicates, 0, err
	}
	s.log.Info("employees cleaned", "duplicates", duplicates, "empty", empty)
	return duplicates, empty, nil
}
