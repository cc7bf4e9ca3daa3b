// Package spreadsheet imports employees from CSV, XLSX and XLS sheets and
// exports them back to CSV or XLSX.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/csg33k/hrdoc-generator/internal/domain"
)

const maxXLSRows = 100000

// ReadRows returns the first sheet of the file as rows of trimmed cells.
// The format is chosen by filename extension. Row i is line i+1 of the
// sheet: blank rows inside the sheet are kept as empty rows, trailing ones
// are dropped.
func ReadRows(r io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv", ".txt":
		rows, err = readCSV(data)
	case ".xls":
		rows, err = readXLS(data)
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(data)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidInput, ext)
	}
	if err != nil {
		return nil, err
	}
	rows = trimRows(rows)
	if len(rows) == 0 {
		return nil, domain.ErrEmptySheet
	}
	return rows, nil
}

// readCSV pads the result with empty rows for the blank lines encoding/csv
// skips, so each record sits at the index of the line it starts on.
func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: csv: %v", domain.ErrInvalidInput, err)
		}
		line, _ := cr.FieldPos(0)
		for len(rows) < line-1 {
			rows = append(rows, nil)
		}
		rows = append(rows, rec)
	}
}

// sniffDelimiter picks ";" when the header line has more semicolons than
// commas, as pt-BR spreadsheet exports do.
func sniffDelimiter(data []byte) rune {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

// readXLS recovers from panics in the legacy BIFF parser, which does not
// validate malformed files.
func readXLS(data []byte) (rows [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("%w: xls: %v", domain.ErrInvalidInput, r)
		}
	}()
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: xls: %v", domain.ErrInvalidInput, err)
	}
	if wb.NumSheets() == 0 {
		return nil, domain.ErrEmptySheet
	}
	return wb.ReadAllCells(maxXLSRows), nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx: %v", domain.ErrInvalidInput, err)
	}
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, domain.ErrEmptySheet
	}
	return f.GetRows(sheet)
}

// trimRows trims every cell and drops the blank rows after the last one
// with content.
func trimRows(rows [][]string) [][]string {
	last := -1
	for i, row := range rows {
		for j := range row {
			row[j] = strings.TrimSpace(row[j])
		}
		if !blank(row) {
			last = i
		}
	}
	return rows[:last+1]
}

func blank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
