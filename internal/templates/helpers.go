package templates

import (
	"strconv"
	"time"

	"github.com/csg33k/hrdoc-generator/internal/domain"
	"github.com/csg33k/hrdoc-generator/internal/fields"
)

// money renders salary cents as "R$ 1.234,56"; nil renders empty.
func money(cents *int64) string {
	return fields.Money(cents)
}

// itoa converts an int64 to a string, used for building URL paths.
func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func date(t *time.Time) string { return fields.Date(t) }

func datetime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("02/01/2006 15:04")
}

func statusLabel(s string) string {
	switch s {
	case domain.StatusCompleted:
		return "concluído"
	case domain.StatusFailed:
		return "falhou"
	}
	return s
}

// affiliateName looks up the affiliate of an employee for list rows.
func affiliateName(id *int64, list []domain.Affiliate) string {
	if id == nil {
		return ""
	}
	for _, a := range list {
		if a.ID == *id {
			return a.Name
		}
	}
	return ""
}
