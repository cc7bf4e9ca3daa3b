package pdf

import (
	"sync"

	"github.com/go-pdf/fpdf"

	"github.com/csg33k/hrdoc-generator/internal/domain"
)

// Measurer reports string widths using fpdf's core font metrics, so layout
// wraps exactly where the backend will draw. Safe for concurrent use.
type Measurer struct {
	mu  sync.Mutex
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// NewMeasurer returns a Measurer for the Helvetica core font.
func NewMeasurer() *Measurer {
	pdf := fpdf.New("P", "mm", "A4", "")
	return &Measurer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

// Width returns the width of s in millimetres.
func (m *Measurer) Width(s string, style domain.FontStyle, size float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pdf.SetFont(fontFamily, string(style), size)
	return m.pdf.GetStringWidth(m.tr(s))
}
