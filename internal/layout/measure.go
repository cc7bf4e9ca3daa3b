package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/csg33k/hrdoc-generator/internal/domain"
)

// Measurer reports the rendered width of s, in layout units, at a font
// style and size. Implementations must be deterministic.
type Measurer interface {
	Width(s string, style domain.FontStyle, size float64) float64
}

// Monospace gives every rune the same advance, whatever the font.
type Monospace float64

func (m Monospace) Width(s string, _ domain.FontStyle, _ float64) float64 {
	return float64(utf8.RuneCountInString(s)) * float64(m)
}

const ptToMM = 25.4 / 72

// Average approximates a proportional core font: half an em per rune.
type Average struct{}

func (Average) Width(s string, _ domain.FontStyle, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * size * 0.5 * ptToMM
}

// Wrap greedily packs the words of paragraph into lines no wider than
// width. Runs of whitespace collapse to a single space. A word wider than
// a whole line is broken between runes; every line holds at least one rune
// so no text is dropped.
func Wrap(m Measurer, paragraph string, style domain.FontStyle, size, width float64) []string {
	words := strings.Fields(paragraph)
	var lines []string
	var cur string
	fits := func(s string) bool { return m.Width(s, style, size) <= width }

	for _, w := range words {
		candidate := w
		if cur != "" {
			candidate = cur + " " + w
		}
		if fits(candidate) {
			cur = candidate
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
			cur = ""
		}
		if fits(w) {
			cur = w
			continue
		}
		pieces := breakWord(m, w, style, size, width)
		lines = append(lines, pieces[:len(pieces)-1]...)
		cur = pieces[len(pieces)-1]
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func breakWord(m Measurer, w string, style domain.FontStyle, size, width float64) []string {
	var pieces []string
	var b strings.Builder
	for _, r := range w {
		if b.Len() > 0 && m.Width(b.String()+string(r), style, size) > width {
			pieces = append(pieces, b.String())
			b.Reset()
		}
		b.WriteRune(r)
	}
	return append(pieces, b.String())
}

// ScaleToWidth returns the height of a w×h image drawn targetW wide.
func ScaleToWidth(w, h int, targetW float64) float64 {
	if w <= 0 {
		return 0
	}
	return targetW * float64(h) / float64(w)
}

// FitBox scales a w×h image to fit inside a box×box square, preserving its
// aspect ratio.
func FitBox(w, h int, box float64) (float64, float64) {
	dw, dh := box, ScaleToWidth(w, h, box)
	if dh > box {
		dw, dh = box*float64(w)/float64(h), box
	}
	return dw, dh
}
