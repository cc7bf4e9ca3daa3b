// Package memdoc is an in-memory ports.Document that records every call.
// It is used to test layout replay without a PDF library.
package memdoc

import (
	"fmt"
	"io"

	"github.com/csg33k/hrdoc-generator/internal/domain"
	"github.com/csg33k/hrdoc-generator/internal/ports"
)

// Call is one recorded backend call.
type Call struct {
	Op   string // "page", "text", "line", "image"
	Text string
	Role domain.ImageRole
	X, Y float64
	W, H float64
}

// Factory creates Documents and keeps the last one for inspection.
type Factory struct {
	// FailImage makes AddImage fail for this role.
	FailImage domain.ImageRole
	// FailSerialize makes Serialize fail.
	FailSerialize bool

	Last *Document
}

func (f *Factory) NewDocument(meta ports.DocumentMeta) ports.Document {
	f.Last = &Document{Meta: meta, factory: f}
	return f.Last
}

// Document records calls in order.
type Document struct {
	Meta    ports.DocumentMeta
	Calls   []Call
	factory *Factory
}

func (d *Document) AddPage() { d.Calls = append(d.Calls, Call{Op: "page"}) }

func (d *Document) AddText(text string, x, y float64, _ domain.FontStyle, _ float64, _ domain.Gray) {
	d.Calls = append(d.Calls, Call{Op: "text", Text: text, X: x, Y: y})
}

func (d *Document) AddLine(x1, y1, x2, y2 float64) {
	d.Calls = append(d.Calls, Call{Op: "line", X: x1, Y: y1, W: x2 - x1, H: y2 - y1})
}

func (d *Document) AddImage(role domain.ImageRole, _ *domain.ImageAsset, x, y, w, h float64) error {
	if d.factory != nil && d.factory.FailImage == role {
		return fmt.Errorf("memdoc: rejecting %s image", role)
	}
	d.Calls = append(d.Calls, Call{Op: "image", Role: role, X: x, Y: y, W: w, H: h})
	return nil
}

// Serialize writes one line per call.
func (d *Document) Serialize(w io.Writer) error {
	if d.factory != nil && d.factory.FailSerialize {
		return fmt.Errorf("memdoc: serialize disabled")
	}
	for _, c := range d.Calls {
		if _, err := fmt.Fprintf(w, "%s %q %s %.2f %.2f %.2f %.2f\n", c.Op, c.Text, c.Role, c.X, c.Y, c.W, c.H); err != nil {
			return err
		}
	}
	return nil
}

// Pages returns the number of AddPage calls.
func (d *Document) Pages() int {
	n := 0
	for _, c := range d.Calls {
		if c.Op == "page" {
			n++
		}
	}
	return n
}
