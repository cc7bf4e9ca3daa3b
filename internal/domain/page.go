package domain

// OpKind tags a DrawOp.
type OpKind int

const (
	OpText OpKind = iota
	OpImage
	OpLine
)

// FontStyle mirrors the PDF core-font style string ("", "B", "I", "BI").
type FontStyle string

const (
	StyleRegular FontStyle = ""
	StyleBold    FontStyle = "B"
	StyleItalic  FontStyle = "I"
)

// Region says which part of the page produced an op.
type Region int

const (
	RegionHeader Region = iota
	RegionTitle
	RegionBody
	RegionFooter
)

// Gray is a text colour expressed as a single 0-255 grey level.
type Gray int

const (
	Black     Gray = 0
	FooterInk Gray = 128
)

// DrawOp is one positioned drawing instruction. Coordinates are in the
// layout's unit (millimetres), origin top-left; Y of a text op is its
// baseline.
type DrawOp struct {
	Kind   OpKind
	Region Region

	// OpText
	Text  string
	Style FontStyle
	Size  float64
	Color Gray

	// OpImage
	Role ImageRole

	X, Y float64
	// OpImage: box size. OpLine: end point is (X+W, Y+H).
	W, H float64
}

// Page is an ordered list of draw operations.
type Page struct {
	Index int
	Ops   []DrawOp
}

// Texts returns the text of every text op on the page, in draw order.
func (p Page) Texts() []string {
	var out []string
	for _, op := range p.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

// BodyTexts returns the text of body text ops, in draw order.
func (p Page) BodyTexts() []string {
	var out []string
	for _, op := range p.Ops {
		if op.Kind == OpText && op.Region == RegionBody {
			out = append(out, op.Text)
		}
	}
	return out
}

// Images returns the image ops on the page.
func (p Page) Images() []DrawOp {
	var out []DrawOp
	for _, op := range p.Ops {
		if op.Kind == OpImage {
			out = append(out, op)
		}
	}
	return out
}
