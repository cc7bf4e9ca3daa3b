// Package pdf is the fpdf-backed document backend. Pages are A4 portrait in
// millimetres unless the layout config says otherwise; text is drawn in the
// Helvetica core font through the cp1252 translator so Portuguese accents
// survive.
package pdf

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/csg33k/hrdoc-generator/internal/domain"
	"github.com/csg33k/hrdoc-generator/internal/ports"
)

const (
	fontFamily = "Helvetica"
	creator    = "hrdoc-generator"
)

// Factory creates fpdf documents.
type Factory struct {
	log *slog.Logger
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithLogger sets the logger text the core font cannot encode is reported to.
func WithLogger(l *slog.Logger) FactoryOption {
	return func(f *Factory) { f.log = l }
}

// NewFactory returns the fpdf backend.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{log: slog.Default()}
	for _, o := range opts {
		o(f)
	}
	return f
}

// NewDocument starts an empty document. Creation and modification dates are
// pinned to meta.CreatedAt so identical input gives identical bytes.
func (f *Factory) NewDocument(meta ports.DocumentMeta) ports.Document {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: meta.PageWidth, Ht: meta.PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(meta.CreatedAt)
	pdf.SetModificationDate(meta.CreatedAt)
	pdf.SetCreator(creator, false)
	if meta.Title != "" {
		pdf.SetTitle(meta.Title, true)
	}
	pdf.SetFont(fontFamily, "", 11)
	return &document{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		images: make(map[domain.ImageRole]string),
		log:    f.log,
	}
}

type document struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	images map[domain.ImageRole]string // role -> fpdf image type
	log    *slog.Logger
}

func (d *document) AddPage() { d.pdf.AddPage() }

func (d *document) AddText(text string, x, y float64, style domain.FontStyle, size float64, ink domain.Gray) {
	d.pdf.SetFont(fontFamily, string(style), size)
	g := int(ink)
	d.pdf.SetTextColor(g, g, g)
	if lost := unencodable(text); len(lost) > 0 {
		d.log.Warn("characters outside cp1252 replaced in pdf text", "chars", string(lost), "text", text)
	}
	d.pdf.Text(x, y, d.tr(text))
}

// unencodable returns the runes of s the cp1252 core font cannot show.
func unencodable(s string) []rune {
	var out []rune
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			out = append(out, r)
		}
	}
	return out
}

func (d *document) AddLine(x1, y1, x2, y2 float64) {
	d.pdf.SetDrawColor(0, 0, 0)
	d.pdf.SetLineWidth(0.3)
	d.pdf.Line(x1, y1, x2, y2)
}

// AddImage registers each slot role once per document and draws it in the
// box.
func (d *document) AddImage(role domain.ImageRole, img *domain.ImageAsset, x, y, w, h float64) error {
	name := string(role)
	tp, ok := d.images[role]
	if !ok {
		var err error
		if tp, err = imageType(img); err != nil {
			return err
		}
		d.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: tp}, bytes.NewReader(img.Bytes))
		if err := d.pdf.Error(); err != nil {
			return fmt.Errorf("register %s image: %w", name, err)
		}
		d.images[role] = tp
	}
	d.pdf.ImageOptions(name, x, y, w, h, false, fpdf.ImageOptions{ImageType: tp}, 0, "")
	return d.pdf.Error()
}

func (d *document) Serialize(w io.Writer) error {
	if err := d.pdf.Error(); err != nil {
		return err
	}
	return d.pdf.Output(w)
}

// imageType maps an asset's encoding to the fpdf image type name.
func imageType(img *domain.ImageAsset) (string, error) {
	format := strings.ToLower(img.Format)
	if format == "" {
		_, f, err := image.DecodeConfig(bytes.NewReader(img.Bytes))
		if err != nil {
			return "", fmt.Errorf("%w: %s image: %v", domain.ErrUnsupportedImage, img.Role, err)
		}
		format = f
	}
	switch format {
	case "png":
		return "PNG", nil
	case "jpeg", "jpg":
		return "JPG", nil
	case "gif":
		return "GIF", nil
	}
	return "", fmt.Errorf("%w: %s image is %s", domain.ErrUnsupportedImage, img.Role, format)
}
