package layout

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/csg33k/hrdoc-generator/internal/domain"
)

// Overflow selects what happens to body content that does not fit on the
// current page.
type Overflow string

const (
	// Paginate continues on a new page, repeating the header.
	Paginate Overflow = "paginate"
	// Truncate stops the body at the first element that does not fit.
	Truncate Overflow = "truncate"
)

// Config is the layout policy. Lengths are millimetres, font sizes points.
type Config struct {
	PageWidth  float64 `yaml:"page_width"`
	PageHeight float64 `yaml:"page_height"`
	Margin     float64 `yaml:"margin"`

	LogoWidth     float64 `yaml:"logo_width"`
	MaxLogoHeight float64 `yaml:"max_logo_height"`
	HeaderGap     float64 `yaml:"header_gap"`
	HeaderSize    float64 `yaml:"header_size"`

	TitleSize  float64 `yaml:"title_size"`
	TitleGap   float64 `yaml:"title_gap"`
	DividerGap float64 `yaml:"divider_gap"`

	BodySize   float64 `yaml:"body_size"`
	LineHeight float64 `yaml:"line_height"`

	ImageBox float64 `yaml:"image_box"`
	ImageGap float64 `yaml:"image_gap"`

	// BottomReserve is the space kept free for the footer; no body
	// baseline or image edge goes below PageHeight-BottomReserve.
	BottomReserve float64 `yaml:"bottom_reserve"`
	FooterOffset  float64 `yaml:"footer_offset"`
	FooterGap     float64 `yaml:"footer_gap"`
	FooterSize    float64 `yaml:"footer_size"`

	Overflow Overflow `yaml:"overflow"`

	DateFormat     string `yaml:"date_format"`
	TimeFormat     string `yaml:"time_format"`
	IssueLabel     string `yaml:"issue_label"`     // one %s: date
	GeneratedLabel string `yaml:"generated_label"` // two %s: date, time
	PageLabel      string `yaml:"page_label"`      // two %d: page, total; empty disables
}

// DefaultConfig is an A4 portrait page with pt-BR labels.
func DefaultConfig() Config {
	return Config{
		PageWidth:      210,
		PageHeight:     297,
		Margin:         20,
		LogoWidth:      40,
		MaxLogoHeight:  30,
		HeaderGap:      10,
		HeaderSize:     10,
		TitleSize:      16,
		TitleGap:       15,
		DividerGap:     10,
		BodySize:       11,
		LineHeight:     7,
		ImageBox:       45,
		ImageGap:       5,
		BottomReserve:  30,
		FooterOffset:   10,
		FooterGap:      5,
		FooterSize:     9,
		Overflow:       Paginate,
		DateFormat:     "02/01/2006",
		TimeFormat:     "15:04:05",
		IssueLabel:     "Data: %s",
		GeneratedLabel: "Documento gerado em %s às %s",
		PageLabel:      "Página %d de %d",
	}
}

// LoadConfig reads a YAML policy file over DefaultConfig. Keys absent from
// the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse layout config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("layout config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseOverflow accepts "paginate" or "truncate", in any case.
func ParseOverflow(s string) (Overflow, error) {
	switch o := Overflow(strings.ToLower(strings.TrimSpace(s))); o {
	case Paginate, Truncate:
		return o, nil
	}
	return "", fmt.Errorf("%w: overflow policy %q", domain.ErrInvalidInput, s)
}

// Validate rejects geometry that leaves no room for content. A valid page
// always fits the header, the title block and one image box, which is
// what guarantees pagination terminates.
func (c Config) Validate() error {
	var errs []error
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"page_width", c.PageWidth},
		{"page_height", c.PageHeight},
		{"logo_width", c.LogoWidth},
		{"max_logo_height", c.MaxLogoHeight},
		{"header_size", c.HeaderSize},
		{"title_size", c.TitleSize},
		{"body_size", c.BodySize},
		{"line_height", c.LineHeight},
		{"image_box", c.ImageBox},
		{"footer_size", c.FooterSize},
	} {
		if f.v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", f.name))
		}
	}
	if c.Margin < 0 || c.HeaderGap < 0 || c.TitleGap < 0 || c.DividerGap < 0 ||
		c.ImageGap < 0 || c.BottomReserve < 0 || c.FooterOffset < 0 || c.FooterGap < 0 {
		errs = append(errs, errors.New("gaps and margins must not be negative"))
	}
	if c.PageWidth-2*c.Margin <= 0 {
		errs = append(errs, errors.New("margins leave no usable width"))
	}
	if _, err := ParseOverflow(string(c.Overflow)); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if c.firstBodyTop()+c.ImageBox > c.threshold() || c.firstBodyTop()+c.LineHeight > c.threshold() {
		return errors.New("page too small: header, title and one image box do not fit above the footer reserve")
	}
	return nil
}

func (c Config) usableWidth() float64 { return c.PageWidth - 2*c.Margin }

func (c Config) threshold() float64 { return c.PageHeight - c.BottomReserve }

func (c Config) headerHeight() float64 {
	return max(c.MaxLogoHeight, c.LineHeight)
}

// firstBodyTop is the worst-case cursor after the header and title block.
func (c Config) firstBodyTop() float64 {
	return c.Margin + c.headerHeight() + c.HeaderGap + c.TitleGap + c.DividerGap
}
