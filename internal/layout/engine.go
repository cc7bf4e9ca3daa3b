// Package layout turns resolved document text into fixed-size pages of
// positioned draw operations.
//
// Each page has a header (logo top-left, issue date top-right), a body of
// word-wrapped paragraphs, and a footer (generation stamp, page number,
// optional address line). A paragraph that is exactly a reserved image
// token ({{assinatura}}, {{carimbo}}) reserves a square image box instead
// of being drawn as text; the box is reserved whether or not the image was
// supplied. Layout is a pure function of the request and the Config.
package layout

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"strings"

	"github.com/csg33k/hrdoc-generator/internal/domain"
	"github.com/csg33k/hrdoc-generator/internal/resolver"
)

// Engine lays out render requests. It holds no per-request state and is
// safe for concurrent use.
type Engine struct {
	cfg     Config
	measure Measurer
	log     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger image failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New returns an Engine. A nil Measurer falls back to Average.
func New(cfg Config, m Measurer, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if m == nil {
		m = Average{}
	}
	e := &Engine{cfg: cfg, measure: m, log: slog.Default()}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// MustNew is New that panics on an invalid Config.
func MustNew(cfg Config, m Measurer, opts ...Option) *Engine {
	e, err := New(cfg, m, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Config returns the engine's policy.
func (e *Engine) Config() Config { return e.cfg }

// placedImage is an asset that passed validation, with the pixel size to
// lay it out by.
type placedImage struct {
	w, h int
}

type region struct {
	page int
	role domain.ImageRole
	x, y float64
}

type pager struct {
	e       *Engine
	req     *domain.RenderRequest
	logo    *placedImage
	pages   []domain.Page
	regions []region
	y       float64
}

// Layout produces the page sequence for req. It never fails: unusable
// images are dropped (and logged), empty text yields a single page with
// header and footer only.
func (e *Engine) Layout(req domain.RenderRequest) []domain.Page {
	images := e.checkImages(&req)

	p := &pager{e: e, req: &req, logo: images[domain.RoleLogo]}
	p.newPage()
	p.title()
	p.body()
	p.placeImages(images)
	p.footers()
	return p.pages
}

// checkImages validates every supplied asset. Assets whose bytes do not
// decode, or whose role names a different slot, are treated as absent.
func (e *Engine) checkImages(req *domain.RenderRequest) map[domain.ImageRole]*placedImage {
	out := map[domain.ImageRole]*placedImage{}
	supplied, failed := 0, 0
	for _, role := range []domain.ImageRole{domain.RoleLogo, domain.RoleSignature, domain.RoleStamp} {
		a := req.Asset(role)
		if a == nil {
			continue
		}
		supplied++
		if a.Role != "" && a.Role != role {
			failed++
			e.log.Warn("image dropped from layout", "role", role, "asset_role", a.Role, "reason", "role does not match slot")
			continue
		}
		pi, err := decodeAsset(a)
		if err != nil {
			failed++
			e.log.Warn("image dropped from layout", "role", role, "err", err)
			continue
		}
		out[role] = pi
	}
	if supplied > 0 && failed == supplied {
		e.log.Error("no supplied image could be placed", "supplied", supplied)
	}
	return out
}

func decodeAsset(a *domain.ImageAsset) (*placedImage, error) {
	if len(a.Bytes) == 0 {
		return nil, fmt.Errorf("%w: %s image has no content", domain.ErrUnsupportedImage, a.Role)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(a.Bytes))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrUnsupportedImage, a.Role, err)
	}
	switch format {
	case "png", "jpeg", "gif":
	default:
		return nil, fmt.Errorf("%w: %s format %q", domain.ErrUnsupportedImage, a.Role, format)
	}
	w, h := a.Width, a.Height
	if w <= 0 || h <= 0 {
		w, h = cfg.Width, cfg.Height
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %s has no dimensions", domain.ErrUnsupportedImage, a.Role)
	}
	return &placedImage{w: w, h: h}, nil
}

// ── Header ──────────────────────────────────────────────────────────────────

func (p *pager) newPage() {
	cfg := p.e.cfg
	p.pages = append(p.pages, domain.Page{Index: len(p.pages)})

	logoH := 0.0
	if p.logo != nil {
		logoH = min(ScaleToWidth(p.logo.w, p.logo.h, cfg.LogoWidth), cfg.MaxLogoHeight)
		// Logo slot is fixed per page; the image itself is drawn in placeImages.
		p.regions = append(p.regions, region{
			page: len(p.pages) - 1,
			role: domain.RoleLogo,
			x:    cfg.Margin,
			y:    cfg.Margin,
		})
	}

	issued := p.req.GeneratedAt
	if p.req.IssueDate != nil {
		issued = *p.req.IssueDate
	}
	label := fmt.Sprintf(cfg.IssueLabel, issued.Format(cfg.DateFormat))
	labelW := p.e.measure.Width(label, domain.StyleRegular, cfg.HeaderSize)
	p.add(domain.DrawOp{
		Kind:   domain.OpText,
		Region: domain.RegionHeader,
		Text:   label,
		Size:   cfg.HeaderSize,
		X:      cfg.PageWidth - cfg.Margin - labelW,
		Y:      cfg.Margin + cfg.HeaderSize*ptToMM,
	})

	p.y = cfg.Margin + max(logoH, cfg.LineHeight) + cfg.HeaderGap
}

func (p *pager) title() {
	cfg := p.e.cfg
	if strings.TrimSpace(p.req.DocumentTitle) == "" {
		return
	}
	p.add(domain.DrawOp{
		Kind:   domain.OpText,
		Region: domain.RegionTitle,
		Text:   strings.TrimSpace(p.req.DocumentTitle),
		Style:  domain.StyleBold,
		Size:   cfg.TitleSize,
		X:      cfg.Margin,
		Y:      p.y,
	})
	p.y += cfg.TitleGap
	p.add(domain.DrawOp{
		Kind:   domain.OpLine,
		Region: domain.RegionTitle,
		X:      cfg.Margin,
		Y:      p.y,
		W:      cfg.usableWidth(),
	})
	p.y += cfg.DividerGap
}

// ── Body ────────────────────────────────────────────────────────────────────

func (p *pager) body() {
	cfg := p.e.cfg
	text := strings.ReplaceAll(p.req.ResolvedText, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return
	}
	for _, para := range strings.Split(text, "\n") {
		if role, ok := resolver.ImageToken(para); ok {
			if !p.fit(cfg.ImageBox) {
				return
			}
			p.regions = append(p.regions, region{
				page: len(p.pages) - 1,
				role: role,
				x:    cfg.Margin,
				y:    p.y,
			})
			p.y += cfg.ImageBox + cfg.ImageGap
			continue
		}
		lines := Wrap(p.e.measure, para, domain.StyleRegular, cfg.BodySize, cfg.usableWidth())
		if len(lines) == 0 {
			// Blank paragraph: vertical space only, never a page break.
			p.y += cfg.LineHeight
			continue
		}
		for _, line := range lines {
			if !p.fit(0) {
				return
			}
			p.add(domain.DrawOp{
				Kind:   domain.OpText,
				Region: domain.RegionBody,
				Text:   line,
				Size:   cfg.BodySize,
				X:      cfg.Margin,
				Y:      p.y,
			})
			p.y += cfg.LineHeight
		}
	}
}

// fit reports whether an element extending height below the cursor can be
// placed, starting a new page first under Paginate. It returns false when
// the body must stop (Truncate).
func (p *pager) fit(height float64) bool {
	if p.y+height <= p.e.cfg.threshold() {
		return true
	}
	if p.e.cfg.Overflow == Truncate {
		p.e.log.Warn("body truncated at page end", "page", len(p.pages), "y", p.y)
		return false
	}
	p.newPage()
	return true
}

// ── Images ──────────────────────────────────────────────────────────────────

func (p *pager) placeImages(images map[domain.ImageRole]*placedImage) {
	cfg := p.e.cfg
	for _, r := range p.regions {
		img := images[r.role]
		if img == nil {
			continue
		}
		var w, h float64
		if r.role == domain.RoleLogo {
			w, h = cfg.LogoWidth, ScaleToWidth(img.w, img.h, cfg.LogoWidth)
			if h > cfg.MaxLogoHeight {
				w, h = cfg.MaxLogoHeight*float64(img.w)/float64(img.h), cfg.MaxLogoHeight
			}
		} else {
			w, h = FitBox(img.w, img.h, cfg.ImageBox)
		}
		pg := &p.pages[r.page]
		pg.Ops = append(pg.Ops, domain.DrawOp{
			Kind:   domain.OpImage,
			Region: regionFor(r.role),
			Role:   r.role,
			X:      r.x,
			Y:      r.y,
			W:      w,
			H:      h,
		})
	}
}

func regionFor(role domain.ImageRole) domain.Region {
	if role == domain.RoleLogo {
		return domain.RegionHeader
	}
	return domain.RegionBody
}

// ── Footer ──────────────────────────────────────────────────────────────────

func (p *pager) footers() {
	cfg := p.e.cfg
	at := p.req.GeneratedAt
	stamp := fmt.Sprintf(cfg.GeneratedLabel, at.Format(cfg.DateFormat), at.Format(cfg.TimeFormat))
	y := cfg.PageHeight - cfg.FooterOffset
	address := strings.TrimSpace(p.req.FooterAddress)
	total := len(p.pages)

	for i := range p.pages {
		pg := &p.pages[i]
		if address != "" {
			w := p.e.measure.Width(address, domain.StyleRegular, cfg.FooterSize)
			pg.Ops = append(pg.Ops, footerText(address, (cfg.PageWidth-w)/2, y-cfg.FooterGap, cfg.FooterSize))
		}
		pg.Ops = append(pg.Ops, footerText(stamp, cfg.Margin, y, cfg.FooterSize))
		if cfg.PageLabel != "" {
			label := fmt.Sprintf(cfg.PageLabel, i+1, total)
			w := p.e.measure.Width(label, domain.StyleRegular, cfg.FooterSize)
			pg.Ops = append(pg.Ops, footerText(label, cfg.PageWidth-cfg.Margin-w, y, cfg.FooterSize))
		}
	}
}

func footerText(s string, x, y, size float64) domain.DrawOp {
	return domain.DrawOp{
		Kind:   domain.OpText,
		Region: domain.RegionFooter,
		Text:   s,
		Size:   size,
		Color:  domain.FooterInk,
		X:      x,
		Y:      y,
	}
}

func (p *pager) add(op domain.DrawOp) {
	pg := &p.pages[len(p.pages)-1]
	pg.Ops = append(pg.Ops, op)
}
