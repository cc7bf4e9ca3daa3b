package layout_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/csg33k/hrdoc-generator/internal/domain"
	"github.com/csg33k/hrdoc-generator/internal/layout"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var generatedAt = time.Date(2025, 6, 3, 14, 5, 9, 0, time.UTC)

// pngAsset returns a valid PNG asset of w×h pixels.
func pngAsset(t *testing.T, role domain.ImageRole, w, h int) *domain.ImageAsset {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return &domain.ImageAsset{Role: role, Width: w, Height: h, Bytes: buf.Bytes(), Format: "png"}
}

func newEngine(t *testing.T, cfg layout.Config, opts ...layout.Option) *layout.Engine {
	t.Helper()
	e, err := layout.New(cfg, layout.Monospace(2), opts...)
	if err != nil {
		t.Fatalf("layout.New: %v", err)
	}
	return e
}

func threshold(cfg layout.Config) float64 { return cfg.PageHeight - cfg.BottomReserve }

func bodyOps(pages []domain.Page) []domain.DrawOp {
	var out []domain.DrawOp
	for _, p := range pages {
		for _, op := range p.Ops {
			if op.Region == domain.RegionBody {
				out = append(out, op)
			}
		}
	}
	return out
}

func squash(s string) string { return strings.Join(strings.Fields(s), "") }

func longParagraph(words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = []string{"colaborador", "empresa", "declara", "que", "para", "os", "devidos", "fins"}[i%8]
	}
	return strings.Join(parts, " ")
}

// ---------------------------------------------------------------------------
// Scenario
// ---------------------------------------------------------------------------

func TestLayout_SignatureScenario(t *testing.T) {
	cfg := layout.DefaultConfig()
	e := newEngine(t, cfg)
	pages := e.Layout(domain.RenderRequest{
		ResolvedText: "Caro João, sua função é Vendedor.\n{{assinatura}}",
		Signature:    pngAsset(t, domain.RoleSignature, 200, 100),
		GeneratedAt:  generatedAt,
	})
	if len(pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(pages))
	}
	if diff := cmp.Diff([]string{"Caro João, sua função é Vendedor."}, pages[0].BodyTexts()); diff != "" {
		t.Errorf("body text (-want +got):\n%s", diff)
	}
	imgs := pages[0].Images()
	if len(imgs) != 1 || imgs[0].Role != domain.RoleSignature {
		t.Fatalf("images = %+v, want one signature", imgs)
	}
	line := bodyOps(pages)[0]
	if imgs[0].Y != line.Y+cfg.LineHeight {
		t.Errorf("signature Y = %v, want the slot after the text line (%v)", imgs[0].Y, line.Y+cfg.LineHeight)
	}
	// 200×100 fitted into a 45 box keeps the aspect ratio.
	if imgs[0].W != cfg.ImageBox || imgs[0].H != cfg.ImageBox/2 {
		t.Errorf("signature size = %vx%v, want %vx%v", imgs[0].W, imgs[0].H, cfg.ImageBox, cfg.ImageBox/2)
	}
}

func TestLayout_Deterministic(t *testing.T) {
	e := newEngine(t, layout.DefaultConfig())
	req := domain.RenderRequest{
		ResolvedText:  "Título\n\n" + longParagraph(900) + "\n{{carimbo}}\n{{assinatura}}",
		DocumentTitle: "Declaração",
		Logo:          pngAsset(t, domain.RoleLogo, 300, 120),
		Signature:     pngAsset(t, domain.RoleSignature, 80, 40),
		Stamp:         pngAsset(t, domain.RoleStamp, 64, 64),
		FooterAddress: "Rua A, 100 - São Paulo/SP",
		GeneratedAt:   generatedAt,
	}
	first := e.Layout(req)
	second := e.Layout(req)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("layout not deterministic (-first +second):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// Overflow policies
// ---------------------------------------------------------------------------

func TestLayout_PaginateKeepsEveryLine(t *testing.T) {
	cfg := layout.DefaultConfig()
	cfg.Overflow = layout.Paginate
	e := newEngine(t, cfg)

	for _, words := range []int{0, 1, 50, 400, 5000} {
		text := longParagraph(words)
		pages := e.Layout(domain.RenderRequest{ResolvedText: text, GeneratedAt: generatedAt})
		var got strings.Builder
		for _, op := range bodyOps(pages) {
			if op.Y > threshold(cfg) {
				t.Fatalf("%d words: line at y=%v below threshold %v", words, op.Y, threshold(cfg))
			}
			got.WriteString(op.Text)
		}
		if squash(got.String()) != squash(text) {
			t.Errorf("%d words: text not conserved across %d pages", words, len(pages))
		}
		if words == 5000 && len(pages) < 2 {
			t.Errorf("5000 words fit on %d page(s)", len(pages))
		}
		for i, p := range pages {
			if p.Index != i {
				t.Errorf("page %d has Index %d", i, p.Index)
			}
		}
	}
}

func TestLayout_TruncateStopsAtThreshold(t *testing.T) {
	cfg := layout.DefaultConfig()
	cfg.Overflow = layout.Truncate
	e := newEngine(t, cfg)

	text := longParagraph(5000) + "\n{{assinatura}}"
	pages := e.Layout(domain.RenderRequest{
		ResolvedText: text,
		Signature:    pngAsset(t, domain.RoleSignature, 10, 10),
		GeneratedAt:  generatedAt,
	})
	if len(pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(pages))
	}
	var got strings.Builder
	for _, op := range bodyOps(pages) {
		if op.Kind == domain.OpImage {
			t.Error("image placed after truncation")
		}
		if op.Y > threshold(cfg) {
			t.Errorf("line at y=%v below threshold %v", op.Y, threshold(cfg))
		}
		got.WriteString(op.Text)
	}
	if !strings.HasPrefix(squash(text), squash(got.String())) {
		t.Error("truncated body is not a prefix of the input")
	}
}

func TestLayout_ImageBoxPaginates(t *testing.T) {
	cfg := layout.DefaultConfig()
	e := newEngine(t, cfg)
	// Fill the first page almost to the threshold, then ask for a stamp.
	text := strings.Repeat("linha\n", 30) + "{{carimbo}}"
	pages := e.Layout(domain.RenderRequest{
		ResolvedText: text,
		Stamp:        pngAsset(t, domain.RoleStamp, 50, 50),
		GeneratedAt:  generatedAt,
	})
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}
	imgs := pages[1].Images()
	if len(imgs) != 1 {
		t.Fatalf("stamp not on second page: %+v", imgs)
	}
	if imgs[0].Y+imgs[0].H > threshold(cfg) {
		t.Errorf("stamp bottom %v below threshold", imgs[0].Y+imgs[0].H)
	}
}

// ---------------------------------------------------------------------------
// Images
// ---------------------------------------------------------------------------

func TestLayout_MissingImageKeepsReservedSpace(t *testing.T) {
	e := newEngine(t, layout.DefaultConfig())
	text := "Antes\n{{assinatura}}\nDepois"
	with := e.Layout(domain.RenderRequest{
		ResolvedText: text,
		Signature:    pngAsset(t, domain.RoleSignature, 40, 20),
		GeneratedAt:  generatedAt,
	})
	without := e.Layout(domain.RenderRequest{ResolvedText: text, GeneratedAt: generatedAt})

	if n := len(without[0].Images()); n != 0 {
		t.Errorf("images without asset = %d, want 0", n)
	}
	strip := func(pages []domain.Page) []domain.DrawOp {
		var out []domain.DrawOp
		for _, op := range pages[0].Ops {
			if op.Kind != domain.OpImage {
				out = append(out, op)
			}
		}
		return out
	}
	if diff := cmp.Diff(strip(with), strip(without)); diff != "" {
		t.Errorf("text layout changed with image presence (-with +without):\n%s", diff)
	}
}

func TestLayout_CorruptImageDropped(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	e := newEngine(t, layout.DefaultConfig(), layout.WithLogger(logger))

	pages := e.Layout(domain.RenderRequest{
		ResolvedText: "{{assinatura}}",
		Signature:    &domain.ImageAsset{Role: domain.RoleSignature, Width: 10, Height: 10, Bytes: []byte("not an image")},
		Logo:         pngAsset(t, domain.RoleLogo, 40, 10),
		GeneratedAt:  generatedAt,
	})
	for _, op := range pages[0].Images() {
		if op.Role == domain.RoleSignature {
			t.Error("corrupt signature was placed")
		}
	}
	if len(pages[0].Images()) != 1 {
		t.Errorf("logo missing: %+v", pages[0].Images())
	}
	if !strings.Contains(logs.String(), "image dropped") {
		t.Errorf("failure not logged: %q", logs.String())
	}
}

func TestLayout_MisfiledImageDropped(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	e := newEngine(t, layout.DefaultConfig(), layout.WithLogger(logger))

	pages := e.Layout(domain.RenderRequest{
		ResolvedText: "{{assinatura}}\n{{carimbo}}",
		Signature:    pngAsset(t, domain.RoleStamp, 40, 40),
		Stamp:        pngAsset(t, domain.RoleStamp, 40, 40),
		GeneratedAt:  generatedAt,
	})
	var roles []domain.ImageRole
	for _, op := range pages[0].Images() {
		roles = append(roles, op.Role)
	}
	if diff := cmp.Diff([]domain.ImageRole{domain.RoleStamp}, roles); diff != "" {
		t.Errorf("placed roles (-want +got):\n%s", diff)
	}
	if !strings.Contains(logs.String(), "asset_role=stamp") {
		t.Errorf("mismatch not logged: %q", logs.String())
	}
}

func TestLayout_LogoOnEveryPage(t *testing.T) {
	cfg := layout.DefaultConfig()
	e := newEngine(t, cfg)
	pages := e.Layout(domain.RenderRequest{
		ResolvedText: longParagraph(3000),
		Logo:         pngAsset(t, domain.RoleLogo, 400, 100),
		GeneratedAt:  generatedAt,
	})
	if len(pages) < 2 {
		t.Fatalf("pages = %d, want several", len(pages))
	}
	for _, p := range pages {
		imgs := p.Images()
		if len(imgs) != 1 || imgs[0].Role != domain.RoleLogo {
			t.Fatalf("page %d images = %+v", p.Index, imgs)
		}
		if imgs[0].X != cfg.Margin || imgs[0].Y != cfg.Margin || imgs[0].W != cfg.LogoWidth || imgs[0].H != 10 {
			t.Errorf("page %d logo at %+v", p.Index, imgs[0])
		}
	}
}

// ---------------------------------------------------------------------------
// Header / footer
// ---------------------------------------------------------------------------

func TestLayout_EmptyTextSinglePage(t *testing.T) {
	e := newEngine(t, layout.DefaultConfig())
	pages := e.Layout(domain.RenderRequest{GeneratedAt: generatedAt})
	if len(pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(pages))
	}
	if n := len(bodyOps(pages)); n != 0 {
		t.Errorf("body ops = %d, want 0", n)
	}
	want := []string{"Data: 03/06/2025", "Documento gerado em 03/06/2025 às 14:05:09", "Página 1 de 1"}
	if diff := cmp.Diff(want, pages[0].Texts()); diff != "" {
		t.Errorf("texts (-want +got):\n%s", diff)
	}
}

func TestLayout_FooterAndIssueDate(t *testing.T) {
	cfg := layout.DefaultConfig()
	e := newEngine(t, cfg)
	issued := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	pages := e.Layout(domain.RenderRequest{
		ResolvedText:  "Texto",
		DocumentTitle: "Carta de Referência",
		FooterAddress: "Av. Brasil, 1",
		IssueDate:     &issued,
		GeneratedAt:   generatedAt,
	})
	var header, footer []domain.DrawOp
	for _, op := range pages[0].Ops {
		switch op.Region {
		case domain.RegionHeader:
			header = append(header, op)
		case domain.RegionFooter:
			footer = append(footer, op)
		}
	}
	if len(header) != 1 || header[0].Text != "Data: 15/01/2025" {
		t.Fatalf("header = %+v", header)
	}
	if right := header[0].X + layout.Monospace(2).Width(header[0].Text, "", 0); right != cfg.PageWidth-cfg.Margin {
		t.Errorf("issue date right edge = %v, want %v", right, cfg.PageWidth-cfg.Margin)
	}
	if len(footer) != 3 {
		t.Fatalf("footer = %+v", footer)
	}
	addr := footer[0]
	if addr.Text != "Av. Brasil, 1" || addr.X != (cfg.PageWidth-26)/2 {
		t.Errorf("address op = %+v", addr)
	}
	if footer[1].Y != cfg.PageHeight-cfg.FooterOffset || footer[1].Color != domain.FooterInk {
		t.Errorf("generated stamp op = %+v", footer[1])
	}
	texts := pages[0].Texts()
	if texts[1] != "Carta de Referência" {
		t.Errorf("title = %q", texts[1])
	}
}

// ---------------------------------------------------------------------------
// Config
// ---------------------------------------------------------------------------

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*layout.Config)
	}{
		{"zero line height", func(c *layout.Config) { c.LineHeight = 0 }},
		{"margins too wide", func(c *layout.Config) { c.Margin = 200 }},
		{"bad overflow", func(c *layout.Config) { c.Overflow = "spill" }},
		{"page too short", func(c *layout.Config) { c.PageHeight = 120 }},
		{"negative gap", func(c *layout.Config) { c.ImageGap = -1 }},
	}
	if err := layout.DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := layout.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
