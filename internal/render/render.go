// Package render drives a layout onto a document backend and serialises it.
package render

import (
	"bytes"
	"fmt"

	"github.com/csg33k/hrdoc-generator/internal/domain"
	"github.com/csg33k/hrdoc-generator/internal/layout"
	"github.com/csg33k/hrdoc-generator/internal/ports"
)

// Renderer lays out a request and serialises the pages.
type Renderer struct {
	engine  *layout.Engine
	factory ports.DocumentFactory
}

// New returns a Renderer.
func New(engine *layout.Engine, factory ports.DocumentFactory) *Renderer {
	return &Renderer{engine: engine, factory: factory}
}

// Result is a finished render.
type Result struct {
	Pages []domain.Page
	Bytes []byte
}

// Render lays out req and serialises it. On error no bytes are returned.
func (r *Renderer) Render(req domain.RenderRequest) (*Result, error) {
	pages := r.engine.Layout(req)
	doc := r.factory.NewDocument(Meta(r.engine.Config(), &req))
	out, err := Write(doc, pages, &req)
	if err != nil {
		return nil, err
	}
	return &Result{Pages: pages, Bytes: out}, nil
}

// Meta describes the document for req under cfg.
func Meta(cfg layout.Config, req *domain.RenderRequest) ports.DocumentMeta {
	return ports.DocumentMeta{
		Title:      req.DocumentTitle,
		CreatedAt:  req.GeneratedAt,
		PageWidth:  cfg.PageWidth,
		PageHeight: cfg.PageHeight,
	}
}

// Write replays pages onto doc and returns the serialised bytes. Every
// backend error is fatal and wrapped with domain.ErrSerialize.
func Write(doc ports.Document, pages []domain.Page, req *domain.RenderRequest) ([]byte, error) {
	for _, p := range pages {
		doc.AddPage()
		for _, op := range p.Ops {
			switch op.Kind {
			case domain.OpText:
				doc.AddText(op.Text, op.X, op.Y, op.Style, op.Size, op.Color)
			case domain.OpLine:
				doc.AddLine(op.X, op.Y, op.X+op.W, op.Y+op.H)
			case domain.OpImage:
				img := req.Asset(op.Role)
				if img == nil {
					return nil, fmt.Errorf("%w: page %d references missing %s image", domain.ErrSerialize, p.Index+1, op.Role)
				}
				if err := doc.AddImage(op.Role, img, op.X, op.Y, op.W, op.H); err != nil {
					return nil, fmt.Errorf("%w: page %d %s image: %v", domain.ErrSerialize, p.Index+1, op.Role, err)
				}
			}
		}
	}
	var buf bytes.Buffer
	if err := doc.Serialize(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSerialize, err)
	}
	return buf.Bytes(), nil
}
