package handlers

import (
	"net/http"

	"github.com/csg33k/hrdoc-generator/internal/domain"
	"github.com/csg33k/hrdoc-generator/internal/templates"
)

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListTemplates(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render(w, r, templates.Templates(list))
}

// createTemplate stores a template; pasted HTML in the body is stripped.
func (h *Handler) createTemplate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	t := &domain.Template{
		Name:        r.FormValue("name"),
		Type:        r.FormValue("type"),
		Description: r.FormValue("description"),
		Body:        r.FormValue("body"),
	}
	if err := h.svc.SaveTemplate(r.Context(), t); err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderTemplateRows(w, r)
}

func (h *Handler) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", 400)
		return
	}
	if err := h.svc.DeleteTemplate(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderTemplateRows(w, r)
}

func (h *Handler) renderTemplateRows(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListTemplates(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render(w, r, templates.TemplateRows(list))
}
