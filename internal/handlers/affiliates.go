package handlers

import (
	"net/http"
	"strings"

	"github.com/csg33k/hrdoc-generator/internal/domain"
	"github.com/csg33k/hrdoc-generator/internal/templates"
)

func (h *Handler) listAffiliates(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListAffiliates(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render(w, r, templates.Affiliates(list))
}

func (h *Handler) createAffiliate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	a := &domain.Affiliate{
		Name:         strings.TrimSpace(r.FormValue("name")),
		CNPJ:         stripNonDigits(r.FormValue("cnpj")),
		Address:      strings.TrimSpace(r.FormValue("address")),
		LogoURL:      strings.TrimSpace(r.FormValue("logo_url")),
		SignatureURL: strings.TrimSpace(r.FormValue("signature_url")),
		StampURL:     strings.TrimSpace(r.FormValue("stamp_url")),
	}
	if a.Name == "" {
		http.Error(w, "name is required", 400)
		return
	}
	if err := h.repo.CreateAffiliate(r.Context(), a); err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderAffiliateRows(w, r)
}

func (h *Handler) deleteAffiliate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", 400)
		return
	}
	if err := h.repo.DeleteAffiliate(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderAffiliateRows(w, r)
}

func (h *Handler) renderAffiliateRows(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListAffiliates(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render(w, r, templates.AffiliateRows(list))
}
