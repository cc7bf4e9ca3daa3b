package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/csg33k/hrdoc-generator/internal/docgen"
	"github.com/csg33k/hrdoc-generator/internal/domain"
	"github.com/csg33k/hrdoc-generator/internal/ports"
	"github.com/csg33k/hrdoc-generator/internal/templates"
)

// maxUpload caps spreadsheet and image uploads.
const maxUpload = 10 << 20

// ImageDecoder validates uploaded images before they are stored.
type ImageDecoder interface {
	Decode(role domain.ImageRole, raw []byte) (*domain.ImageAsset, error)
}

type Handler struct {
	svc    *docgen.Service
	repo   ports.Repository
	files  ports.FileStore
	images ImageDecoder
	log    *slog.Logger
}

func New(svc *docgen.Service, repo ports.Repository, files ports.FileStore, images ImageDecoder, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, repo: repo, files: files, images: images, log: log}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)

	mux.HandleFunc("GET /employees", h.listEmployees)
	mux.HandleFunc("POST /employees", h.createEmployee)
	mux.HandleFunc("DELETE /employees/{id}", h.deleteEmployee)
	mux.HandleFunc("POST /employees/import", h.importEmployees)
	mux.HandleFunc("GET /employees/export", h.exportEmployees)
	mux.HandleFunc("POST /employees/dedupe", h.cleanupEmployees)
	mux.HandleFunc("POST /employees/clean", h.cleanupEmployees)

	mux.HandleFunc("GET /templates", h.listTemplates)
	mux.HandleFunc("POST /templates", h.createTemplate)
	mux.HandleFunc("DELETE /templates/{id}", h.deleteTemplate)

	mux.HandleFunc("GET /affiliates", h.listAffiliates)
	mux.HandleFunc("POST /affiliates", h.createAffiliate)
	mux.HandleFunc("DELETE /affiliates/{id}", h.deleteAffiliate)

	mux.HandleFunc("GET /documents", h.listDocuments)
	mux.HandleFunc("POST /documents", h.generateDocument)
	mux.HandleFunc("GET /documents/preview", h.previewDocument)
	mux.HandleFunc("GET /documents/{id}/pdf", h.downloadDocument)

	mux.HandleFunc("POST /assets", h.uploadAsset)
	return mux
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	employees, err := h.repo.ListEmployees(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	tpls, err := h.repo.ListTemplates(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	affiliates, err := h.repo.ListAffiliates(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	docs, err := h.repo.ListDocuments(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	d := templates.Dashboard{
		Employees:  len(employees),
		Templates:  len(tpls),
		Affiliates: len(affiliates),
		Documents:  len(docs),
		Recent:     docs[:min(len(docs), 10)],
	}
	render(w, r, templates.Index(d))
}

// fail maps domain errors to HTTP statuses. Server-side failures are logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptySheet),
		errors.Is(err, domain.ErrUnsupportedImage):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	http.Error(w, err.Error(), status)
}

// render writes a templ component to the response.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), 500)
	}
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(r.PathValue(key), 10, 64)
}

// formID reads a required positive id from a form or query value.
func formID(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.FormValue(key)), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return id, nil
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
