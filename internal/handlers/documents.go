package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/csg33k/hrdoc-generator/internal/adapters/filestore"
	"github.com/csg33k/hrdoc-generator/internal/domain"
	"github.com/csg33k/hrdoc-generator/internal/templates"
)

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
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
	history, err := h.repo.ListDocuments(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render(w, r, templates.Documents(templates.DocumentsPage{Employees: employees, Templates: tpls, History: history}))
}

func (h *Handler) generateDocument(w http.ResponseWriter, r *http.Request) {
	empID, tplID, ok := documentIDs(w, r)
	if !ok {
		return
	}
	doc, _, err := h.svc.Generate(r.Context(), empID, tplID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render(w, r, templates.Generated(doc))
}

func (h *Handler) previewDocument(w http.ResponseWriter, r *http.Request) {
	empID, tplID, ok := documentIDs(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Preview(r.Context(), empID, tplID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render(w, r, templates.Preview(templates.PreviewData{
		EmployeeName: p.EmployeeName,
		TemplateName: p.TemplateName,
		Text:         p.Text,
		Unknown:      p.Unknown,
	}))
}

// documentIDs reads employee_id and template_id, answering 400 when either
// is missing.
func documentIDs(w http.ResponseWriter, r *http.Request) (empID, tplID int64, ok bool) {
	var err error
	if empID, err = formID(r, "employee_id"); err != nil {
		http.Error(w, err.Error(), 400)
		return 0, 0, false
	}
	if tplID, err = formID(r, "template_id"); err != nil {
		http.Error(w, err.Error(), 400)
		return 0, 0, false
	}
	return empID, tplID, true
}

func (h *Handler) downloadDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", 400)
		return
	}
	doc, data, err := h.svc.Document(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	filename := filestore.SanitizeName(doc.TemplateName+" "+doc.EmployeeName, "documento") + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// uploadAsset stores an image and answers with its storage key, which is
// then entered as an employee or affiliate image reference.
func (h *Handler) uploadAsset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", 400)
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(io.LimitReader(f, maxUpload))
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	role := domain.ImageRole(r.FormValue("role"))
	if role == "" {
		role = domain.RoleLogo
	}
	if _, err := h.images.Decode(role, raw); err != nil {
		h.fail(w, r, err)
		return
	}
	key, err := h.files.Put("assets", hdr.Filename, raw)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.log.Info("asset uploaded", "key", key, "bytes", len(raw))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	io.WriteString(w, key)
}
