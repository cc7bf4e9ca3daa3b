package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/csg33k/hrdoc-generator/internal/adapters/spreadsheet"
	"github.com/csg33k/hrdoc-generator/internal/domain"
	"github.com/csg33k/hrdoc-generator/internal/templates"
)

func (h *Handler) employeeList(r *http.Request) (templates.EmployeeList, error) {
	employees, err := h.repo.ListEmployees(r.Context())
	if err != nil {
		return templates.EmployeeList{}, err
	}
	affiliates, err := h.repo.ListAffiliates(r.Context())
	if err != nil {
		return templates.EmployeeList{}, err
	}
	return templates.EmployeeList{Employees: employees, Affiliates: affiliates}, nil
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	l, err := h.employeeList(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render(w, r, templates.Employees(l))
}

func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	e, err := parseEmployeeForm(r)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	if err := h.repo.CreateEmployee(r.Context(), e); err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderEmployeeRows(w, r)
}

func (h *Handler) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", 400)
		return
	}
	if err := h.repo.DeleteEmployee(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderEmployeeRows(w, r)
}

func (h *Handler) renderEmployeeRows(w http.ResponseWriter, r *http.Request) {
	l, err := h.employeeList(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render(w, r, templates.EmployeeRows(l))
}

func (h *Handler) importEmployees(w http.ResponseWriter, r *http.Request) {
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

	res, err := h.svc.ImportEmployees(r.Context(), f, hdr.Filename)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	s := templates.ImportSummary{Imported: res.Imported}
	for _, re := range res.Skipped {
		s.Skipped = append(s.Skipped, re.Error())
	}
	w.Header().Set("HX-Trigger", "employees-changed")
	render(w, r, templates.Imported(s))
}

func (h *Handler) exportEmployees(w http.ResponseWriter, r *http.Request) {
	xlsx := r.URL.Query().Get("format") == "xlsx"
	var buf bytes.Buffer
	if err := h.svc.ExportEmployees(r.Context(), &buf, xlsx); err != nil {
		h.fail(w, r, err)
		return
	}
	filename := fmt.Sprintf("colaboradores_%s", time.Now().Format("20060102"))
	if xlsx {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		filename += ".xlsx"
	} else {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		filename += ".csv"
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(buf.Bytes())
}

func (h *Handler) cleanupEmployees(w http.ResponseWriter, r *http.Request) {
	dups, empty, err := h.svc.CleanupEmployees(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("HX-Trigger", "employees-changed")
	render(w, r, templates.Cleaned(templates.CleanupSummary{Duplicates: dups, Empty: empty}))
}

// parseEmployeeForm reads the employee fields of a form. ID and timestamps
// are left for the caller.
func parseEmployeeForm(r *http.Request) (*domain.Employee, error) {
	v := func(name string) string { return strings.TrimSpace(r.FormValue(name)) }
	e := &domain.Employee{
		Name:             v("name"),
		Email:            v("email"),
		Phone:            v("phone"),
		Position:         v("position"),
		Department:       v("department"),
		Company:          v("company"),
		StoreName:        v("store_name"),
		RG:               v("rg"),
		CPF:              v("cpf"),
		CTPSNumber:       v("ctps_number"),
		CTPSSeries:       v("ctps_series"),
		Address:          v("address"),
		City:             v("city"),
		State:            strings.ToUpper(v("state")),
		ZIPCode:          stripNonDigits(v("zip_code")),
		EmergencyContact: v("emergency_contact"),
		EmergencyPhone:   v("emergency_phone"),
		LogoURL:          v("logo_url"),
		SignatureURL:     v("signature_url"),
		StampURL:         v("stamp_url"),
	}
	if e.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if s := v("salary"); s != "" {
		cents, err := spreadsheet.ParseMoney(s)
		if err != nil {
			return nil, err
		}
		e.Salary = &cents
	}
	for name, dst := range map[string]**time.Time{"hire_date": &e.HireDate, "letter_issue_date": &e.LetterIssueDate} {
		if s := v(name); s != "" {
			t, err := spreadsheet.ParseDate(s)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			*dst = &t
		}
	}
	if s := v("affiliate_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid affiliate_id %q", s)
		}
		e.AffiliateID = &id
	}
	return e, nil
}
