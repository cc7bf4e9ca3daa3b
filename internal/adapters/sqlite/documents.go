package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/csg33k/hrdoc-generator/internal/domain"
)

// ── Generated documents ───────────────────────────────────────────────────────

func (r *Repository) CreateDocument(ctx context.Context, d *domain.GeneratedDocument) error {
	d.CreatedAt = r.now()
	data, err := json.Marshal(d.Data)
	if err != nil {
		return fmt.Errorf("encode document data: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO generated_documents (
			employee_id, employee_name, template_id, template_name,
			status, file_path, data, created_at
		) VALUES (?,?,?,?,?,?,?,?)`,
		d.EmployeeID, d.EmployeeName, d.TemplateID, d.TemplateName,
		d.Status, d.FilePath, string(data), d.CreatedAt)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	d.ID = id
	return nil
}

const documentColumns = `id, employee_id, employee_name, template_id, template_name,
	status, file_path, data, created_at`

func scanDocument(s rowScanner) (*domain.GeneratedDocument, error) {
	var (
		d    domain.GeneratedDocument
		data string
	)
	if err := s.Scan(&d.ID, &d.EmployeeID, &d.EmployeeName, &d.TemplateID, &d.TemplateName,
		&d.Status, &d.FilePath, &data, &d.CreatedAt); err != nil {
		return nil, err
	}
	if data != "" {
		if err := json.Unmarshal([]byte(data), &d.Data); err != nil {
			return nil, fmt.Errorf("decode document %d data: %w", d.ID, err)
		}
	}
	return &d, nil
}

func (r *Repository) GetDocument(ctx context.Context, id int64) (*domain.GeneratedDocument, error) {
	d, err := scanDocument(r.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM generated_documents WHERE id=?`, id))
	if err != nil {
		return nil, notFound(err, "document", id)
	}
	return d, nil
}

// ListDocuments returns the history, newest first.
func (r *Repository) ListDocuments(ctx context.Context) ([]domain.GeneratedDocument, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM generated_documents ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []domain.GeneratedDocument
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *d)
	}
	return list, rows.Err()
}

func (r *Repository) SetDocumentFile(ctx context.Context, id int64, path string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE generated_documents SET file_path=? WHERE id=?`, path, id)
	if err != nil {
		return err
	}
	return affected(res, "document", id)
}
