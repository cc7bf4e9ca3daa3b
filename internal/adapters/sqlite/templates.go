package sqlite

import (
	"context"

	"github.com/csg33k/hrdoc-generator/internal/domain"
)

// ── Templates ─────────────────────────────────────────────────────────────────

func (r *Repository) CreateTemplate(ctx context.Context, t *domain.Template) error {
	now := r.now()
	t.CreatedAt = now
	t.UpdatedAt = now
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO templates (name, type, description, body, created_at, updated_at)
		VALUES (?,?,?,?,?,?)`,
		t.Name, t.Type, t.Description, t.Body, now, now)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	t.ID = id
	return nil
}

func (r *Repository) GetTemplate(ctx context.Context, id int64) (*domain.Template, error) {
	t := &domain.Template{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, type, description, body, created_at, updated_at
		FROM templates WHERE id=?`, id).Scan(
		&t.ID, &t.Name, &t.Type, &t.Description, &t.Body, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "template", id)
	}
	return t, nil
}

func (r *Repository) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, description, body, created_at, updated_at
		FROM templates ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []domain.Template
	for rows.Next() {
		var t domain.Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Type, &t.Description, &t.Body, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// UpdateTemplate bumps UpdatedAt, which invalidates compiled-template caches.
func (r *Repository) UpdateTemplate(ctx context.Context, t *domain.Template) error {
	t.UpdatedAt = r.now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE templates SET name=?, type=?, description=?, body=?, updated_at=?
		WHERE id=?`,
		t.Name, t.Type, t.Description, t.Body, t.UpdatedAt, t.ID)
	if err != nil {
		return err
	}
	return affected(res, "template", t.ID)
}

func (r *Repository) DeleteTemplate(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id=?`, id)
	if err != nil {
		return err
	}
	return affected(res, "template", id)
}
