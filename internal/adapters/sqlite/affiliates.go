package sqlite

import (
	"context"

	"github.com/csg33k/hrdoc-generator/internal/domain"
)

// ── Affiliates ────────────────────────────────────────────────────────────────

func (r *Repository) CreateAffiliate(ctx context.Context, a *domain.Affiliate) error {
	a.CreatedAt = r.now()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO affiliates (name, cnpj, address, logo_url, signature_url, stamp_url, created_at)
		VALUES (?,?,?,?,?,?,?)`,
		a.Name, a.CNPJ, a.Address, a.LogoURL, a.SignatureURL, a.StampURL, a.CreatedAt)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	a.ID = id
	return nil
}

func (r *Repository) GetAffiliate(ctx context.Context, id int64) (*domain.Affiliate, error) {
	a := &domain.Affiliate{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, cnpj, address, logo_url, signature_url, stamp_url, created_at
		FROM affiliates WHERE id=?`, id).Scan(
		&a.ID, &a.Name, &a.CNPJ, &a.Address, &a.LogoURL, &a.SignatureURL, &a.StampURL, &a.CreatedAt)
	if err != nil {
		return nil, notFound(err, "affiliate", id)
	}
	return a, nil
}

func (r *Repository) ListAffiliates(ctx context.Context) ([]domain.Affiliate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, cnpj, address, logo_url, signature_url, stamp_url, created_at
		FROM affiliates ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []domain.Affiliate
	for rows.Next() {
		var a domain.Affiliate
		if err := rows.Scan(&a.ID, &a.Name, &a.CNPJ, &a.Address, &a.LogoURL, &a.SignatureURL, &a.StampURL, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *Repository) UpdateAffiliate(ctx context.Context, a *domain.Affiliate) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE affiliates SET name=?, cnpj=?, address=?, logo_url=?, signature_url=?, stamp_url=?
		WHERE id=?`,
		a.Name, a.CNPJ, a.Address, a.LogoURL, a.SignatureURL, a.StampURL, a.ID)
	if err != nil {
		return err
	}
	return affected(res, "affiliate", a.ID)
}

func (r *Repository) DeleteAffiliate(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM affiliates WHERE id=?`, id)
	if err != nil {
		return err
	}
	return affected(res, "affiliate", id)
}
