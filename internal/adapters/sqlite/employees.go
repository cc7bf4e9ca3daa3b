package sqlite

import (
	"context"
	"database/sql"

	"github.com/csg33k/hrdoc-generator/internal/domain"
)

const employeeColumns = `
	id, name, email, phone, position, department, company, store_name,
	rg, cpf, ctps_number, ctps_series,
	address, city, state, zip_code, emergency_contact, emergency_phone,
	salary_cents, hire_date, letter_issue_date, affiliate_id,
	logo_url, signature_url, stamp_url, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(s rowScanner) (*domain.Employee, error) {
	var (
		e                 domain.Employee
		salary, affiliate sql.NullInt64
		hire, issue       sql.NullTime
	)
	err := s.Scan(
		&e.ID, &e.Name, &e.Email, &e.Phone, &e.Position, &e.Department, &e.Company, &e.StoreName,
		&e.RG, &e.CPF, &e.CTPSNumber, &e.CTPSSeries,
		&e.Address, &e.City, &e.State, &e.ZIPCode, &e.EmergencyContact, &e.EmergencyPhone,
		&salary, &hire, &issue, &affiliate,
		&e.LogoURL, &e.SignatureURL, &e.StampURL, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Salary = intPtr(salary)
	e.HireDate = timePtr(hire)
	e.LetterIssueDate = timePtr(issue)
	e.AffiliateID = intPtr(affiliate)
	return &e, nil
}

func (r *Repository) CreateEmployee(ctx context.Context, e *domain.Employee) error {
	now := r.now()
	e.CreatedAt = now
	e.UpdatedAt = now
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO employees (
			name, email, phone, position, department, company, store_name,
			rg, cpf, ctps_number, ctps_series,
			address, city, state, zip_code, emergency_contact, emergency_phone,
			salary_cents, hire_date, letter_issue_date, affiliate_id,
			logo_url, signature_url, stamp_url, created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		e.Name, e.Email, e.Phone, e.Position, e.Department, e.Company, e.StoreName,
		e.RG, e.CPF, e.CTPSNumber, e.CTPSSeries,
		e.Address, e.City, e.State, e.ZIPCode, e.EmergencyContact, e.EmergencyPhone,
		nullInt(e.Salary), nullTime(e.HireDate), nullTime(e.LetterIssueDate), nullInt(e.AffiliateID),
		e.LogoURL, e.SignatureURL, e.StampURL, now, now,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	e.ID = id
	return nil
}

func (r *Repository) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	e, err := scanEmployee(r.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id=?`, id))
	if err != nil {
		return nil, notFound(err, "employee", id)
	}
	return e, nil
}

// ListEmployees returns every employee ordered by name.
func (r *Repository) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

func (r *Repository) UpdateEmployee(ctx context.Context, e *domain.Employee) error {
	e.UpdatedAt = r.now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE employees
		SET name=?, email=?, phone=?, position=?, department=?, company=?, store_name=?,
		    rg=?, cpf=?, ctps_number=?, ctps_series=?,
		    address=?, city=?, state=?, zip_code=?, emergency_contact=?, emergency_phone=?,
		    salary_cents=?, hire_date=?, letter_issue_date=?, affiliate_id=?,
		    logo_url=?, signature_url=?, stamp_url=?, updated_at=?
		WHERE id=?`,
		e.Name, e.Email, e.Phone, e.Position, e.Department, e.Company, e.StoreName,
		e.RG, e.CPF, e.CTPSNumber, e.CTPSSeries,
		e.Address, e.City, e.State, e.ZIPCode, e.EmergencyContact, e.EmergencyPhone,
		nullInt(e.Salary), nullTime(e.HireDate), nullTime(e.LetterIssueDate), nullInt(e.AffiliateID),
		e.LogoURL, e.SignatureURL, e.StampURL, e.UpdatedAt,
		e.ID,
	)
	if err != nil {
		return err
	}
	return affected(res, "employee", e.ID)
}

func (r *Repository) DeleteEmployee(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id=?`, id)
	if err != nil {
		return err
	}
	return affected(res, "employee", id)
}

// DeleteDuplicatesByCPF keeps the lowest id of every non-blank CPF.
func (r *Repository) DeleteDuplicatesByCPF(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM employees
		WHERE TRIM(cpf) <> ''
		  AND id NOT IN (
		      SELECT MIN(id) FROM employees
		      WHERE TRIM(cpf) <> ''
		      GROUP BY TRIM(cpf)
		  )`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *Repository) DeleteEmpty(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE TRIM(name) = ''`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
