package sqlite

import (
	"context"

	"github.com/prometheusfi/prometheus/internal/api/domain"
)

const companyColumns = `c.id, c.name, c.avatar, c.background, c.website, c.tagline, c.overview,
	EXISTS (SELECT 1 FROM funds f WHERE f.company_id = c.id), c.created_at, c.updated_at`

type companiesRepo struct {
	db dbtx
}

func scanCompany(sc scanner) (domain.Company, error) {
	var c domain.Company
	err := sc.Scan(&c.ID, &c.Name, &c.Avatar, &c.Background, &c.Website, &c.Tagline, &c.Overview,
		&c.IsFundCompany, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *companiesRepo) list(ctx context.Context, query string, args ...any) ([]domain.Company, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *companiesRepo) CreateCompany(ctx context.Context, c domain.Company) error {
	created := stamp(c.CreatedAt)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO companies (id, name, avatar, background, website, tagline, overview, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Avatar, c.Background, c.Website, c.Tagline, c.Overview, created, created,
	)
	return mapConstraint(err)
}

func (r *companiesRepo) GetCompanyByID(ctx context.Context, id string) (domain.Company, error) {
	c, err := scanCompany(r.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies c WHERE c.id = ?`, id))
	if err != nil {
		return domain.Company{}, mapNotFound(err)
	}
	return c, nil
}

func (r *companiesRepo) ListFundCompanies(ctx context.Context) ([]domain.Company, error) {
	return r.list(ctx, `
		SELECT `+companyColumns+` FROM companies c
		WHERE EXISTS (SELECT 1 FROM funds f WHERE f.company_id = c.id)
		ORDER BY c.name`)
}

func (r *companiesRepo) SearchCompanies(ctx context.Context, keyword string, limit int) ([]domain.Company, error) {
	pattern := likePattern(keyword)
	return r.list(ctx, `
		SELECT `+companyColumns+` FROM companies c
		WHERE c.name LIKE ? ESCAPE '\' OR c.tagline LIKE ? ESCAPE '\'
		ORDER BY c.name
		LIMIT ?`,
		pattern, pattern, sqlLimit(limit),
	)
}
