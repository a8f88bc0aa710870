package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/prometheusfi/prometheus/internal/api/domain"
)

const fundColumns = `id, name, company_id, manager_id, level, asset_class, overview,
	highlights, tags, featured, created_at, updated_at`

type fundsRepo struct {
	db dbtx
}

func scanFund(sc scanner) (domain.Fund, error) {
	var (
		f          domain.Fund
		companyID  sql.NullString
		level      string
		assetClass string
		highlights string
		tags       string
	)
	err := sc.Scan(&f.ID, &f.Name, &companyID, &f.ManagerID, &level, &assetClass, &f.Overview,
		&highlights, &tags, &f.Featured, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return domain.Fund{}, err
	}
	f.CompanyID = mapNullString(companyID)
	f.Level = domain.Accreditation(level)
	f.AssetClass = domain.AssetClass(assetClass)
	if err := json.Unmarshal([]byte(highlights), &f.Highlights); err != nil {
		return domain.Fund{}, fmt.Errorf("decode fund highlights: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &f.Tags); err != nil {
		return domain.Fund{}, fmt.Errorf("decode fund tags: %w", err)
	}
	return f, nil
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	buf, err := json.Marshal(values)
	return string(buf), err
}

func (r *fundsRepo) list(ctx context.Context, query string, args ...any) ([]domain.Fund, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Fund
	for rows.Next() {
		f, err := scanFund(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *fundsRepo) CreateFund(ctx context.Context, f domain.Fund) error {
	highlights, err := encodeList(f.Highlights)
	if err != nil {
		return err
	}
	tags, err := encodeList(f.Tags)
	if err != nil {
		return err
	}
	created := stamp(f.CreatedAt)
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO funds (id, name, company_id, manager_id, level, asset_class, overview,
			highlights, tags, featured, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Name, mapStringNull(f.CompanyID), f.ManagerID, string(f.Level), string(f.AssetClass), f.Overview,
		highlights, tags, f.Featured, created, created,
	)
	return mapConstraint(err)
}

func (r *fundsRepo) GetFundByID(ctx context.Context, id string) (domain.Fund, error) {
	f, err := scanFund(r.db.QueryRowContext(ctx, `SELECT `+fundColumns+` FROM funds WHERE id = ?`, id))
	if err != nil {
		return domain.Fund{}, mapNotFound(err)
	}
	return f, nil
}

func (r *fundsRepo) ListFundsByLevels(ctx context.Context, levels []domain.Accreditation) ([]domain.Fund, error) {
	if len(levels) == 0 {
		return nil, nil
	}
	var c conds
	c.in("level", strs(levels))
	return r.list(ctx, `SELECT `+fundColumns+` FROM funds`+c.where()+` ORDER BY id DESC`, c.args...)
}

func (r *fundsRepo) ListFundsByManagers(ctx context.Context, managerIDs []string) ([]domain.Fund, error) {
	if len(managerIDs) == 0 {
		return nil, nil
	}
	var c conds
	c.in("manager_id", managerIDs)
	return r.list(ctx, `SELECT `+fundColumns+` FROM funds`+c.where()+` ORDER BY id DESC`, c.args...)
}

func (r *fundsRepo) SearchFunds(
	ctx context.Context,
	keyword string,
	levels []domain.Accreditation,
	limit int,
) ([]domain.Fund, error) {
	if len(levels) == 0 {
		return nil, nil
	}
	pattern := likePattern(keyword)
	var c conds
	c.add(`(name LIKE ? ESCAPE '\' OR overview LIKE ? ESCAPE '\')`, pattern, pattern)
	c.in("level", strs(levels))
	args := append(c.args, sqlLimit(limit))
	return r.list(ctx, `SELECT `+fundColumns+` FROM funds`+c.where()+` ORDER BY id DESC LIMIT ?`, args...)
}
