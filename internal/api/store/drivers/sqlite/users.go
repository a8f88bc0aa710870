package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/prometheusfi/prometheus/internal/api/domain"
	"github.com/prometheusfi/prometheus/internal/api/store"
)

const userColumns = `id, email, password_hash, first_name, last_name, avatar, background,
	position, tagline, overview, website, role, featured, company_ids,
	accreditation, investor_class, financial_status, created_at, updated_at`

// registered rows are the ones with a password; the rest are stubs.
const registeredOnly = `password_hash IS NOT NULL`

type usersRepo struct {
	db dbtx
}

func scanUser(sc scanner) (domain.UserRef, error) {
	var (
		u            domain.User
		hash         sql.NullString
		role         string
		companyIDs   string
		level        string
		class        string
		financialRaw string
	)
	err := sc.Scan(
		&u.ID, &u.Email, &hash, &u.FirstName, &u.LastName, &u.Avatar, &u.Background,
		&u.Position, &u.Tagline, &u.Overview, &u.Website, &role, &u.Featured, &companyIDs,
		&level, &class, &financialRaw, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.UserRef{}, err
	}

	if !hash.Valid {
		return domain.StubUser(domain.UserStub{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			CreatedAt: u.CreatedAt,
		}), nil
	}

	u.PasswordHash = hash.String
	u.Role = domain.Role(role)
	u.CompanyIDs = splitAndFilter(companyIDs)
	u.Accreditation = domain.Accreditation(level)
	u.InvestorClass = domain.InvestorClass(class)
	for _, s := range splitAndFilter(financialRaw) {
		u.FinancialStatus = append(u.FinancialStatus, domain.FinancialStatus(s))
	}
	return domain.FullUser(u), nil
}

// hydrate loads the relationship sets of every full user in refs. It runs
// after the row cursor is closed so single-connection stores do not block.
func (r *usersRepo) hydrate(ctx context.Context, refs []domain.UserRef) ([]domain.UserRef, error) {
	for i, ref := range refs {
		u, ok := ref.Full()
		if !ok {
			continue
		}
		var err error
		if u.FollowerIDs, err = queryStrings(ctx, r.db,
			`SELECT follower_id FROM follows WHERE followee_id = ? ORDER BY created_at`, u.ID); err != nil {
			return nil, err
		}
		if u.FollowingIDs, err = queryStrings(ctx, r.db,
			`SELECT followee_id FROM follows WHERE follower_id = ? ORDER BY created_at`, u.ID); err != nil {
			return nil, err
		}
		if u.HiddenPostIDs, err = queryStrings(ctx, r.db,
			`SELECT post_id FROM hidden_posts WHERE user_id = ?`, u.ID); err != nil {
			return nil, err
		}
		if u.HiddenUserIDs, err = queryStrings(ctx, r.db,
			`SELECT hidden_user_id FROM hidden_users WHERE user_id = ?`, u.ID); err != nil {
			return nil, err
		}
		if u.ManagedFundsIDs, err = queryStrings(ctx, r.db,
			`SELECT id FROM funds WHERE manager_id = ? ORDER BY id`, u.ID); err != nil {
			return nil, err
		}
		refs[i] = domain.FullUser(u)
	}
	return refs, nil
}

func (r *usersRepo) list(ctx context.Context, query string, args ...any) ([]domain.UserRef, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var refs []domain.UserRef
	for rows.Next() {
		ref, err := scanUser(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	return r.hydrate(ctx, refs)
}

func (r *usersRepo) one(ctx context.Context, query string, args ...any) (domain.UserRef, error) {
	ref, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return domain.UserRef{}, mapNotFound(err)
	}
	refs, err := r.hydrate(ctx, []domain.UserRef{ref})
	if err != nil {
		return domain.UserRef{}, err
	}
	return refs[0], nil
}

func fullOnly(refs []domain.UserRef) []domain.User {
	out := make([]domain.User, 0, len(refs))
	for _, ref := range refs {
		if u, ok := ref.Full(); ok {
			out = append(out, u)
		}
	}
	return out
}

func (r *usersRepo) GetUserRef(ctx context.Context, id string) (domain.UserRef, error) {
	return r.one(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	ref, err := r.GetUserRef(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	u, ok := ref.Full()
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.UserRef, error) {
	return r.one(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *usersRepo) GetUsersByIDs(ctx context.Context, ids []string) ([]domain.UserRef, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var c conds
	c.in("id", ids)
	return r.list(ctx, `SELECT `+userColumns+` FROM users`+c.where(), c.args...)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	created := stamp(u.CreatedAt)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name, avatar, background,
			position, tagline, overview, website, role, featured, company_ids,
			accreditation, investor_class, financial_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Avatar, u.Background,
		u.Position, u.Tagline, u.Overview, u.Website, string(u.Role), u.Featured, joinFields(u.CompanyIDs),
		string(u.Accreditation), string(u.InvestorClass), joinFields(strs(u.FinancialStatus)), created, created,
	)
	return mapConstraint(err)
}

func (r *usersRepo) CreateStub(ctx context.Context, s domain.UserStub) error {
	created := stamp(s.CreatedAt)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name, created_at, updated_at)
		VALUES (?, ?, NULL, ?, ?, ?, ?)`,
		s.ID, s.Email, s.FirstName, s.LastName, created, created,
	)
	return mapConstraint(err)
}

func (r *usersRepo) PromoteStub(ctx context.Context, u domain.User) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = ?, first_name = ?, last_name = ?, role = ?, accreditation = ?, updated_at = ?
		WHERE id = ? AND password_hash IS NULL`,
		u.PasswordHash, u.FirstName, u.LastName, string(u.Role), string(u.Accreditation), stamp(time.Time{}), u.ID,
	))
}

func (r *usersRepo) UpdateProfile(ctx context.Context, u domain.User) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE users
		SET first_name = ?, last_name = ?, avatar = ?, background = ?, position = ?,
			tagline = ?, overview = ?, website = ?, company_ids = ?, updated_at = ?
		WHERE id = ? AND `+registeredOnly,
		u.FirstName, u.LastName, u.Avatar, u.Background, u.Position,
		u.Tagline, u.Overview, u.Website, joinFields(u.CompanyIDs), stamp(time.Time{}), u.ID,
	))
}

func (r *usersRepo) SetFinancialStatus(
	ctx context.Context,
	userID string,
	class domain.InvestorClass,
	answers []domain.FinancialStatus,
	level domain.Accreditation,
) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE users
		SET investor_class = ?, financial_status = ?, accreditation = ?, updated_at = ?
		WHERE id = ? AND `+registeredOnly,
		string(class), joinFields(strs(answers)), string(level), stamp(time.Time{}), userID,
	))
}

func (r *usersRepo) SetFeatured(ctx context.Context, userID string, featured bool) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE users SET featured = ?, updated_at = ? WHERE id = ?`,
		featured, stamp(time.Time{}), userID,
	))
}

func (r *usersRepo) SetRole(ctx context.Context, userID string, role domain.Role) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
		string(role), stamp(time.Time{}), userID,
	))
}

func (r *usersRepo) Follow(ctx context.Context, followerID, followeeID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO follows (follower_id, followee_id, created_at) VALUES (?, ?, ?)
		ON CONFLICT (follower_id, followee_id) DO NOTHING`,
		followerID, followeeID, stamp(time.Time{}),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *usersRepo) Unfollow(ctx context.Context, followerID, followeeID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followee_id = ?`, followerID, followeeID)
	return err
}

func (r *usersRepo) HidePost(ctx context.Context, userID, postID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO hidden_posts (user_id, post_id) VALUES (?, ?) ON CONFLICT DO NOTHING`, userID, postID)
	return err
}

func (r *usersRepo) HideUser(ctx context.Context, userID, hiddenUserID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO hidden_users (user_id, hidden_user_id) VALUES (?, ?) ON CONFLICT DO NOTHING`, userID, hiddenUserID)
	return err
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.UserRef, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY id DESC`)
}

func (r *usersRepo) ListProfessionals(ctx context.Context, featuredOnly bool) ([]domain.User, error) {
	var c conds
	c.add(registeredOnly)
	c.add("role = ?", string(domain.RoleProfessional))
	if featuredOnly {
		c.add("featured = 1")
	}
	refs, err := r.list(ctx, `SELECT `+userColumns+` FROM users`+c.where()+` ORDER BY id DESC`, c.args...)
	if err != nil {
		return nil, err
	}
	return fullOnly(refs), nil
}

func (r *usersRepo) ListFundManagers(ctx context.Context, featuredOnly bool) ([]domain.User, error) {
	var c conds
	c.add(registeredOnly)
	c.add("EXISTS (SELECT 1 FROM funds f WHERE f.manager_id = users.id)")
	if featuredOnly {
		c.add("featured = 1")
	}
	refs, err := r.list(ctx, `SELECT `+userColumns+` FROM users`+c.where()+` ORDER BY id DESC`, c.args...)
	if err != nil {
		return nil, err
	}
	return fullOnly(refs), nil
}

func (r *usersRepo) SearchUsers(ctx context.Context, keyword string, limit int) ([]domain.UserRef, error) {
	pattern := likePattern(keyword)
	return r.list(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE first_name LIKE ? ESCAPE '\'
			OR last_name LIKE ? ESCAPE '\'
			OR (first_name || ' ' || last_name) LIKE ? ESCAPE '\'
			OR email LIKE ? ESCAPE '\'
		ORDER BY id DESC
		LIMIT ?`,
		pattern, pattern, pattern, pattern, sqlLimit(limit),
	)
}
