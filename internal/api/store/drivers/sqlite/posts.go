package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/prometheusfi/prometheus/internal/api/domain"
)

const postColumns = `p.id, p.user_id, p.company_id, p.body, p.media_url, p.media_ready,
	p.audience, p.created_at, p.updated_at`

type postsRepo struct {
	db dbtx
}

func scanPost(sc scanner) (domain.Post, error) {
	var (
		p         domain.Post
		companyID sql.NullString
		audience  string
	)
	err := sc.Scan(&p.ID, &p.UserID, &companyID, &p.Body, &p.MediaURL, &p.MediaReady,
		&audience, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Post{}, err
	}
	p.CompanyID = mapNullString(companyID)
	p.Audience = domain.Audience(audience).Normalize()
	return p, nil
}

// attach loads categories and mentions once the post cursor is closed.
func (r *postsRepo) attach(ctx context.Context, posts []domain.Post) ([]domain.Post, error) {
	for i := range posts {
		cats, err := queryStrings(ctx, r.db,
			`SELECT category FROM post_categories WHERE post_id = ? ORDER BY rowid`, posts[i].ID)
		if err != nil {
			return nil, err
		}
		for _, c := range cats {
			posts[i].Categories = append(posts[i].Categories, domain.PostCategory(c))
		}
		if posts[i].MentionIDs, err = queryStrings(ctx, r.db,
			`SELECT user_id FROM post_mentions WHERE post_id = ? ORDER BY rowid`, posts[i].ID); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (r *postsRepo) list(ctx context.Context, query string, args ...any) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var posts []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	return r.attach(ctx, posts)
}

func (r *postsRepo) CreatePost(ctx context.Context, p domain.Post) error {
	created := stamp(p.CreatedAt)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO posts (id, user_id, company_id, body, media_url, media_ready, audience, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, mapStringNull(p.CompanyID), p.Body, p.MediaURL, p.MediaReady,
		string(p.Audience.Normalize()), created, created,
	)
	if err != nil {
		return mapConstraint(err)
	}

	for _, c := range p.Categories {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO post_categories (post_id, category) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			p.ID, string(c)); err != nil {
			return err
		}
	}
	for _, m := range p.MentionIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO post_mentions (post_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			p.ID, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *postsRepo) GetPostByID(ctx context.Context, id string) (domain.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.id = ?`, id))
	if err != nil {
		return domain.Post{}, mapNotFound(err)
	}
	posts, err := r.attach(ctx, []domain.Post{p})
	if err != nil {
		return domain.Post{}, err
	}
	return posts[0], nil
}

func (r *postsRepo) DeletePost(ctx context.Context, id string) error {
	return requireRow(r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id))
}

func (r *postsRepo) SetMedia(ctx context.Context, postID, url string, ready bool) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE posts SET media_url = ?, media_ready = ?, updated_at = ? WHERE id = ?`,
		url, ready, stamp(time.Time{}), postID,
	))
}

func (r *postsRepo) FindPosts(ctx context.Context, f domain.PostFilter) ([]domain.Post, error) {
	c, ok := postConds(f)
	if !ok {
		return nil, nil
	}
	return r.list(ctx, `
		SELECT `+postColumns+`
		FROM posts p JOIN users u ON u.id = p.user_id`+c.where()+`
		ORDER BY p.id DESC`, c.args...)
}

// postConds turns f into WHERE conditions over posts p joined to their
// authors u. ok is false when f can match nothing.
func postConds(f domain.PostFilter) (c conds, ok bool) {
	if len(f.Audiences) == 0 || (f.Authors != nil && len(f.Authors) == 0) {
		return conds{}, false
	}

	c.in("p.audience", strs(f.Audiences))
	c.notIn("p.id", f.HiddenPostIDs)
	c.notIn("p.user_id", f.HiddenUserIDs)
	if len(f.Categories) > 0 {
		cats := strs(f.Categories)
		c.add(`EXISTS (SELECT 1 FROM post_categories pc WHERE pc.post_id = p.id AND pc.category IN (`+
			placeholders(len(cats))+`))`, anys(cats)...)
	}
	if f.Authors != nil {
		c.in("p.user_id", f.Authors)
	}
	if f.ProfessionalOnly {
		c.add("u.role = ?", string(domain.RoleProfessional))
	}
	return c, true
}

func (r *postsRepo) SearchPosts(
	ctx context.Context,
	keyword string,
	f domain.PostFilter,
	limit int,
) ([]domain.Post, error) {
	c, ok := postConds(f)
	if !ok {
		return nil, nil
	}
	c.add(`p.body LIKE ? ESCAPE '\'`, likePattern(keyword))
	args := append(c.args, sqlLimit(limit))
	return r.list(ctx, `
		SELECT `+postColumns+`
		FROM posts p JOIN users u ON u.id = p.user_id`+c.where()+`
		ORDER BY p.id DESC LIMIT ?`, args...)
}
