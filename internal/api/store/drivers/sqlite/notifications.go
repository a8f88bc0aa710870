package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/prometheusfi/prometheus/internal/api/domain"
)

type notificationsRepo struct {
	db dbtx
}

func (r *notificationsRepo) CreateNotification(ctx context.Context, n domain.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, type, source_user_id, post_id, is_new, created_at)
		VALUES (?, ?, ?, ?, ?, 1, ?)`,
		n.ID, n.UserID, string(n.Type), n.SourceUserID, mapStringNull(n.PostID), stamp(n.CreatedAt),
	)
	return err
}

func (r *notificationsRepo) ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, type, source_user_id, post_id, is_new, created_at
		FROM notifications WHERE user_id = ? ORDER BY id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var (
			n      domain.Notification
			typ    string
			postID sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.SourceUserID, &postID, &n.IsNew, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Type = domain.NotificationType(typ)
		n.PostID = mapNullString(postID)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *notificationsRepo) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_new = 0 WHERE user_id = ? AND is_new = 1`, userID)
	return err
}

func (r *notificationsRepo) DeleteNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
