package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/prometheusfi/prometheus/internal/api/domain"
)

const inviteColumns = `id, email, token_hash, created_by, expires_at, used, used_by, created_at, updated_at`

type invitesRepo struct {
	db dbtx
}

func scanInvite(sc scanner) (domain.Invite, error) {
	var (
		inv       domain.Invite
		createdBy sql.NullString
		usedBy    sql.NullString
	)
	err := sc.Scan(&inv.ID, &inv.Email, &inv.TokenHash, &createdBy, &inv.ExpiresAt,
		&inv.Used, &usedBy, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return domain.Invite{}, err
	}
	inv.CreatedBy = mapNullString(createdBy)
	inv.UsedBy = mapNullString(usedBy)
	return inv, nil
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	created := stamp(inv.CreatedAt)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invites (id, email, token_hash, created_by, expires_at, used, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		inv.ID, inv.Email, inv.TokenHash, mapStringNull(inv.CreatedBy), inv.ExpiresAt.UTC(), created, created,
	)
	return mapConstraint(err)
}

func (r *invitesRepo) GetActiveInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error) {
	inv, err := scanInvite(r.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE token_hash = ? AND used = 0 AND expires_at > ?`,
		hash, time.Now().UTC(),
	))
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitesRepo) MarkInviteUsed(ctx context.Context, inviteID string, usedByUserID string) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE invites SET used = 1, used_by = ?, updated_at = ? WHERE id = ? AND used = 0`,
		usedByUserID, stamp(time.Time{}), inviteID,
	))
}

func (r *invitesRepo) DeleteExpiredInvites(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM invites WHERE used = 0 AND expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
