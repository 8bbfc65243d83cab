package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/lanternsec/authd/internal/auth/domain"
	"github.com/lanternsec/authd/internal/auth/store"
)

type sessionsRepo struct {
	db dbtx
}

const sessionColumns = `id, user_id, refresh_selector, refresh_hash, ip, device, expires_at, revoked, revoked_at, created_at, updated_at`

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, refresh_selector, refresh_hash, ip, device, expires_at, revoked, revoked_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.RefreshSelector, s.RefreshHash, s.IP, s.Device,
		s.ExpiresAt, s.Revoked, optionalTime(s.RevokedAt), s.CreatedAt, s.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *sessionsRepo) GetSessionByID(ctx context.Context, id string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	return scanSession(row)
}

func (r *sessionsRepo) GetSessionByRefreshSelector(ctx context.Context, selector string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE refresh_selector = ?`, selector)
	return scanSession(row)
}

// RotateSession is conditioned on revoked = 0 at write time. A session
// revoked between lookup and rotation stays revoked and the rotation fails.
func (r *sessionsRepo) RotateSession(ctx context.Context, sessionID, selector, hash string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET refresh_selector = ?, refresh_hash = ?, expires_at = ?, updated_at = ?
		WHERE id = ? AND revoked = 0`,
		selector, hash, expiresAt, time.Now().UTC(), sessionID)
	if err != nil {
		return err
	}
	return oneRow(res)
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, sessionID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET revoked = 1, revoked_at = ?, updated_at = ?
		WHERE id = ? AND revoked = 0`,
		at, time.Now().UTC(), sessionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	// Either already revoked (idempotent success) or unknown id.
	var exists int
	err = r.db.QueryRowContext(ctx,
		`SELECT 1 FROM sessions WHERE id = ?`, sessionID).Scan(&exists)
	return mapNotFound(err)
}

func (r *sessionsRepo) RevokeAllForUser(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET revoked = 1, revoked_at = ?, updated_at = ?
		WHERE user_id = ? AND revoked = 0`,
		at, time.Now().UTC(), userID)
	return err
}

func (r *sessionsRepo) ListActiveByUser(ctx context.Context, userID string) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE user_id = ? AND revoked = 0 AND expires_at > ?
		ORDER BY created_at DESC`,
		userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, time.Now().UTC())
	return err
}

func oneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanSession(row rowScanner) (domain.Session, error) {
	var (
		s         domain.Session
		revokedAt sql.NullTime
	)
	err := row.Scan(
		&s.ID, &s.UserID, &s.RefreshSelector, &s.RefreshHash, &s.IP, &s.Device,
		&s.ExpiresAt, &s.Revoked, &revokedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.RevokedAt = mapNullTimePtr(revokedAt)
	return s, nil
}
