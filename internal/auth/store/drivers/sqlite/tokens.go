package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/lanternsec/authd/internal/auth/domain"
	"github.com/lanternsec/authd/internal/auth/store"
)

type tokensRepo struct {
	db dbtx
}

const tokenColumns = `id, user_id, purpose, selector, secret_hash, expires_at, used_at, created_at`

func (r *tokensRepo) CreateToken(ctx context.Context, t domain.RedeemableToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO redeemable_tokens (id, user_id, purpose, selector, secret_hash, expires_at, used_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, string(t.Purpose), t.Selector, t.SecretHash,
		t.ExpiresAt, optionalTime(t.UsedAt), t.CreatedAt,
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

// GetUnusedTokenBySelector intentionally does not filter on expiry: the
// caller needs the expired row back to report TokenExpired and delete it.
func (r *tokensRepo) GetUnusedTokenBySelector(ctx context.Context, purpose domain.Purpose, selector string) (domain.RedeemableToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+tokenColumns+` FROM redeemable_tokens
		WHERE purpose = ? AND selector = ? AND used_at IS NULL`,
		string(purpose), selector)
	return scanToken(row)
}

// ConsumeToken marks a token used. The WHERE clause carries the single-use
// guarantee: of N concurrent consumers exactly one update matches.
func (r *tokensRepo) ConsumeToken(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE redeemable_tokens SET used_at = ?
		WHERE id = ? AND used_at IS NULL`,
		at, id)
	if err != nil {
		return err
	}
	return oneRow(res)
}

func (r *tokensRepo) DeleteToken(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM redeemable_tokens WHERE id = ?`, id)
	return err
}

func (r *tokensRepo) DeleteExpiredTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM redeemable_tokens WHERE expires_at <= ?`, time.Now().UTC())
	return err
}

func scanToken(row rowScanner) (domain.RedeemableToken, error) {
	var (
		t       domain.RedeemableToken
		purpose string
		usedAt  sql.NullTime
	)
	err := row.Scan(
		&t.ID, &t.UserID, &purpose, &t.Selector, &t.SecretHash,
		&t.ExpiresAt, &usedAt, &t.CreatedAt,
	)
	if err != nil {
		return domain.RedeemableToken{}, mapNotFound(err)
	}
	t.Purpose = domain.Purpose(purpose)
	t.UsedAt = mapNullTimePtr(usedAt)
	return t, nil
}
