package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/alumnode/backend/internal/pkg/apperrors"
	"github.com/alumnode/backend/internal/pkg/auth"
	"github.com/alumnode/backend/internal/pkg/dberrors"
	"github.com/alumnode/backend/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type tokenTable struct {
	name      string
	principal string
}

var tokenTables = map[auth.PrincipalKind]tokenTable{
	auth.PrincipalUser:  {name: "user_token", principal: "fk_user"},
	auth.PrincipalAdmin: {name: "admin_token", principal: "fk_admin"},
}

// TokenRepository stores the session rows of one principal kind. A token is
// only honoured while its row exists.
type TokenRepository struct {
	db    *pgxpool.Pool
	sb    squirrel.StatementBuilderType
	table tokenTable
	kind  auth.PrincipalKind
}

// NewTokenRepository creates a TokenRepository bound to the table of kind
func NewTokenRepository(db *pgxpool.Pool, kind auth.PrincipalKind) *TokenRepository {
	table, ok := tokenTables[kind]
	if !ok {
		panic(fmt.Sprintf("unknown principal kind %q", kind))
	}
	return &TokenRepository{
		db:    db,
		sb:    newBuilder(),
		table: table,
		kind:  kind,
	}
}

// Create persists a freshly issued token
func (r *TokenRepository) Create(ctx context.Context, token string, principalID int64) error {
	sql, args, err := r.sb.Insert(r.table.name).
		Columns("token", r.table.principal, "created_at").
		Values(token, principalID, time.Now()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create token query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsUniqueViolation(err) {
			logger.Warn().Str("kind", string(r.kind)).Msg("Attempted to store duplicate token")
			return apperrors.ErrTokenInvalid
		}
		return fmt.Errorf("error creating %s token: %w", r.kind, err)
	}

	return nil
}

// FindPrincipalID returns the principal that owns token, or
// apperrors.ErrTokenInvalid when the row does not exist.
func (r *TokenRepository) FindPrincipalID(ctx context.Context, token string) (int64, error) {
	sql, args, err := r.sb.Select(r.table.principal).
		From(r.table.name).
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build get token query: %w", err)
	}

	var principalID int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&principalID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrTokenInvalid
		}
		return 0, fmt.Errorf("error retrieving %s token: %w", r.kind, err)
	}

	return principalID, nil
}

// Delete removes token. Deleting a token that does not exist is not an error.
func (r *TokenRepository) Delete(ctx context.Context, token string) error {
	sql, args, err := r.sb.Delete(r.table.name).
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete token query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting %s token: %w", r.kind, err)
	}
	return nil
}

// DeleteCreatedBefore removes rows created before cutoff and returns how many
// were deleted.
func (r *TokenRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	sql, args, err := r.sb.Delete(r.table.name).
		Where(squirrel.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build cleanup tokens query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error cleaning up %s tokens: %w", r.kind, err)
	}
	return tag.RowsAffected(), nil
}
