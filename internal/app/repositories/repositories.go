package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/alumnode/backend/internal/db"
	"github.com/alumnode/backend/internal/pkg/auth"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	AdminRepository      *AdminRepository
	UserTokenRepository  *TokenRepository
	AdminTokenRepository *TokenRepository
	ProfileRepository    *ProfileRepository
	ConnectionRepository *ConnectionRepository
	PostRepository       *PostRepository
	CommentRepository    *CommentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(database.Pool),
		AdminRepository:      NewAdminRepository(database.Pool),
		UserTokenRepository:  NewTokenRepository(database.Pool, auth.PrincipalUser),
		AdminTokenRepository: NewTokenRepository(database.Pool, auth.PrincipalAdmin),
		ProfileRepository:    NewProfileRepository(database.Pool),
		ConnectionRepository: NewConnectionRepository(database),
		PostRepository:       NewPostRepository(database),
		CommentRepository:    NewCommentRepository(database.Pool),
	}
}
