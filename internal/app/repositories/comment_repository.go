package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/alumnode/backend/internal/app/models"
	"github.com/alumnode/backend/internal/pkg/apperrors"
	"github.com/alumnode/backend/internal/pkg/dberrors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CommentRepository handles the comments table
type CommentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{
		db: db,
		sb: newBuilder(),
	}
}

// Create inserts a comment and returns it with its author's name and picture
func (r *CommentRepository) Create(ctx context.Context, postID, userID int64, content string) (*models.CommentView, error) {
	v := &models.CommentView{}
	err := r.db.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO comments (post_id, user_id, content)
			VALUES ($1, $2, $3)
			RETURNING id, post_id, user_id, content, created_at
		)
		SELECT i.id, i.post_id, i.user_id, i.content, i.created_at,
			u.first_name, u.last_name, p.profile_picture
		FROM inserted i
		JOIN users u ON u.id = i.user_id
		LEFT JOIN profiles p ON p.user_id = i.user_id`,
		postID, userID, content,
	).Scan(&v.ID, &v.PostID, &v.UserID, &v.Content, &v.CreatedAt, &v.FirstName, &v.LastName, &v.ProfilePicture)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.NewResourceNotFoundError("Post not found!")
		}
		return nil, fmt.Errorf("error creating comment: %w", err)
	}
	return v, nil
}

// ListByPost returns the comments of postID, oldest first
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]models.CommentView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at,
			u.first_name, u.last_name, p.profile_picture
		FROM comments c
		JOIN users u ON c.user_id = u.id
		LEFT JOIN profiles p ON u.id = p.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC, c.id ASC`, postID)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	defer rows.Close()

	comments := make([]models.CommentView, 0)
	for rows.Next() {
		var v models.CommentView
		if err := rows.Scan(&v.ID, &v.PostID, &v.UserID, &v.Content, &v.CreatedAt,
			&v.FirstName, &v.LastName, &v.ProfilePicture); err != nil {
			return nil, fmt.Errorf("error scanning comment: %w", err)
		}
		comments = append(comments, v)
	}
	return comments, rows.Err()
}

// Delete removes a comment written by ownerID
func (r *CommentRepository) Delete(ctx context.Context, commentID, ownerID int64) error {
	sql, args, err := r.sb.Delete("comments").
		Where(squirrel.Eq{"id": commentID, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete comment query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("Comment not found or you don't have permission to delete it!")
	}
	return nil
}
