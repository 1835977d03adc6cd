package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/alumnode/backend/internal/app/models"
	"github.com/alumnode/backend/internal/db"
	"github.com/alumnode/backend/internal/pkg/apperrors"
	"github.com/alumnode/backend/internal/pkg/dberrors"
	"github.com/jackc/pgx/v5"
)

const postColumns = "id, user_id, content, image_url, post_type, created_at, updated_at"

// PostRepository handles posts, their job details and likes
type PostRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

func NewPostRepository(database *db.PostgresDB) *PostRepository {
	return &PostRepository{
		db: database,
		sb: newBuilder(),
	}
}

func scanPost(row pgx.Row) (*models.Post, error) {
	p := &models.Post{}
	if err := row.Scan(&p.ID, &p.UserID, &p.Content, &p.ImageURL, &p.PostType, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

// Create writes post and, when given, its job details in one transaction.
func (r *PostRepository) Create(ctx context.Context, post *models.Post, job *models.JobDetails) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO posts (user_id, content, image_url, post_type)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at`,
			post.UserID, post.Content, post.ImageURL, post.PostType,
		).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error creating post: %w", err)
		}

		if job == nil {
			return nil
		}

		job.PostID = post.ID
		sql, args, err := r.sb.Insert("job_posts").
			Columns("post_id", "company_name", "position", "location", "job_type", "description", "application_url", "deadline").
			Values(job.PostID, job.CompanyName, job.Position, job.Location, job.JobType, job.Description, job.ApplicationURL, job.Deadline).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create job details query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error creating job details: %w", err)
		}
		post.JobDetails = job
		return nil
	})
}

// Exists reports whether post id exists
func (r *PostRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking post: %w", err)
	}
	return exists, nil
}

// viewQuery selects posts with author, counters and whether viewerID liked them.
func (r *PostRepository) viewQuery(viewerID int64) squirrel.SelectBuilder {
	return r.sb.Select(
		"p.id", "p.user_id", "p.content", "p.image_url", "p.post_type", "p.created_at", "p.updated_at",
		"u.first_name", "u.last_name", "u.is_alumni",
		"pr.profile_picture", "pr.current_position", "pr.current_company",
		"(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count",
		"(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count",
	).
		Column(squirrel.Expr("EXISTS(SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = ?) AS user_liked", viewerID)).
		From("posts p").
		Join("users u ON p.user_id = u.id").
		LeftJoin("profiles pr ON u.id = pr.user_id")
}

func scanPostView(row pgx.Row) (*models.PostView, error) {
	v := &models.PostView{}
	err := row.Scan(&v.ID, &v.UserID, &v.Content, &v.ImageURL, &v.PostType, &v.CreatedAt, &v.UpdatedAt,
		&v.FirstName, &v.LastName, &v.IsAlumni,
		&v.ProfilePicture, &v.CurrentPosition, &v.CurrentCompany,
		&v.LikeCount, &v.CommentCount, &v.UserLiked)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// List returns one page of the feed, newest first, and the total number of
// posts matching the filter.
func (r *PostRepository) List(ctx context.Context, f models.PostFilter) ([]models.PostView, int64, error) {
	query := r.viewQuery(f.ViewerID)
	count := r.sb.Select("COUNT(*)").From("posts p")
	if f.Type != "" {
		query = query.Where(squirrel.Eq{"p.post_type": f.Type})
		count = count.Where(squirrel.Eq{"p.post_type": f.Type})
	}

	sql, args, err := query.
		OrderBy("p.created_at DESC", "p.id DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64((f.Page - 1) * f.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list posts query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.PostView, 0, f.Limit)
	var jobPostIDs []int64
	for rows.Next() {
		v, err := scanPostView(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning post: %w", err)
		}
		if v.PostType.HasJobDetails() {
			jobPostIDs = append(jobPostIDs, v.ID)
		}
		posts = append(posts, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating posts: %w", err)
	}

	if len(jobPostIDs) > 0 {
		details, err := r.jobDetailsFor(ctx, jobPostIDs)
		if err != nil {
			return nil, 0, err
		}
		for i := range posts {
			posts[i].JobDetails = details[posts[i].ID]
		}
	}

	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count posts query: %w", err)
	}
	var total int64
	if err := r.db.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting posts: %w", err)
	}

	return posts, total, nil
}

// GetView returns a single post as seen by viewerID, without comments.
func (r *PostRepository) GetView(ctx context.Context, postID, viewerID int64) (*models.PostView, error) {
	sql, args, err := r.viewQuery(viewerID).Where(squirrel.Eq{"p.id": postID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get post query: %w", err)
	}

	v, err := scanPostView(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("Post not found!")
		}
		return nil, fmt.Errorf("error retrieving post: %w", err)
	}

	if v.PostType.HasJobDetails() {
		details, err := r.jobDetailsFor(ctx, []int64{v.ID})
		if err != nil {
			return nil, err
		}
		v.JobDetails = details[v.ID]
	}
	return v, nil
}

func (r *PostRepository) jobDetailsFor(ctx context.Context, postIDs []int64) (map[int64]*models.JobDetails, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT post_id, company_name, position, location, job_type, description, application_url, deadline
		FROM job_posts WHERE post_id = ANY($1)`, postIDs)
	if err != nil {
		return nil, fmt.Errorf("error loading job details: %w", err)
	}
	defer rows.Close()

	details := make(map[int64]*models.JobDetails, len(postIDs))
	for rows.Next() {
		j := &models.JobDetails{}
		if err := rows.Scan(&j.PostID, &j.CompanyName, &j.Position, &j.Location, &j.JobType,
			&j.Description, &j.ApplicationURL, &j.Deadline); err != nil {
			return nil, fmt.Errorf("error scanning job details: %w", err)
		}
		details[j.PostID] = j
	}
	return details, rows.Err()
}

// Update changes content and/or image of a post owned by ownerID. Nil fields
// are left untouched.
func (r *PostRepository) Update(ctx context.Context, postID, ownerID int64, content, imageURL *string) (*models.Post, error) {
	p, err := scanPost(r.db.Pool.QueryRow(ctx, `
		UPDATE posts
		SET content = COALESCE($1, content),
			image_url = COALESCE($2, image_url),
			updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING `+postColumns,
		content, imageURL, postID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("Post not found or you don't have permission to update it!")
		}
		return nil, fmt.Errorf("error updating post: %w", err)
	}
	return p, nil
}

// Delete removes a post owned by ownerID; comments, likes and job details
// follow through ON DELETE CASCADE.
func (r *PostRepository) Delete(ctx context.Context, postID, ownerID int64) error {
	sql, args, err := r.sb.Delete("posts").
		Where(squirrel.Eq{"id": postID, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete post query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("Post not found or you don't have permission to delete it!")
	}
	return nil
}

// ToggleLike flips the like of userID on postID inside one transaction and
// returns the resulting state.
func (r *PostRepository) ToggleLike(ctx context.Context, postID, userID int64) (models.LikeState, error) {
	var state models.LikeState

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
		if err != nil {
			return fmt.Errorf("error removing like: %w", err)
		}

		if tag.RowsAffected() == 0 {
			_, err := tx.Exec(ctx, `
				INSERT INTO likes (post_id, user_id) VALUES ($1, $2)
				ON CONFLICT (post_id, user_id) DO NOTHING`, postID, userID)
			if err != nil {
				if dberrors.IsForeignKeyViolation(err) {
					return apperrors.NewResourceNotFoundError("Post not found!")
				}
				return fmt.Errorf("error adding like: %w", err)
			}
			state.UserLiked = true
		}

		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE post_id = $1`, postID).Scan(&state.LikeCount); err != nil {
			return fmt.Errorf("error counting likes: %w", err)
		}
		return nil
	})

	return state, err
}
