package services

import (
	"context"
	"time"

	"github.com/alumnode/backend/internal/app/models"
	"github.com/alumnode/backend/internal/app/repositories"
)

// The interfaces below are implemented by the repositories package and let
// the services be exercised with in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type AdminStore interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	GetByID(ctx context.Context, id int64) (*models.Admin, error)
}

type TokenStore interface {
	Create(ctx context.Context, token string, principalID int64) error
	FindPrincipalID(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type ConnectionStore interface {
	ApplyRequest(ctx context.Context, requesterID, addresseeID int64, decide repositories.ConnectionDecider) (*models.Connection, models.ConnectionAction, error)
	Respond(ctx context.Context, connectionID, addresseeID int64, status models.ConnectionStatus) (*models.Connection, error)
	FindBetween(ctx context.Context, a, b int64) (*models.Connection, error)
	ListIncoming(ctx context.Context, userID int64) ([]models.IncomingRequest, error)
	ListAccepted(ctx context.Context, userID int64) ([]models.ConnectedUser, error)
}

type ProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	Upsert(ctx context.Context, userID int64, update models.ProfileUpdate) (*models.Profile, error)
	Stats(ctx context.Context, userID int64) (models.ProfileStats, error)
}

type PostStore interface {
	Create(ctx context.Context, post *models.Post, job *models.JobDetails) error
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter models.PostFilter) ([]models.PostView, int64, error)
	GetView(ctx context.Context, postID, viewerID int64) (*models.PostView, error)
	Update(ctx context.Context, postID, ownerID int64, content, imageURL *string) (*models.Post, error)
	Delete(ctx context.Context, postID, ownerID int64) error
	ToggleLike(ctx context.Context, postID, userID int64) (models.LikeState, error)
}

type CommentStore interface {
	Create(ctx context.Context, postID, userID int64, content string) (*models.CommentView, error)
	ListByPost(ctx context.Context, postID int64) ([]models.CommentView, error)
	Delete(ctx context.Context, commentID, ownerID int64) error
}

// PasswordHasher is implemented by auth.PasswordHasher
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(hashedPassword, password string) bool
}
