package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/alumnode/backend/internal/app/models"
	"github.com/alumnode/backend/internal/pkg/apperrors"
)

// Posts is an in-memory PostStore. Likes are kept per post.
type Posts struct {
	mu     sync.Mutex
	nextID int64
	posts  map[int64]*models.Post
	jobs   map[int64]*models.JobDetails
	likes  map[int64]map[int64]bool

	// Creates counts successful Create calls
	Creates int
}

func NewPosts() *Posts {
	return &Posts{
		posts: make(map[int64]*models.Post),
		jobs:  make(map[int64]*models.JobDetails),
		likes: make(map[int64]map[int64]bool),
	}
}

func (s *Posts) Create(_ context.Context, post *models.Post, job *models.JobDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := time.Now()
	post.ID = s.nextID
	post.CreatedAt = now
	post.UpdatedAt = now
	if job != nil {
		job.PostID = post.ID
		post.JobDetails = job
		jcp := *job
		s.jobs[post.ID] = &jcp
	}
	cp := *post
	s.posts[post.ID] = &cp
	s.Creates++
	return nil
}

func (s *Posts) Exists(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.posts[id]
	return ok, nil
}

func (s *Posts) viewLocked(p *models.Post, viewerID int64) models.PostView {
	v := models.PostView{Post: *p}
	v.JobDetails = s.jobs[p.ID]
	v.LikeCount = int64(len(s.likes[p.ID]))
	v.UserLiked = s.likes[p.ID][viewerID]
	return v
}

func (s *Posts) List(_ context.Context, f models.PostFilter) ([]models.PostView, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []models.PostView
	for _, p := range s.posts {
		if f.Type != "" && p.PostType != f.Type {
			continue
		}
		all = append(all, s.viewLocked(p, f.ViewerID))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := int64(len(all))
	start := (f.Page - 1) * f.Limit
	if start >= len(all) {
		return []models.PostView{}, total, nil
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (s *Posts) GetView(_ context.Context, postID, viewerID int64) (*models.PostView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[postID]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Post not found!")
	}
	v := s.viewLocked(p, viewerID)
	return &v, nil
}

func (s *Posts) Update(_ context.Context, postID, ownerID int64, content, imageURL *string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[postID]
	if !ok || p.UserID != ownerID {
		return nil, apperrors.NewResourceNotFoundError("Post not found or you don't have permission to update it!")
	}
	if content != nil {
		p.Content = *content
	}
	if imageURL != nil {
		p.ImageURL = imageURL
	}
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (s *Posts) Delete(_ context.Context, postID, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[postID]
	if !ok || p.UserID != ownerID {
		return apperrors.NewResourceNotFoundError("Post not found or you don't have permission to delete it!")
	}
	delete(s.posts, postID)
	delete(s.jobs, postID)
	delete(s.likes, postID)
	return nil
}

func (s *Posts) ToggleLike(_ context.Context, postID, userID int64) (models.LikeState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return models.LikeState{}, apperrors.NewResourceNotFoundError("Post not found!")
	}
	if s.likes[postID] == nil {
		s.likes[postID] = make(map[int64]bool)
	}

	liked := !s.likes[postID][userID]
	if liked {
		s.likes[postID][userID] = true
	} else {
		delete(s.likes[postID], userID)
	}
	return models.LikeState{LikeCount: int64(len(s.likes[postID])), UserLiked: liked}, nil
}

// Count returns the number of stored posts
func (s *Posts) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

// Comments is an in-memory CommentStore
type Comments struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.CommentView
}

func NewComments() *Comments {
	return &Comments{rows: make(map[int64]*models.CommentView)}
}

func (s *Comments) Create(_ context.Context, postID, userID int64, content string) (*models.CommentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	c := &models.CommentView{Comment: models.Comment{
		ID:        s.nextID,
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}}
	s.rows[c.ID] = c
	cp := *c
	return &cp, nil
}

func (s *Comments) ListByPost(_ context.Context, postID int64) ([]models.CommentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.CommentView
	for _, c := range s.rows {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Comments) Delete(_ context.Context, commentID, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.rows[commentID]
	if !ok || c.UserID != ownerID {
		return apperrors.NewResourceNotFoundError("Comment not found or you don't have permission to delete it!")
	}
	delete(s.rows, commentID)
	return nil
}

// Profiles is an in-memory ProfileStore. Stats are read from Counts.
type Profiles struct {
	mu     sync.Mutex
	rows   map[int64]*models.Profile
	Counts map[int64]models.ProfileStats
}

func NewProfiles() *Profiles {
	return &Profiles{rows: make(map[int64]*models.Profile), Counts: make(map[int64]models.ProfileStats)}
}

func (s *Profiles) GetByUserID(_ context.Context, userID int64) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.rows[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *Profiles) Upsert(_ context.Context, userID int64, u models.ProfileUpdate) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	p, ok := s.rows[userID]
	if !ok {
		p = &models.Profile{UserID: userID, CreatedAt: now}
		s.rows[userID] = p
	}
	if u.Bio != nil {
		p.Bio = u.Bio
	}
	if u.GraduationYear != nil {
		p.GraduationYear = u.GraduationYear
	}
	if u.CurrentCompany != nil {
		p.CurrentCompany = u.CurrentCompany
	}
	if u.CurrentPosition != nil {
		p.CurrentPosition = u.CurrentPosition
	}
	if u.ProfilePicture != nil {
		p.ProfilePicture = u.ProfilePicture
	}
	if u.LinkedinURL != nil {
		p.LinkedinURL = u.LinkedinURL
	}
	if u.GithubURL != nil {
		p.GithubURL = u.GithubURL
	}
	p.UpdatedAt = now

	cp := *p
	return &cp, nil
}

func (s *Profiles) Stats(_ context.Context, userID int64) (models.ProfileStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Counts[userID], nil
}
