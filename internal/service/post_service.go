package service

import (
	"context"
	"strings"

	"paceup/internal/models"
	"paceup/internal/notifications"
	"paceup/internal/repository"
)

type PostService struct {
	posts    repository.PostRepository
	users    repository.UserRepository
	notifier *notifications.Notifier
}

type CreatePostInput struct {
	UserID   string
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
	PostType string
}

type UpdatePostInput struct {
	UserID   string
	PostID   string
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

func NewPostService(
	posts repository.PostRepository,
	users repository.UserRepository,
	notifier *notifications.Notifier,
) *PostService {
	return &PostService{posts: posts, users: users, notifier: notifier}
}

const (
	maxTitleLen   = 300
	maxContentLen = 50000
)

// CreatePost stores a new post. Blog posts start pending and wait for
// moderation; content posts are published immediately.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	status := models.StatusPending
	if in.PostType == models.PostTypeContent {
		status = models.StatusApproved
	}
	post := &models.Post{
		Title:    in.Title,
		Content:  in.Content,
		ImageURL: in.ImageURL,
		PostType: in.PostType,
		Status:   status,
		UserID:   in.UserID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost returns a post of the given type. Pending and rejected posts are
// only visible to their author.
func (s *PostService) GetPost(ctx context.Context, postType, id, currentUserID string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}
	if post.PostType != postType {
		return nil, models.NewNotFoundError("Post", id)
	}
	if post.Status != models.StatusApproved && post.UserID != currentUserID {
		return nil, models.NewNotFoundError("Post", id)
	}
	return post, nil
}

// ListPosts lists posts of one type. Status defaults to approved; pass "all"
// together with a UserID filter to list a user's own drafts too.
func (s *PostService) ListPosts(ctx context.Context, filter repository.PostFilter, currentUserID string) ([]*models.Post, error) {
	if filter.Status == "" {
		filter.Status = models.StatusApproved
	}
	// Only the author may widen the status filter beyond approved posts.
	if filter.Status != models.StatusApproved && filter.UserID != currentUserID {
		filter.UserID = currentUserID
	}
	return s.posts.List(ctx, filter, currentUserID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	if in.Title != "" {
		if len(in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 300 characters)")
		}
		post.Title = in.Title
	}
	if in.Content != "" {
		if len(in.Content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 50000 characters)")
		}
		post.Content = in.Content
	}
	if in.ImageURL != "" {
		post.ImageURL = in.ImageURL
	}
	// Edits to a blog post go back through moderation.
	if post.PostType == models.PostTypeBlog {
		post.Status = models.StatusPending
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, postID, userID string, isAdmin bool) error {
	post, err := s.posts.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID && !isAdmin {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.posts.Delete(ctx, postID)
}

// LikePost records a like. Repeats are no-ops at the database level; only a
// first-time like notifies the author.
func (s *PostService) LikePost(ctx context.Context, postID, userID string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	created, err := s.posts.Like(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if created && post.UserID != userID {
		liker, err := s.users.GetByID(ctx, userID)
		likerName := "Someone"
		if err == nil {
			likerName = liker.Username
		}
		s.notifier.Notify(ctx, post.UserID, models.NotifyPostLiked,
			"New like on your post",
			likerName+" liked \""+post.Title+"\"",
			models.JSONMap{"post_id": postID, "liker_id": userID},
		)
	}

	return s.posts.GetByID(ctx, postID, userID)
}

func (s *PostService) UnlikePost(ctx context.Context, postID, userID string) (*models.Post, error) {
	if err := s.posts.Unlike(ctx, postID, userID); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, postID, userID)
}
