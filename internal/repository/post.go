package repository

import (
	"context"
	"errors"

	"paceup/internal/cache"
	"paceup/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// PostFilter narrows post listings.
type PostFilter struct {
	PostType string
	// Status filters by moderation status; "all" disables the filter.
	Status string
	UserID string
	Limit  int
	Offset int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string, currentUserID string) (*models.Post, error)
	List(ctx context.Context, filter PostFilter, currentUserID string) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	Like(ctx context.Context, postID, userID string) (bool, error)
	Unlike(ctx context.Context, postID, userID string) error
	UpdateStatus(ctx context.Context, id, status string) error
	CountByStatus(ctx context.Context, postType, status string) (int64, error)
}

type postRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB, rdb *redis.Client) PostRepository {
	return &postRepository{db: db, rdb: rdb}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// applyPostDetails adds the author join and like subqueries so listings are a
// single query instead of per-row lookups.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID string) *gorm.DB {
	selectQuery := "posts.*, users.username as author_name, " +
		"(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id) as likes_count"

	if currentUserID != "" {
		db = db.Select(selectQuery+", EXISTS(SELECT 1 FROM post_likes WHERE post_likes.post_id = posts.id AND post_likes.user_id = ?) as liked", currentUserID)
	} else {
		db = db.Select(selectQuery + ", false as liked")
	}
	return db.Joins("JOIN users ON users.id = posts.user_id")
}

func (r *postRepository) GetByID(ctx context.Context, id string, currentUserID string) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{}), currentUserID).
		Where("posts.id = ?", id).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter, currentUserID string) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{}), currentUserID)
	if filter.PostType != "" {
		q = q.Where("posts.post_type = ?", filter.PostType)
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("posts.status = ?", filter.Status)
	}
	if filter.UserID != "" {
		q = q.Where("posts.user_id = ?", filter.UserID)
	}
	q = q.Order("posts.created_at DESC")
	// Limit(0) would emit LIMIT 0 and return nothing; zero means unbounded here.
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	err := q.Offset(filter.Offset).Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, r.rdb, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.InvalidatePost(ctx, r.rdb, id)
	return nil
}

// Like inserts a like row; the unique index makes retries no-ops. Returns
// whether a new like was actually recorded.
func (r *postRepository) Like(ctx context.Context, postID, userID string) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		"INSERT INTO post_likes (id, post_id, user_id, created_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP) ON CONFLICT (post_id, user_id) DO NOTHING",
		newID(), postID, userID,
	)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		cache.InvalidatePost(ctx, r.rdb, postID)
	}
	return res.RowsAffected > 0, nil
}

func (r *postRepository) Unlike(ctx context.Context, postID, userID string) error {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostLike{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		cache.InvalidatePost(ctx, r.rdb, postID)
	}
	return nil
}

func (r *postRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.InvalidatePost(ctx, r.rdb, id)
	return nil
}

func (r *postRepository) CountByStatus(ctx context.Context, postType, status string) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.Post{})
	if postType != "" {
		q = q.Where("post_type = ?", postType)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
