package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/aimd54/wardrobe-stylist/internal/models"
)

// FeedRepository handles the public outfit feed.
type FeedRepository struct {
	db *DB
}

// NewFeedRepository creates a new feed repository.
func NewFeedRepository(db *DB) *FeedRepository {
	return &FeedRepository{db: db}
}

// CreatePost publishes a post.
func (r *FeedRepository) CreatePost(post *models.FeedPost) error {
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create feed post: %w", err)
	}
	return nil
}

// GetPost retrieves a post by id.
func (r *FeedRepository) GetPost(id uint) (*models.FeedPost, error) {
	var post models.FeedPost
	err := r.db.First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed post %d: %w", id, err)
	}
	return &post, nil
}

// ListPosts returns the newest posts.
func (r *FeedRepository) ListPosts(limit int) ([]models.FeedPost, error) {
	var posts []models.FeedPost
	if err := r.db.Order("created_at DESC, id DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list feed posts: %w", err)
	}
	return posts, nil
}

// RandomPosts returns up to n posts in random order.
func (r *FeedRepository) RandomPosts(n int) ([]models.FeedPost, error) {
	var posts []models.FeedPost
	if err := r.db.Order("RANDOM()").Limit(n).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to pick feed posts: %w", err)
	}
	return posts, nil
}

// IncrementDuelWins adds a duel win to a post.
func (r *FeedRepository) IncrementDuelWins(id uint) error {
	result := r.db.Model(&models.FeedPost{}).
		Where("id = ?", id).
		UpdateColumn("duel_wins", gorm.Expr("duel_wins + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("failed to record duel win for post %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// IncrementLikes adds a like to a post.
func (r *FeedRepository) IncrementLikes(id uint) error {
	result := r.db.Model(&models.FeedPost{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("failed to like post %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// TopByDuelWins returns the posts with the most duel wins.
func (r *FeedRepository) TopByDuelWins(limit int) ([]models.FeedPost, error) {
	var posts []models.FeedPost
	err := r.db.Where("duel_wins > 0").Order("duel_wins DESC, id ASC").Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list duel leaders: %w", err)
	}
	return posts, nil
}

// CreateComment adds a comment to a post.
func (r *FeedRepository) CreateComment(comment *models.Comment) error {
	if err := r.db.Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// ListComments returns a post's comments, oldest first.
func (r *FeedRepository) ListComments(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("post_id = ?", postID).Order("created_at, id").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
