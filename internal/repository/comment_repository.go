package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"blogpress/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *model.Comment) error {
	if err := r.db.Create(comment).Error; err != nil {
		return fmt.Errorf("create comment failed: %w", err)
	}
	return nil
}

// GetByIDAndPostID scopes the lookup to the parent post; a comment id from
// another post is treated as not found.
func (r *CommentRepository) GetByIDAndPostID(commentID, postID uint) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Where("id = ? AND post_id = ?", commentID, postID).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query comment failed: %w", err)
	}
	return &comment, nil
}

func (r *CommentRepository) ListByPostID(postID uint) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.Where("post_id = ?", postID).Order("created_at ASC").Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	return comments, nil
}

func (r *CommentRepository) Delete(commentID uint) error {
	if err := r.db.Delete(&model.Comment{}, commentID).Error; err != nil {
		return fmt.Errorf("delete comment failed: %w", err)
	}
	return nil
}
