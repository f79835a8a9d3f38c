package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"blogpress/internal/model"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(post *model.Post) error {
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("create post failed: %w", err)
	}
	return nil
}

func (r *PostRepository) GetByID(id uint) (*model.Post, error) {
	var post model.Post
	err := r.db.
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query post by id failed: %w", err)
	}
	return &post, nil
}

func (r *PostRepository) List() ([]model.Post, error) {
	var posts []model.Post
	if err := r.listQuery().Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts failed: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) ListPage(page, limit int) ([]model.Post, int64, error) {
	var total int64
	if err := r.db.Model(&model.Post{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts failed: %w", err)
	}

	var posts []model.Post
	err := r.listQuery().
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list posts page failed: %w", err)
	}
	return posts, total, nil
}

func (r *PostRepository) ListByCategory(category string) ([]model.Post, error) {
	var posts []model.Post
	err := r.listQuery().Where("category = ?", category).Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list posts by category failed: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) ListByAuthor(authorID uint) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.Where("author_id = ?", authorID).Order("created_at DESC").Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list posts by author failed: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) Save(post *model.Post) error {
	if err := r.db.Omit("Comments").Save(post).Error; err != nil {
		return fmt.Errorf("save post failed: %w", err)
	}
	return nil
}

// Delete removes the post together with its comments; comments never outlive
// their parent post.
func (r *PostRepository) Delete(postID uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, postID).Error
	})
	if err != nil {
		return fmt.Errorf("delete post failed: %w", err)
	}
	return nil
}

func (r *PostRepository) listQuery() *gorm.DB {
	return r.db.
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("created_at DESC")
}
