package repository

import (
	"context"

	"coachhub/internal/cache"
	"coachhub/internal/models"

	"gorm.io/gorm"
)

// BlogRepository defines the interface for blog post operations.
type BlogRepository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	GetByID(ctx context.Context, id uint) (*models.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	ListPublished(ctx context.Context, limit, offset int) ([]*models.BlogPost, error)
	Update(ctx context.Context, post *models.BlogPost) error
	Delete(ctx context.Context, id uint) error
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository.
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, post *models.BlogPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *blogRepository) GetByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *blogRepository) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := cache.Aside(ctx, cache.BlogPostKey(slug), &post, cache.BlogPostTTL, func() error {
		return r.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *blogRepository) ListPublished(ctx context.Context, limit, offset int) ([]*models.BlogPost, error) {
	var posts []*models.BlogPost
	err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *blogRepository) Update(ctx context.Context, post *models.BlogPost) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidateBlogPost(ctx, post.Slug)
	return nil
}

func (r *blogRepository) Delete(ctx context.Context, id uint) error {
	var post models.BlogPost
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&post).Error; err != nil {
		return err
	}
	cache.InvalidateBlogPost(ctx, post.Slug)
	return nil
}
