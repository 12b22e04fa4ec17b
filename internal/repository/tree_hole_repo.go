package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yichenzhao/buddyup/internal/models"
)

type TreeHoleRepository interface {
	Create(ctx context.Context, post *models.TreeHolePost) error
	FindAll(ctx context.Context, limit, offset int) ([]models.TreeHolePost, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.TreeHolePost, error)
	Save(ctx context.Context, post *models.TreeHolePost) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type treeHoleRepository struct {
	db *gorm.DB
}

func NewTreeHoleRepository(db *gorm.DB) TreeHoleRepository {
	return &treeHoleRepository{db: db}
}

func (r *treeHoleRepository) Create(ctx context.Context, post *models.TreeHolePost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *treeHoleRepository) FindAll(ctx context.Context, limit, offset int) ([]models.TreeHolePost, error) {
	var posts []models.TreeHolePost
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *treeHoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.TreeHolePost, error) {
	var post models.TreeHolePost
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *treeHoleRepository) Save(ctx context.Context, post *models.TreeHolePost) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *treeHoleRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.TreeHolePost{})
	return result.RowsAffected, result.Error
}
