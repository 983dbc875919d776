package repository

import (
	"context"

	"paceup/internal/models"

	"gorm.io/gorm"
)

// DocumentRepository defines persistence operations for analyzed documents.
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Document, error)
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository returns a new DocumentRepository implementation.
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *documentRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Document, error) {
	var docs []*models.Document
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&docs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return docs, nil
}
