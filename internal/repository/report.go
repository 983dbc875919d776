package repository

import (
	"context"
	"errors"

	"paceup/internal/models"

	"gorm.io/gorm"
)

// ReportRepository defines persistence operations for post reports.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.Report, error)
	// Resolve marks the report resolved and deletes the reported post inside
	// one transaction.
	Resolve(ctx context.Context, id, postID string) error
	Dismiss(ctx context.Context, id string) error
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository returns a new ReportRepository implementation.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Report", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, status string, limit, offset int) ([]*models.Report, error) {
	var reports []*models.Report
	q := r.db.WithContext(ctx).Model(&models.Report{}).
		Select("reports.*, posts.title as post_title, users.username as reporter_name").
		Joins("LEFT JOIN posts ON posts.id = reports.post_id AND posts.deleted_at IS NULL").
		Joins("JOIN users ON users.id = reports.reporter_id")
	if status != "" && status != "all" {
		q = q.Where("reports.status = ?", status)
	}
	err := q.Order("reports.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reports, nil
}

func (r *reportRepository) Resolve(ctx context.Context, id, postID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Report{}).Where("id = ?", id).Update("status", models.ReportResolved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", postID).Delete(&models.Post{}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Report", id)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reportRepository) Dismiss(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&models.Report{}).Where("id = ?", id).Update("status", models.ReportDismissed)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Report", id)
	}
	return nil
}
