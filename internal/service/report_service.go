package service

import (
	"context"
	"strings"

	"paceup/internal/models"
	"paceup/internal/repository"
)

type ReportService struct {
	reports repository.ReportRepository
	posts   repository.PostRepository
}

type CreateReportInput struct {
	ReporterID  string
	PostID      string   `json:"post_id"`
	Reasons     []string `json:"reasons"`
	Description string   `json:"description"`
}

func NewReportService(reports repository.ReportRepository, posts repository.PostRepository) *ReportService {
	return &ReportService{reports: reports, posts: posts}
}

func (s *ReportService) CreateReport(ctx context.Context, in CreateReportInput) (*models.Report, error) {
	if strings.TrimSpace(in.PostID) == "" {
		return nil, models.NewValidationError("post_id is required")
	}
	if len(in.Reasons) == 0 {
		return nil, models.NewValidationError("At least one reason is required")
	}
	// The post must exist at report time.
	if _, err := s.posts.GetByID(ctx, in.PostID, in.ReporterID); err != nil {
		return nil, err
	}

	report := &models.Report{
		PostID:      in.PostID,
		ReporterID:  in.ReporterID,
		Reasons:     models.StringList(in.Reasons),
		Description: in.Description,
		Status:      models.ReportPending,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) ListReports(ctx context.Context, status string, limit, offset int) ([]*models.Report, error) {
	if status == "" {
		status = models.ReportPending
	}
	return s.reports.List(ctx, status, limit, offset)
}

// Decide settles a pending report. Resolving deletes the reported post;
// dismissing keeps it.
func (s *ReportService) Decide(ctx context.Context, reportID, decision string) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportPending {
		return nil, models.NewConflictError("Report has already been decided")
	}

	switch decision {
	case models.ReportResolved:
		if err := s.reports.Resolve(ctx, reportID, report.PostID); err != nil {
			return nil, err
		}
	case models.ReportDismissed:
		if err := s.reports.Dismiss(ctx, reportID); err != nil {
			return nil, err
		}
	default:
		return nil, models.NewValidationError("Decision must be resolved or dismissed")
	}

	report.Status = decision
	return report, nil
}
