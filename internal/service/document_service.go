package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"paceup/internal/docparse"
	"paceup/internal/middleware"
	"paceup/internal/models"
	"paceup/internal/observability"
	"paceup/internal/repository"
	"paceup/internal/storage"

	"go.opentelemetry.io/otel/attribute"
)

// DocumentService extracts HTML previews from uploaded documents and stores
// both the original and the preview in object storage. Extraction succeeding
// while storage fails is a partial success: the caller still gets the HTML,
// and the record carries no storage keys.
type DocumentService struct {
	documents repository.DocumentRepository
	store     storage.Store
}

// AnalyzeResult is returned by Analyze; HTML is always present on success,
// the storage fields only when the upload to object storage worked.
type AnalyzeResult struct {
	Document *models.Document `json:"document"`
	HTML     string           `json:"html"`
	Partial  bool             `json:"partial"`
}

func NewDocumentService(documents repository.DocumentRepository, store storage.Store) *DocumentService {
	return &DocumentService{documents: documents, store: store}
}

func contentTypeFor(filename string) string {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

func (s *DocumentService) Analyze(ctx context.Context, userID, filename string, data []byte) (*AnalyzeResult, error) {
	if len(data) == 0 {
		return nil, models.NewValidationError("File is empty")
	}
	if len(data) > models.MaxDocumentSize {
		return nil, models.NewValidationError("File exceeds the 10MB limit")
	}

	span, ctx := observability.NewSpan(ctx, "document.analyze")
	defer span.End()
	span.AddAttributes(
		attribute.String("document.filename", filename),
		attribute.Int("document.size", len(data)),
	)

	parsed, err := docparse.Parse(filename, data)
	if err != nil {
		observability.DocumentsAnalyzed.WithLabelValues("failed").Inc()
		span.SetError(err)
		if err == docparse.ErrUnsupportedFormat {
			return nil, models.NewValidationError("Only PDF and DOCX files are supported")
		}
		return nil, models.NewValidationError("Could not extract text from this file")
	}

	doc := &models.Document{
		UserID:      userID,
		Filename:    filename,
		ContentType: contentTypeFor(filename),
		Size:        int64(len(data)),
		HTMLLength:  len(parsed.HTML),
	}

	partial := false
	if s.store != nil {
		original, err := s.store.Upload(ctx, "documents", filename, doc.ContentType, data)
		if err == nil {
			doc.StorageKey = original.Key
			doc.StorageURL = original.URL
			preview, perr := s.store.Upload(ctx, "previews", filename+".html", "text/html; charset=utf-8", []byte(parsed.HTML))
			if perr == nil {
				doc.PreviewKey = preview.Key
				doc.PreviewURL = preview.URL
			} else {
				err = perr
			}
		}
		if err != nil {
			// Analysis already succeeded; storage trouble downgrades the
			// response instead of failing it.
			partial = true
			middleware.Logger.WarnContext(ctx, "document storage failed",
				slog.String("filename", filename),
				slog.String("error", err.Error()),
			)
		}
	} else {
		partial = true
	}

	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, err
	}

	outcome := "ok"
	if partial {
		outcome = "partial"
	}
	observability.DocumentsAnalyzed.WithLabelValues(outcome).Inc()

	return &AnalyzeResult{Document: doc, HTML: parsed.HTML, Partial: partial}, nil
}

func (s *DocumentService) ListDocuments(ctx context.Context, userID string, limit, offset int) ([]*models.Document, error) {
	return s.documents.ListByUser(ctx, userID, limit, offset)
}
