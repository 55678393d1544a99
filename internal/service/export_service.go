package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/classtrack/classtrack-api/pkg/errors"
	"github.com/classtrack/classtrack-api/pkg/export"
	"github.com/classtrack/classtrack-api/pkg/storage"
)

// ExportFormat names a supported summary export format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult is a rendered export document.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportLink is a signed download reference to a stored export.
type ExportLink struct {
	Token     string    `json:"token"`
	Filename  string    `json:"filename"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExportService renders attendance summaries as downloadable documents,
// either inline or persisted with a signed download link.
type ExportService struct {
	summaries *SummaryService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	store     *storage.ExportStore
	signer    *storage.Signer
	logger    *zap.Logger
}

// NewExportService constructs the export service. Store and signer may
// be nil, in which case only inline rendering is available.
func NewExportService(summaries *SummaryService, store *storage.ExportStore, signer *storage.Signer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		summaries: summaries,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		store:     store,
		signer:    signer,
		logger:    logger,
	}
}

// Render produces the overall attendance summary in the requested format.
func (s *ExportService) Render(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	table := export.Table{
		Title:   "Attendance Summary",
		Columns: []string{"Student", "Student ID", "Present Days", "Total Days", "Percentage"},
	}
	for _, summary := range s.summaries.Overall(ctx) {
		table.Rows = append(table.Rows, []string{
			summary.Name,
			summary.StudentID,
			strconv.Itoa(summary.PresentDays),
			strconv.Itoa(summary.TotalDays),
			fmt.Sprintf("%.2f%%", summary.Percentage),
		})
	}

	switch ExportFormat(strings.ToLower(string(format))) {
	case ExportFormatCSV:
		content, err := s.csv.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: "attendance-summary.csv"}, nil
	case ExportFormatPDF:
		content, err := s.pdf.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: "attendance-summary.pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// Publish renders the summary, persists it and returns a signed
// download link honored by Fetch until it expires.
func (s *ExportService) Publish(ctx context.Context, format ExportFormat) (*ExportLink, error) {
	if s.store == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "export links are not configured")
	}
	result, err := s.Render(ctx, format)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("attendance-summary-%s%s", uuid.NewString(), filepath.Ext(result.Filename))
	stored, err := s.store.Save(name, result.Content)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, expiresAt, err := s.signer.Generate(stored)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export link")
	}

	s.logger.Info("export published",
		zap.String("filename", stored),
		zap.Time("expires_at", expiresAt))
	return &ExportLink{Token: token, Filename: stored, ExpiresAt: expiresAt}, nil
}

// Fetch validates a download token and returns the stored export.
func (s *ExportService) Fetch(token string) (*ExportResult, error) {
	if s.store == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "export links are not configured")
	}
	name, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}
	content, err := s.store.Read(name)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export is no longer available")
	}

	contentType := "text/csv"
	if filepath.Ext(name) == ".pdf" {
		contentType = "application/pdf"
	}
	return &ExportResult{Content: content, ContentType: contentType, Filename: name}, nil
}
