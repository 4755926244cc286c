package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/health-survey-api/internal/models"
	"github.com/noah-isme/health-survey-api/internal/survey"
	"github.com/noah-isme/health-survey-api/pkg/export"
	"github.com/noah-isme/health-survey-api/pkg/storage"
)

type exportResponseSource interface {
	ListAll(ctx context.Context, filter models.ResponseFilter) ([]models.ResponseRow, error)
	ListSurveyDetails(ctx context.Context, surveyID, governorateID string) ([]models.ResponseDetail, error)
}

type exportSurveySource interface {
	GetByID(ctx context.Context, id string) (*models.Survey, error)
	ListFields(ctx context.Context, surveyID string) ([]models.SurveyField, error)
}

type exportAuditSource interface {
	List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLogEntry, int, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
	Location  *time.Location
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	Rows         int
	ExpiresAt    time.Time
}

// ExportService builds export datasets and persists rendered files.
type ExportService struct {
	responses exportResponseSource
	surveys   exportSurveySource
	audits    exportAuditSource
	storage   fileStorage
	csv       csvRenderer
	pdf       pdfRenderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// NewExportService constructs an ExportService.
func NewExportService(
	responses exportResponseSource,
	surveys exportSurveySource,
	audits exportAuditSource,
	storage fileStorage,
	signer *storage.SignedURLSigner,
	cfg ExportConfig,
	logger *zap.Logger,
	csv csvRenderer,
	pdf pdfRenderer,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		responses: responses,
		surveys:   surveys,
		audits:    audits,
		storage:   storage,
		csv:       csv,
		pdf:       pdf,
		signer:    signer,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate builds the dataset described by the job and stores the rendered file.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.buildFilename(job), payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/exports/download/%s", prefix, token),
		Format:       job.Params.Format,
		Rows:         len(dataset.Rows),
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ExportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	scope := sanitizeFilename(job.Params.SurveyID)
	return fmt.Sprintf("%s_%s_%s.%s", strings.ToLower(string(job.Type)), scope, timestamp, job.Params.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "all"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ExportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ExportTypeSurveyResponses:
		return s.buildResponseDataset(ctx, job.Params)
	case models.ExportTypeAuditLogs:
		return s.buildAuditDataset(ctx, job.Params)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported export type %s", job.Type)
	}
}

var responseBaseHeaders = []string{"Response ID", "Submitted At", "Username", "Governorate", "Health Administration", "Completed"}

// buildResponseDataset pivots answers so each survey field becomes one column.
func (s *ExportService) buildResponseDataset(ctx context.Context, params models.ExportJobParams) (export.Dataset, string, error) {
	if params.SurveyID == "" {
		return export.Dataset{}, "", fmt.Errorf("survey id required for response export")
	}
	item, err := s.surveys.GetByID(ctx, params.SurveyID)
	if err != nil {
		return export.Dataset{}, "", fmt.Errorf("load survey: %w", err)
	}
	fields, err := s.surveys.ListFields(ctx, params.SurveyID)
	if err != nil {
		return export.Dataset{}, "", fmt.Errorf("load survey fields: %w", err)
	}
	fields = survey.Ordered(fields)

	rows, err := s.responses.ListAll(ctx, models.ResponseFilter{SurveyID: params.SurveyID, GovernorateID: params.GovernorateID})
	if err != nil {
		return export.Dataset{}, "", fmt.Errorf("load responses: %w", err)
	}
	details, err := s.responses.ListSurveyDetails(ctx, params.SurveyID, params.GovernorateID)
	if err != nil {
		return export.Dataset{}, "", fmt.Errorf("load response details: %w", err)
	}

	answers := make(map[string]map[string]string, len(rows))
	for _, d := range details {
		if answers[d.ResponseID] == nil {
			answers[d.ResponseID] = map[string]string{}
		}
		answers[d.ResponseID][d.FieldID] = d.AnswerValue
	}

	headers := append([]string{}, responseBaseHeaders...)
	columns := make([]string, len(fields))
	seen := map[string]int{}
	for _, h := range headers {
		seen[h] = 1
	}
	for i, f := range fields {
		label := strings.TrimSpace(f.Label)
		if label == "" {
			label = "Field " + strconv.Itoa(i+1)
		}
		seen[label]++
		if n := seen[label]; n > 1 {
			label = fmt.Sprintf("%s (%d)", label, n)
		}
		columns[i] = label
		headers = append(headers, label)
	}

	dataRows := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		record := map[string]string{
			"Response ID":           row.ID,
			"Submitted At":          row.SubmissionDate.In(s.cfg.Location).Format("2006-01-02 15:04"),
			"Username":              row.Username,
			"Governorate":           row.GovernorateName,
			"Health Administration": row.RegionName,
			"Completed":             yesNo(row.IsCompleted),
		}
		for i, f := range fields {
			record[columns[i]] = answers[row.ID][f.ID]
		}
		dataRows = append(dataRows, record)
	}

	return export.Dataset{Headers: headers, Rows: dataRows}, fmt.Sprintf("%s Responses", item.Name), nil
}

func (s *ExportService) buildAuditDataset(ctx context.Context, params models.ExportJobParams) (export.Dataset, string, error) {
	filter := models.AuditLogFilter{PageSize: -1}
	if params.Extras != nil {
		filter.Resource = params.Extras["resource"]
		filter.Action = params.Extras["action"]
	}
	entries, _, err := s.audits.List(ctx, filter)
	if err != nil {
		return export.Dataset{}, "", fmt.Errorf("load audit logs: %w", err)
	}
	headers := []string{"Time", "Username", "Action", "Resource", "Resource ID", "IP Address", "Old Values", "New Values"}
	dataRows := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		dataRows = append(dataRows, map[string]string{
			"Time":        entry.CreatedAt.In(s.cfg.Location).Format(time.RFC3339),
			"Username":    deref(entry.Username),
			"Action":      entry.Action,
			"Resource":    entry.Resource,
			"Resource ID": deref(entry.ResourceID),
			"IP Address":  entry.IPAddress,
			"Old Values":  string(entry.OldValues),
			"New Values":  string(entry.NewValues),
		})
	}
	return export.Dataset{Headers: headers, Rows: dataRows}, "Audit Log", nil
}

func deref(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
