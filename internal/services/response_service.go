package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/repositories"
	"github.com/SAP-F-2025/survey-service/internal/validator"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultListLimit   = 200
	defaultExportLimit = 5000
	exportSheetName    = "Responses"
)

// ExportHeader is the column order of response exports, one row per item.
var ExportHeader = []string{
	"response_id", "submitted_at", "survey_id", "cohort_id",
	"contact_name", "contact_email", "contact_phone", "business_name",
	"question_id", "question_label", "question_type", "repeat_index",
	"value_text", "value_number", "value_json",
}

type responseService struct {
	repo      repositories.Repository
	logger    *ServiceLogger
	validator *validator.Validator
}

func NewResponseService(repo repositories.Repository, logger *zap.Logger, validator *validator.Validator) ResponseService {
	return &responseService{
		repo:      repo,
		logger:    NewServiceLogger(logger, LogConfig{Service: "survey-service", Component: "responses"}),
		validator: validator,
	}
}

func (s *responseService) List(ctx context.Context, req *ListResponsesRequest) (*ResponseListResponse, error) {
	responses, items, err := s.query(ctx, req, defaultListLimit)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(responses))
	for _, item := range items {
		counts[item.ResponseID]++
	}

	resp := &ResponseListResponse{Responses: make([]ResponseSummary, 0, len(responses))}
	for _, r := range responses {
		resp.Responses = append(resp.Responses, ResponseSummary{
			ID:           r.ID,
			SubmittedAt:  r.SubmittedAt,
			SurveyID:     r.SurveyID,
			CohortID:     r.CohortID,
			ContactName:  r.ContactName,
			ContactEmail: r.ContactEmail,
			ContactPhone: r.ContactPhone,
			BusinessName: r.BusinessName,
			ItemCount:    counts[r.ID],
		})
	}
	return resp, nil
}

func (s *responseService) GetDetail(ctx context.Context, id string) (*ResponseDetail, error) {
	response, err := s.repo.Response().GetByIDWithItems(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResponseNotFound
		}
		return nil, NewPersistenceError("get response", err)
	}

	auditLog, err := s.repo.Response().ListAuditLog(ctx, nil, id)
	if err != nil {
		return nil, NewPersistenceError("list response audit log", err)
	}
	return &ResponseDetail{Response: response, AuditLog: auditLog}, nil
}

// ===== EXPORT =====

func (s *responseService) ExportCSV(ctx context.Context, req *ListResponsesRequest) (*ExportFile, error) {
	rows, err := s.exportRows(ctx, req)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	writer := csv.NewWriter(&buf)
	if err := writer.Write(ExportHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return &ExportFile{
		Filename:    "responses.csv",
		ContentType: "text/csv",
		Data:        []byte(buf.String()),
	}, nil
}

func (s *responseService) ExportXLSX(ctx context.Context, req *ListResponsesRequest) (*ExportFile, error) {
	rows, err := s.exportRows(ctx, req)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		s.logger.Logger().Debug("Default sheet not removed", zap.Error(err))
	}

	for i, header := range ExportHeader {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write Excel header: %w", err)
		}
	}
	for rowIndex, row := range rows {
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			if err := f.SetCellValue(exportSheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write Excel row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return &ExportFile{
		Filename:    "responses.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}

func (s *responseService) exportRows(ctx context.Context, req *ListResponsesRequest) ([][]string, error) {
	responses, items, err := s.query(ctx, req, defaultExportLimit)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Response, len(responses))
	for _, r := range responses {
		byID[r.ID] = r
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		response, ok := byID[item.ResponseID]
		if !ok {
			continue
		}
		rows = append(rows, ExportRow(response, item))
	}
	return rows, nil
}

// ExportRow flattens one answer with its response into export columns.
func ExportRow(response *models.Response, item *models.ResponseItem) []string {
	row := []string{
		response.ID,
		response.SubmittedAt.UTC().Format(time.RFC3339),
		response.SurveyID,
		response.CohortID,
		stringOrEmpty(response.ContactName),
		stringOrEmpty(response.ContactEmail),
		stringOrEmpty(response.ContactPhone),
		stringOrEmpty(response.BusinessName),
		"", "", "",
		strconv.Itoa(item.RepeatIndex),
		stringOrEmpty(item.ValueText),
		"",
		"",
	}
	if item.Question != nil {
		row[8] = item.Question.ID
		row[9] = item.Question.Label
		row[10] = string(item.Question.Type)
	} else {
		row[8] = item.QuestionID
	}
	if item.ValueNumber != nil {
		row[13] = strconv.FormatFloat(*item.ValueNumber, 'f', -1, 64)
	}
	if len(item.ValueJSON) > 0 {
		row[14] = string(item.ValueJSON)
	}
	return row
}

// ===== QUERY =====

// query applies the listing filters and the free-text search. Items are
// returned for the surviving responses only.
func (s *responseService) query(ctx context.Context, req *ListResponsesRequest, defaultLimit int) ([]*models.Response, []*models.ResponseItem, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, nil, err
	}

	filters, err := s.buildFilters(ctx, req, defaultLimit)
	if err != nil {
		return nil, nil, err
	}
	if filters == nil {
		return []*models.Response{}, []*models.ResponseItem{}, nil
	}

	responses, err := s.repo.Response().List(ctx, nil, *filters)
	if err != nil {
		return nil, nil, NewPersistenceError("list responses", err)
	}
	if len(responses) == 0 {
		return responses, []*models.ResponseItem{}, nil
	}

	ids := make([]string, 0, len(responses))
	for _, r := range responses {
		ids = append(ids, r.ID)
	}
	items, err := s.repo.Response().ListItems(ctx, nil, ids)
	if err != nil {
		return nil, nil, NewPersistenceError("list response items", err)
	}

	term := strings.TrimSpace(req.Search)
	if term == "" {
		return responses, items, nil
	}

	matched := FilterResponses(responses, items, term)
	keep := make(map[string]bool, len(matched))
	for _, r := range matched {
		keep[r.ID] = true
	}
	kept := make([]*models.ResponseItem, 0, len(items))
	for _, item := range items {
		if keep[item.ResponseID] {
			kept = append(kept, item)
		}
	}
	return matched, kept, nil
}

// buildFilters resolves the slug and study filters to survey and cohort IDs.
// A nil result means the filters cannot match anything.
func (s *responseService) buildFilters(ctx context.Context, req *ListResponsesRequest, defaultLimit int) (*repositories.ResponseFilters, error) {
	filters := &repositories.ResponseFilters{
		Status: req.Status,
		Limit:  req.Limit,
	}
	if filters.Limit <= 0 {
		filters.Limit = defaultLimit
	}

	surveyID := nonEmpty(req.SurveyID)
	cohortID := nonEmpty(req.CohortID)

	if slug := nonEmpty(req.Slug); slug != nil && (surveyID == nil || cohortID == nil) {
		link, err := s.repo.SurveyLink().GetBySlug(ctx, nil, *slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrLinkNotFound
			}
			return nil, NewPersistenceError("get survey link", err)
		}
		surveyID = &link.SurveyID
		cohortID = &link.CohortID
	}

	if surveyID != nil {
		filters.SurveyIDs = []string{*surveyID}
	} else if studyID := nonEmpty(req.StudyID); studyID != nil {
		ids, err := s.repo.Survey().ListIDsByStudy(ctx, nil, *studyID)
		if err != nil {
			return nil, NewPersistenceError("list study surveys", err)
		}
		if len(ids) == 0 {
			return nil, nil
		}
		filters.SurveyIDs = ids
	}
	filters.CohortID = cohortID

	var err error
	if filters.DateFrom, err = parseDateFilter("from", req.From); err != nil {
		return nil, err
	}
	if filters.DateTo, err = parseDateFilter("to", req.To); err != nil {
		return nil, err
	}
	return filters, nil
}

// FilterResponses keeps responses whose contact fields or answers contain
// term, ignoring case. Answers match on their text, number, JSON value and
// question label.
func FilterResponses(responses []*models.Response, items []*models.ResponseItem, term string) []*models.Response {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return responses
	}

	answerText := make(map[string]*strings.Builder)
	for _, item := range items {
		b, ok := answerText[item.ResponseID]
		if !ok {
			b = &strings.Builder{}
			answerText[item.ResponseID] = b
		}
		b.WriteString(" ")
		b.WriteString(stringOrEmpty(item.ValueText))
		if item.ValueNumber != nil {
			b.WriteString(" ")
			b.WriteString(strconv.FormatFloat(*item.ValueNumber, 'f', -1, 64))
		}
		if len(item.ValueJSON) > 0 {
			b.WriteString(" ")
			b.Write(item.ValueJSON)
		}
		if item.Question != nil {
			b.WriteString(" ")
			b.WriteString(item.Question.Label)
		}
	}

	matched := make([]*models.Response, 0, len(responses))
	for _, r := range responses {
		contact := strings.Join([]string{
			stringOrEmpty(r.ContactName),
			stringOrEmpty(r.ContactEmail),
			stringOrEmpty(r.ContactPhone),
			stringOrEmpty(r.BusinessName),
		}, " ")
		if strings.Contains(strings.ToLower(contact), term) {
			matched = append(matched, r)
			continue
		}
		if b, ok := answerText[r.ID]; ok && strings.Contains(strings.ToLower(b.String()), term) {
			matched = append(matched, r)
		}
	}
	return matched
}

var dateFilterLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func parseDateFilter(field string, value *string) (*time.Time, error) {
	raw := nonEmpty(value)
	if raw == nil {
		return nil, nil
	}
	for _, layout := range dateFilterLayouts {
		if t, err := time.Parse(layout, *raw); err == nil {
			return &t, nil
		}
	}
	return nil, NewValidationError(field, "must be an ISO-8601 date or timestamp", *raw)
}

func nonEmpty(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
