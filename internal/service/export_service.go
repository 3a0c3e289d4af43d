package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/meal-reservation-api/internal/aggregate"
	"github.com/noah-isme/meal-reservation-api/internal/models"
	appErrors "github.com/noah-isme/meal-reservation-api/pkg/errors"
	"github.com/noah-isme/meal-reservation-api/pkg/export"
)

const exportTimeLayout = "2006-01-02 15:04:05"

type reportSource interface {
	Period(ctx context.Context, start, end string) ([]models.DailyTotal, error)
	DeptSummary(ctx context.Context, start, end string) ([]aggregate.SummaryRow, error)
	Records(ctx context.Context, start, end string) ([]aggregate.MealRecordRow, error)
	Pivot(ctx context.Context, start, end string) (aggregate.Pivot, error)
}

type logSource interface {
	MealLogs(ctx context.Context, filter models.LogFilter) ([]models.MealChangeLogView, error)
	VisitorLogs(ctx context.Context, filter models.LogFilter) ([]models.VisitorChangeLogView, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	// Location renders log timestamps in the organisation's timezone.
	Location *time.Location
}

// ExportDocument is a rendered report ready to stream.
type ExportDocument struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService turns report structures into xlsx, csv or pdf documents.
type ExportService struct {
	stats     reportSource
	logs      logSource
	renderers map[export.Format]export.Renderer
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService. Missing renderers fall back
// to the stock exporters.
func NewExportService(stats reportSource, logs logSource, renderers map[export.Format]export.Renderer, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	all := map[export.Format]export.Renderer{
		export.FormatXLSX: export.NewXLSXExporter(),
		export.FormatCSV:  export.NewCSVExporter(),
		export.FormatPDF:  export.NewPDFExporter(""),
	}
	for format, r := range renderers {
		if r != nil {
			all[format] = r
		}
	}
	return &ExportService{stats: stats, logs: logs, renderers: all, logger: logger, cfg: cfg}
}

// PeriodReport renders daily totals grouped by ISO week with a closing
// period total.
func (s *ExportService) PeriodReport(ctx context.Context, start, end, format string) (*ExportDocument, error) {
	totals, err := s.stats.Period(ctx, start, end)
	if err != nil {
		return nil, err
	}
	blocks, sum, err := aggregate.GroupByISOWeek(totals)
	if err != nil {
		return nil, internalError(err, "failed to group daily totals")
	}

	headers := []string{"날짜", "요일", "조식", "중식", "석식"}
	ds := export.Dataset{
		Title:     fmt.Sprintf("기간별 식수통계 %s ~ %s", start, end),
		SheetName: "기간별 식수통계",
		Headers:   headers,
		Numeric:   numeric("조식", "중식", "석식"),
	}
	for _, block := range blocks {
		for _, day := range block.Days {
			ds.Rows = append(ds.Rows, slotRow(map[string]string{"날짜": day.Date, "요일": day.Day}, day.MealValues))
		}
		ds.GroupEnds = append(ds.GroupEnds, len(ds.Rows)-1)
	}
	ds.Emphasis = []int{len(ds.Rows)}
	ds.Rows = append(ds.Rows, slotRow(map[string]string{"날짜": "기간별 총계", "요일": ""}, sum))
	return s.render(ds, format, "meal_stats_period", start, end)
}

// DeptSummaryReport renders the department/type summary.
func (s *ExportService) DeptSummaryReport(ctx context.Context, start, end, format string) (*ExportDocument, error) {
	rows, err := s.stats.DeptSummary(ctx, start, end)
	if err != nil {
		return nil, err
	}
	ds := export.Dataset{
		Title:     fmt.Sprintf("부서별 신청현황 %s ~ %s", start, end),
		SheetName: "부서별 신청현황",
		Headers:   []string{"부서", "구분", "합계", "조식", "중식", "석식"},
		Numeric:   numeric("합계", "조식", "중식", "석식"),
	}
	for i, row := range rows {
		label := ""
		if row.Type != "" {
			label = row.Type.Label()
		}
		ds.Rows = append(ds.Rows, slotRow(map[string]string{
			"부서": row.Dept,
			"구분": label,
			"합계": strconv.Itoa(row.Total),
		}, row.MealValues))
		if row.Kind != aggregate.RowGroup {
			ds.Emphasis = append(ds.Emphasis, i)
			ds.GroupEnds = append(ds.GroupEnds, i)
		}
	}
	return s.render(ds, format, "dept_stats", start, end)
}

// WeeklyRecordsReport renders one row per booked slot.
func (s *ExportService) WeeklyRecordsReport(ctx context.Context, start, end, format string) (*ExportDocument, error) {
	records, err := s.stats.Records(ctx, start, end)
	if err != nil {
		return nil, err
	}
	ds := export.Dataset{
		Title:     fmt.Sprintf("신청자별 식사기록 %s ~ %s", start, end),
		SheetName: "신청자별 식사기록",
		Headers:   []string{"구분", "식사일자", "이름", "부서", "식사구분"},
	}
	for _, r := range records {
		ds.Rows = append(ds.Rows, map[string]string{
			"구분":   r.Type.Label(),
			"식사일자": r.Date,
			"이름":   r.Name,
			"부서":   r.Dept,
			"식사구분": r.Slot.Label(),
		})
	}
	return s.render(ds, format, "weekly_meal_records", start, end)
}

// PivotReport renders the roster grid with one column per date and slot.
func (s *ExportService) PivotReport(ctx context.Context, start, end, format string) (*ExportDocument, error) {
	pivot, err := s.stats.Pivot(ctx, start, end)
	if err != nil {
		return nil, err
	}
	headers := []string{"부서", "구분", "인원"}
	num := numeric("인원", "합계")
	columnHeaders := make([]string, len(pivot.Columns))
	for i, col := range pivot.Columns {
		day, err := aggregate.WeekdayOf(col.Date)
		if err != nil {
			return nil, internalError(err, "failed to label pivot column")
		}
		columnHeaders[i] = fmt.Sprintf("%s(%s) %s", col.Date[5:], day, col.Slot.Label())
		num[columnHeaders[i]] = true
	}
	headers = append(headers, columnHeaders...)
	headers = append(headers, "합계")

	ds := export.Dataset{
		Title:     fmt.Sprintf("주간 부서별 식수 %s ~ %s", start, end),
		SheetName: "주간 부서별 식수",
		Headers:   headers,
		Numeric:   num,
	}
	for i, row := range pivot.Rows {
		label := ""
		if row.Type != "" {
			label = row.Type.Label()
		}
		out := map[string]string{
			"부서": row.Label,
			"구분": label,
			"인원": strconv.Itoa(row.Headcount),
			"합계": strconv.Itoa(row.Total),
		}
		for c, h := range columnHeaders {
			out[h] = strconv.Itoa(row.Cells[c])
		}
		ds.Rows = append(ds.Rows, out)
		if row.Kind != aggregate.RowGroup {
			ds.Emphasis = append(ds.Emphasis, i)
			ds.GroupEnds = append(ds.GroupEnds, i)
		}
	}
	return s.render(ds, format, "weekly_pivot", start, end)
}

// MealLogReport renders the employee change log.
func (s *ExportService) MealLogReport(ctx context.Context, filter models.LogFilter, format string) (*ExportDocument, error) {
	logs, err := s.logs.MealLogs(ctx, filter)
	if err != nil {
		return nil, err
	}
	ds := export.Dataset{
		Title:     "식수 변경 로그",
		SheetName: "식수 변경 로그",
		Headers:   []string{"식수일", "식사유형", "부서", "이름", "변경전", "변경후", "변경시간"},
	}
	for _, l := range logs {
		ds.Rows = append(ds.Rows, map[string]string{
			"식수일":  labelDate(l.Date),
			"식사유형": l.MealType.Label(),
			"부서":   l.Dept,
			"이름":   l.Name,
			"변경전":  applyStatus(l.BeforeStatus),
			"변경후":  applyStatus(l.AfterStatus),
			"변경시간": l.ChangedAt.In(s.cfg.Location).Format(exportTimeLayout),
		})
	}
	return s.render(ds, format, "meal_log_export", filter.Start, filter.End)
}

// VisitorLogReport renders the visitor change log. An empty result is
// reported as not found.
func (s *ExportService) VisitorLogReport(ctx context.Context, filter models.LogFilter, format string) (*ExportDocument, error) {
	if filter.Start == "" || filter.End == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start and end are required")
	}
	logs, err := s.logs.VisitorLogs(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no visitor log entries to export")
	}
	ds := export.Dataset{
		Title:     "방문자 식수 로그",
		SheetName: "방문자 식수 로그",
		Headers:   []string{"식수일", "부서", "이름", "구분", "변경전", "변경후", "변경시각"},
	}
	for _, l := range logs {
		ds.Rows = append(ds.Rows, map[string]string{
			"식수일":  labelDate(l.Date),
			"부서":   l.Dept,
			"이름":   l.ApplicantName,
			"구분":   l.Type.Label(),
			"변경전":  fmt.Sprintf("조식(%d), 중식(%d), 석식(%d)", l.BeforeBreakfast, l.BeforeLunch, l.BeforeDinner),
			"변경후":  fmt.Sprintf("조식(%s), 중식(%s), 석식(%s)", l.Breakfast, l.Lunch, l.Dinner),
			"변경시각": l.UpdatedAt.In(s.cfg.Location).Format(exportTimeLayout),
		})
	}
	return s.render(ds, format, "visitor_logs", filter.Start, filter.End)
}

func (s *ExportService) render(ds export.Dataset, rawFormat, name, start, end string) (*ExportDocument, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, invalid(err, err.Error())
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("format %s is not available", format))
	}
	content, err := renderer.Render(ds)
	if err != nil {
		s.logger.Error("failed to render export", zap.String("report", name), zap.String("format", string(format)), zap.Error(err))
		return nil, internalError(err, "failed to render export")
	}
	return &ExportDocument{
		Filename:    buildFilename(name, start, end, format),
		ContentType: format.ContentType(),
		Content:     content,
	}, nil
}

func buildFilename(name, start, end string, format export.Format) string {
	parts := []string{name}
	if start != "" || end != "" {
		parts = append(parts, sanitizeFilename(start), "to", sanitizeFilename(end))
	}
	return strings.Join(parts, "_") + "." + format.Extension()
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func slotRow(row map[string]string, v models.MealValues) map[string]string {
	for _, slot := range models.MealSlots {
		row[slot.Label()] = strconv.Itoa(v.Get(slot))
	}
	return row
}

func numeric(headers ...string) map[string]bool {
	set := make(map[string]bool, len(headers))
	for _, h := range headers {
		set[h] = true
	}
	return set
}

// labelDate renders "2025-03-05 (수)"; unparsable dates pass through.
func labelDate(date string) string {
	day, err := aggregate.WeekdayOf(date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s (%s)", date, day)
}

func applyStatus(v int) string {
	if v > 0 {
		return "신청"
	}
	return "미신청"
}
