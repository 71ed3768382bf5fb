package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"banjara-intake-backend/internal/domain"
	"banjara-intake-backend/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

type exportColumn struct {
	header string
	value  func(s domain.Submission) interface{}
}

type exportUsecase struct {
	review domain.ReviewUsecase
	now    func() time.Time
}

// NewExportUsecase exports the same rows ReviewUsecase.List returns.
func NewExportUsecase(review domain.ReviewUsecase) domain.ExportUsecase {
	return &exportUsecase{review: review, now: time.Now}
}

// Export renders the filtered listing and returns the file with its name.
func (u *exportUsecase) Export(ctx context.Context, req domain.ExportRequest) ([]byte, string, error) {
	if req.Format != "" && req.Format != "xlsx" && req.Format != "csv" {
		return nil, "", apperror.BadRequest(fmt.Sprintf("unsupported export format: %s", req.Format))
	}

	items, err := u.review.List(ctx, req.Kind, req.Filter)
	if err != nil {
		return nil, "", err
	}

	cat, _ := domain.CategoryFor(req.Kind)
	columns := exportColumns(req.Kind)
	base := fmt.Sprintf("%s_%s", cat.Slug, u.now().Format("20060102_150405"))

	if req.Format == "csv" {
		data, err := exportCSV(items, columns)
		return data, base + ".csv", err
	}
	data, err := exportExcel(cat.Label, items, columns)
	return data, base + ".xlsx", err
}

func exportExcel(sheetTitle string, items []domain.Submission, columns []exportColumn) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet names are capped at 31 characters and may not contain some symbols
	sheetName := "Submissions"
	if len(sheetTitle) <= 31 {
		sheetName = sheetTitle
	}
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		sheetName = "Sheet1"
	}

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col.header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#8A4B14"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(columns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, item := range items {
		for colIdx, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			value := col.value(item)
			if value == nil {
				value = ""
			}
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range columns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 22)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func exportCSV(items []domain.Submission, columns []exportColumn) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.header
	}
	_ = w.Write(header)

	for _, item := range items {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = csvCell(col.value(item))
		}
		_ = w.Write(row)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}
	return buf.Bytes(), nil
}

// csvCell neutralizes text that a spreadsheet would evaluate as a formula.
// Numbers and timestamps are written as-is.
func csvCell(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return cellString(v)
	}
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}

func exportColumns(kind domain.Kind) []exportColumn {
	common := []exportColumn{
		{"ID", func(s domain.Submission) interface{} { return s.ID() }},
	}
	tail := []exportColumn{
		{"Status", func(s domain.Submission) interface{} { return string(s.Status()) }},
		{"Submitted At", func(s domain.Submission) interface{} { return s.CreatedAt() }},
	}

	if kind == domain.KindJobSeeker {
		js := func(s domain.Submission) *domain.JobSeekerSubmission {
			if s.JobSeeker == nil {
				return &domain.JobSeekerSubmission{}
			}
			return s.JobSeeker
		}
		cols := append(common,
			exportColumn{"Full Name", func(s domain.Submission) interface{} { return js(s).FullName }},
			exportColumn{"Age", func(s domain.Submission) interface{} { return intOrNil(js(s).Age) }},
			exportColumn{"Location", func(s domain.Submission) interface{} { return s.Location() }},
			exportColumn{"Job Profile", func(s domain.Submission) interface{} { return js(s).JobProfile }},
			exportColumn{"Experience (Years)", func(s domain.Submission) interface{} { return intOrNil(js(s).ExperienceYears) }},
			exportColumn{"Phone", func(s domain.Submission) interface{} { return js(s).Phone }},
			exportColumn{"Last Salary", func(s domain.Submission) interface{} { return stringOrEmpty(js(s).LastSalary) }},
			exportColumn{"Expected Salary", func(s domain.Submission) interface{} { return stringOrEmpty(js(s).ExpectedSalary) }},
			exportColumn{"Photo", func(s domain.Submission) interface{} { return refURL(js(s).Photo) }},
			exportColumn{"Resume", func(s domain.Submission) interface{} { return js(s).Resume.URL }},
		)
		return append(cols, tail...)
	}

	biz := func(s domain.Submission) *domain.BusinessSubmission {
		if s.Business == nil {
			return &domain.BusinessSubmission{}
		}
		return s.Business
	}
	cols := append(common,
		exportColumn{"Hotel Name", func(s domain.Submission) interface{} { return biz(s).HotelName }},
		exportColumn{"Location", func(s domain.Submission) interface{} { return s.Location() }},
		exportColumn{"Owner Name", func(s domain.Submission) interface{} { return biz(s).OwnerName }},
		exportColumn{"Contact Number", func(s domain.Submission) interface{} { return biz(s).ContactNumber }},
		exportColumn{"Logo", func(s domain.Submission) interface{} { return refURL(biz(s).Logo) }},
		exportColumn{"Document", func(s domain.Submission) interface{} { return biz(s).Document.URL }},
	)
	return append(cols, tail...)
}

func intOrNil(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func stringOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func refURL(r *domain.AttachmentRef) string {
	if r == nil {
		return ""
	}
	return r.URL
}
