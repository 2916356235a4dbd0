package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"wapprove/internal/model"
	"wapprove/pkg/pagination"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// --- Interface ---

// ReportService produces spreadsheet exports of purchase requests. Exports
// honor the same visibility rules as the request list.
type ReportService interface {
	ExportRequests(ctx context.Context, dto QueryRequestDTO, actorID uuid.UUID) ([]byte, string, error)
}

type reportService struct {
	requestSvc RequestService
}

func NewReportService(requestSvc RequestService) ReportService {
	return &reportService{requestSvc: requestSvc}
}

// --- Implementation ---

var exportColumns = []string{
	"Request Code",
	"Requester",
	"Department",
	"Description",
	"Total Amount",
	"Status",
	"Approval Level",
	"Urgency",
	"Request Date",
	"Created At",
}

// maxExportRows bounds a single spreadsheet export.
const maxExportRows = 10000

func (s *reportService) ExportRequests(ctx context.Context, dto QueryRequestDTO, actorID uuid.UUID) ([]byte, string, error) {
	// The list endpoint caps its page size, so pull everything matching
	// the filter in capped batches up to the export bound.
	dto.Page = 1
	dto.Limit = pagination.MaxLimit
	var requests []model.Request
	for {
		batch, total, err := s.requestSvc.List(ctx, dto, actorID)
		if err != nil {
			return nil, "", err
		}
		requests = append(requests, batch...)
		if len(batch) == 0 || int64(len(requests)) >= total || len(requests) >= maxExportRows {
			break
		}
		dto.Page++
	}
	if len(requests) > maxExportRows {
		requests = requests[:maxExportRows]
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Requests"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, request := range requests {
		values := exportRow(request)
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range exportColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write spreadsheet: %w", err)
	}

	filename := fmt.Sprintf("requests_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func exportRow(request model.Request) []interface{} {
	requesterName := ""
	if request.User != nil {
		requesterName = request.User.Name
	}
	departmentName := ""
	if request.Department != nil {
		departmentName = request.Department.Name
	}

	return []interface{}{
		request.RequestCode,
		requesterName,
		departmentName,
		request.Description,
		request.TotalAmount.StringFixed(2),
		request.Status,
		request.CurrentApprovalLevel,
		request.UrgencyLevel,
		request.RequestDate.Format("2006-01-02"),
		request.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
