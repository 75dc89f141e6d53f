package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/repositories"
)

type exportService struct {
	admin  AdminService
	logger *slog.Logger
}

func NewExportService(admin AdminService, logger *slog.Logger) ExportService {
	return &exportService{
		admin:  admin,
		logger: logger,
	}
}

const exportSheet = "Complaints"

var exportHeaders = []string{
	"ID", "Title", "Category", "Status", "Submitter", "Submitter Email",
	"Description", "Admin Remarks", "Attachment", "Created At", "Updated At",
}

// ExportComplaints renders the filtered complaint list as an xlsx workbook.
// The rows come through the same listing path admins see on screen and then
// narrow through FilterComplaints, so the download always matches the view it
// was requested from.
func (s *exportService) ExportComplaints(ctx context.Context, status, category string) ([]byte, error) {
	list, err := s.admin.List(ctx, repositories.ComplaintFilters{})
	if err != nil {
		return nil, err
	}

	rows := FilterComplaints(list.Complaints, status, category)

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), exportSheet)

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, c := range rows {
		remarks := ""
		if c.AdminRemarks != nil {
			remarks = *c.AdminRemarks
		}
		attachment := ""
		if c.FileURL != nil {
			attachment = *c.FileURL
		}

		values := []interface{}{
			c.ID,
			c.Title,
			string(c.Category),
			string(c.Status),
			c.SubmitterName,
			c.SubmitterEmail,
			c.Description,
			remarks,
			attachment,
			c.CreatedAt.Format(time.RFC3339),
			c.UpdatedAt.Format(time.RFC3339),
		}

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("Complaint export rendered", "rows", len(rows))

	return buf.Bytes(), nil
}
