package dto

import (
	"time"

	"github.com/EricSteeles/Curb-Alert/internal/domain/model"
)

type ReportItemRequest struct {
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

type ReportResponse struct {
	ID          string     `json:"id"`
	ItemID      string     `json:"item_id"`
	Reason      string     `json:"reason"`
	Description string     `json:"description,omitempty"`
	ReporterID  string     `json:"reporter_id"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	Resolution  string     `json:"resolution,omitempty"`
	ReviewedBy  string     `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
}

type ReportsListResponse struct {
	Reports []ReportResponse `json:"reports"`
}

type ReviewReportRequest struct {
	Resolution string `json:"resolution"`
}

func ReportFromModel(report model.Report) ReportResponse {
	return ReportResponse{
		ID:          report.ID,
		ItemID:      report.ItemID,
		Reason:      string(report.Reason),
		Description: report.Description,
		ReporterID:  report.ReporterID,
		Status:      string(report.Status),
		CreatedAt:   report.CreatedAt,
		Resolution:  report.Resolution,
		ReviewedBy:  report.ReviewedBy,
		ReviewedAt:  report.ReviewedAt,
	}
}

func ReportsFromModels(reports []model.Report) []ReportResponse {
	out := make([]ReportResponse, 0, len(reports))
	for _, report := range reports {
		out = append(out, ReportFromModel(report))
	}
	return out
}
