package model

import (
	"time"

	"github.com/EricSteeles/Curb-Alert/internal/domain/enums"
)

// Report is a moderation complaint against a single item. Reports are never
// deleted; review is a one-way pending -> reviewed transition.
type Report struct {
	ID          string             `json:"id"`
	ItemID      string             `json:"item_id"`
	Reason      enums.ReportReason `json:"reason"`
	Description string             `json:"description,omitempty"`
	ReporterID  string             `json:"reporter_id"`
	Status      enums.ReportStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	Resolution  string             `json:"resolution,omitempty"`
	ReviewedBy  string             `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time         `json:"reviewed_at,omitempty"`
}
