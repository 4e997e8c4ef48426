package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EricSteeles/Curb-Alert/internal/domain/enums"
	"github.com/EricSteeles/Curb-Alert/internal/domain/model"
)

var (
	ErrReportNotFound        = errors.New("report not found")
	ErrReportAlreadyReviewed = errors.New("report already reviewed")
)

type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// Create inserts a pending report and flags the reported item in the same
// transaction.
func (r *ReportRepo) Create(ctx context.Context, tx pgx.Tx, report model.Report) (string, error) {
	if tx == nil {
		return "", fmt.Errorf("transaction is required")
	}

	id := uuid.NewString()

	if _, err := tx.Exec(ctx, `
INSERT INTO reports (
	id,
	item_id,
	reason,
	description,
	reporter_id,
	status,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)
`,
		id,
		report.ItemID,
		string(report.Reason),
		report.Description,
		report.ReporterID,
		string(enums.ReportStatusPending),
		report.CreatedAt,
	); err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}

	tag, err := tx.Exec(ctx, `
UPDATE items
SET flagged = TRUE, flagged_at = $2, updated_at = NOW()
WHERE id = $1
`, report.ItemID, report.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("flag reported item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return "", ErrItemNotFound
	}

	return id, nil
}

// FileReport runs Create inside its own transaction.
func (r *ReportRepo) FileReport(ctx context.Context, report model.Report) (string, error) {
	var id string
	err := WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		created, createErr := r.Create(ctx, tx, report)
		if createErr != nil {
			return createErr
		}
		id = created
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteItemResolvingReports removes an item and closes its pending reports
// atomically, so no report is left pointing at a deleted listing.
func (r *ReportRepo) DeleteItemResolvingReports(ctx context.Context, itemID, resolution, reviewer string, at time.Time) error {
	return WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		if err := r.ResolveOpenByItem(ctx, tx, itemID, resolution, reviewer, at); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM items WHERE id = $1`, itemID)
		if err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrItemNotFound
		}

		return nil
	})
}

func (r *ReportRepo) List(ctx context.Context) ([]model.Report, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, item_id, reason, description, reporter_id, status, created_at,
	COALESCE(resolution, ''), COALESCE(reviewed_by, ''), reviewed_at
FROM reports
ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	reports := make([]model.Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	return reports, nil
}

func (r *ReportRepo) GetByID(ctx context.Context, id string) (model.Report, error) {
	if r.pool == nil {
		return model.Report{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(id) == "" {
		return model.Report{}, ErrReportNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT id, item_id, reason, description, reporter_id, status, created_at,
	COALESCE(resolution, ''), COALESCE(reviewed_by, ''), reviewed_at
FROM reports
WHERE id = $1
`, id)

	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Report{}, ErrReportNotFound
		}
		return model.Report{}, fmt.Errorf("get report: %w", err)
	}

	return report, nil
}

// MarkReviewed closes a pending report. A report that is already reviewed
// keeps its first resolution and the call fails with ErrReportAlreadyReviewed.
func (r *ReportRepo) MarkReviewed(ctx context.Context, id, resolution, reviewer string, at time.Time) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE reports
SET status = $2, resolution = $3, reviewed_by = $4, reviewed_at = $5
WHERE id = $1 AND status = $6
`,
		id,
		string(enums.ReportStatusReviewed),
		resolution,
		reviewer,
		at,
		string(enums.ReportStatusPending),
	)
	if err != nil {
		return fmt.Errorf("mark report reviewed: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reports WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check report existence: %w", err)
	}
	if !exists {
		return ErrReportNotFound
	}

	return ErrReportAlreadyReviewed
}

// ResolveOpenByItem closes every pending report on an item inside a
// caller-owned transaction. Deleting a reported item rides on this.
func (r *ReportRepo) ResolveOpenByItem(ctx context.Context, tx pgx.Tx, itemID, resolution, reviewer string, at time.Time) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
UPDATE reports
SET status = $2, resolution = $3, reviewed_by = $4, reviewed_at = $5
WHERE item_id = $1 AND status = $6
`,
		itemID,
		string(enums.ReportStatusReviewed),
		resolution,
		reviewer,
		at,
		string(enums.ReportStatusPending),
	); err != nil {
		return fmt.Errorf("resolve open reports: %w", err)
	}

	return nil
}

func (r *ReportRepo) Count(ctx context.Context) (int, error) {
	return r.countWhere(ctx, `SELECT COUNT(*) FROM reports`)
}

func (r *ReportRepo) CountPending(ctx context.Context) (int, error) {
	return r.countWhere(ctx, `SELECT COUNT(*) FROM reports WHERE status = 'pending'`)
}

func (r *ReportRepo) countWhere(ctx context.Context, query string) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var count int
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}

	return count, nil
}

func scanReport(row pgx.Row) (model.Report, error) {
	var (
		report model.Report
		reason string
		status string
	)

	if err := row.Scan(
		&report.ID,
		&report.ItemID,
		&reason,
		&report.Description,
		&report.ReporterID,
		&status,
		&report.CreatedAt,
		&report.Resolution,
		&report.ReviewedBy,
		&report.ReviewedAt,
	); err != nil {
		return model.Report{}, err
	}

	report.Reason = enums.ReportReason(reason)
	report.Status = enums.ReportStatus(status)

	return report, nil
}
