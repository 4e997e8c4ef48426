package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/EricSteeles/Curb-Alert/internal/domain/enums"
	"github.com/EricSteeles/Curb-Alert/internal/domain/model"
	pgrepo "github.com/EricSteeles/Curb-Alert/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyReviewed = errors.New("report already reviewed")
	ErrRateLimited     = errors.New("report rate limit exceeded")
)

var currencySymbols = []string{"$", "€", "£", "¥"}

type ItemStore interface {
	GetByID(ctx context.Context, id string) (model.Item, error)
	SetFlag(ctx context.Context, id string, flagged bool, at time.Time) error
	ListFlagged(ctx context.Context) ([]model.Item, error)
	Count(ctx context.Context) (int, error)
	CountFlagged(ctx context.Context) (int, error)
}

type ReportStore interface {
	FileReport(ctx context.Context, report model.Report) (string, error)
	List(ctx context.Context) ([]model.Report, error)
	GetByID(ctx context.Context, id string) (model.Report, error)
	MarkReviewed(ctx context.Context, id, resolution, reviewer string, at time.Time) error
	DeleteItemResolvingReports(ctx context.Context, itemID, resolution, reviewer string, at time.Time) error
	Count(ctx context.Context) (int, error)
	CountPending(ctx context.Context) (int, error)
}

type ReportLimiter interface {
	AllowReport(ctx context.Context, reporterID string) (int64, bool, error)
}

type Service struct {
	items          ItemStore
	reports        ReportStore
	limiter        ReportLimiter
	denylist       []string
	minTitleLength int
	now            func() time.Time
}

type Stats struct {
	TotalItems     int `json:"total_items"`
	FlaggedItems   int `json:"flagged_items"`
	TotalReports   int `json:"total_reports"`
	PendingReports int `json:"pending_reports"`
}

func NewService(items ItemStore, reports ReportStore, limiter ReportLimiter, denylist []string, minTitleLength int) *Service {
	if minTitleLength <= 0 {
		minTitleLength = 3
	}

	normalized := make([]string, 0, len(denylist))
	for _, term := range denylist {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			normalized = append(normalized, term)
		}
	}

	return &Service{
		items:          items,
		reports:        reports,
		limiter:        limiter,
		denylist:       normalized,
		minTitleLength: minTitleLength,
		now:            time.Now,
	}
}

// AutoModerate screens a draft before it goes live and returns the reasons it
// should be flagged, if any. Matching is plain substring, so a denylist term
// inside a longer word still trips it.
func (s *Service) AutoModerate(draft model.ItemDraft) []string {
	reasons := make([]string, 0)

	if len(strings.TrimSpace(draft.Title)) < s.minTitleLength {
		reasons = append(reasons, "title too short")
	}

	title := strings.ToLower(draft.Title)
	description := strings.ToLower(draft.Description)
	tags := strings.ToLower(strings.Join(draft.Tags, " "))
	for _, term := range s.denylist {
		if strings.Contains(title, term) {
			reasons = append(reasons, "title contains blocked term: "+term)
		}
		if strings.Contains(description, term) {
			reasons = append(reasons, "description contains blocked term: "+term)
		}
		if strings.Contains(tags, term) {
			reasons = append(reasons, "tags contain blocked term: "+term)
		}
	}

	for _, symbol := range currencySymbols {
		if strings.Contains(draft.Contact, symbol) {
			reasons = append(reasons, "price solicitation in contact info")
			break
		}
	}

	return reasons
}

// ReportItem files a complaint against an item and flags it for review. A
// reporter gets a bounded number of reports per day.
func (s *Service) ReportItem(ctx context.Context, itemID, reporterID, reason, description string) (model.Report, error) {
	if s.items == nil || s.reports == nil || s.limiter == nil {
		return model.Report{}, fmt.Errorf("moderation service dependencies are not configured")
	}

	itemID = strings.TrimSpace(itemID)
	reporterID = strings.TrimSpace(reporterID)
	description = strings.TrimSpace(description)
	if itemID == "" || reporterID == "" {
		return model.Report{}, fmt.Errorf("%w: item id and reporter id are required", ErrValidation)
	}

	parsedReason, ok := enums.ParseReportReason(reason)
	if !ok {
		return model.Report{}, fmt.Errorf("%w: unknown report reason %q", ErrValidation, reason)
	}
	if parsedReason == enums.ReportReasonOther && description == "" {
		return model.Report{}, fmt.Errorf("%w: description is required for reason other", ErrValidation)
	}

	retryAfter, allowed, err := s.limiter.AllowReport(ctx, reporterID)
	if err != nil {
		return model.Report{}, err
	}
	if !allowed {
		return model.Report{}, fmt.Errorf("%w: retry in %ds", ErrRateLimited, retryAfter)
	}

	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		if errors.Is(err, pgrepo.ErrItemNotFound) {
			return model.Report{}, fmt.Errorf("%w: item %s", ErrNotFound, itemID)
		}
		return model.Report{}, err
	}

	report := model.Report{
		ItemID:      itemID,
		Reason:      parsedReason,
		Description: description,
		ReporterID:  reporterID,
		Status:      enums.ReportStatusPending,
		CreatedAt:   s.now().UTC(),
	}

	id, err := s.reports.FileReport(ctx, report)
	if err != nil {
		if errors.Is(err, pgrepo.ErrItemNotFound) {
			return model.Report{}, fmt.Errorf("%w: item %s", ErrNotFound, itemID)
		}
		return model.Report{}, err
	}
	report.ID = id

	return report, nil
}

func (s *Service) ListReports(ctx context.Context) ([]model.Report, error) {
	if s.reports == nil {
		return nil, fmt.Errorf("moderation service dependencies are not configured")
	}
	return s.reports.List(ctx)
}

// ReviewReport closes a pending report with a resolution note. Review is
// terminal: a second review fails and the first resolution stands.
func (s *Service) ReviewReport(ctx context.Context, reportID, resolution, reviewer string) (model.Report, error) {
	if s.reports == nil {
		return model.Report{}, fmt.Errorf("moderation service dependencies are not configured")
	}

	reportID = strings.TrimSpace(reportID)
	resolution = strings.TrimSpace(resolution)
	reviewer = strings.TrimSpace(reviewer)
	if reportID == "" || resolution == "" || reviewer == "" {
		return model.Report{}, fmt.Errorf("%w: report id, resolution and reviewer are required", ErrValidation)
	}

	if err := s.reports.MarkReviewed(ctx, reportID, resolution, reviewer, s.now().UTC()); err != nil {
		switch {
		case errors.Is(err, pgrepo.ErrReportNotFound):
			return model.Report{}, fmt.Errorf("%w: report %s", ErrNotFound, reportID)
		case errors.Is(err, pgrepo.ErrReportAlreadyReviewed):
			return model.Report{}, fmt.Errorf("%w: report %s", ErrAlreadyReviewed, reportID)
		default:
			return model.Report{}, err
		}
	}

	return s.reports.GetByID(ctx, reportID)
}

// SetItemFlag flips the moderation flag on an item without touching its
// reports.
func (s *Service) SetItemFlag(ctx context.Context, itemID string, flagged bool) error {
	if s.items == nil {
		return fmt.Errorf("moderation service dependencies are not configured")
	}
	if strings.TrimSpace(itemID) == "" {
		return fmt.Errorf("%w: item id is required", ErrValidation)
	}

	if err := s.items.SetFlag(ctx, itemID, flagged, s.now().UTC()); err != nil {
		if errors.Is(err, pgrepo.ErrItemNotFound) {
			return fmt.Errorf("%w: item %s", ErrNotFound, itemID)
		}
		return err
	}

	return nil
}

// DeleteReportedItem removes an item and resolves its pending reports in one
// step. When reportID names the report that prompted the removal, that report
// is reviewed with a resolution crediting the reviewer; an already-reviewed
// report keeps its first resolution and the deletion proceeds.
func (s *Service) DeleteReportedItem(ctx context.Context, itemID, reportID, reviewer string) error {
	if s.reports == nil {
		return fmt.Errorf("moderation service dependencies are not configured")
	}

	itemID = strings.TrimSpace(itemID)
	reportID = strings.TrimSpace(reportID)
	reviewer = strings.TrimSpace(reviewer)
	if itemID == "" || reviewer == "" {
		return fmt.Errorf("%w: item id and reviewer are required", ErrValidation)
	}

	now := s.now().UTC()

	if reportID != "" {
		err := s.reports.MarkReviewed(ctx, reportID, "item removed by "+reviewer, reviewer, now)
		switch {
		case err == nil, errors.Is(err, pgrepo.ErrReportAlreadyReviewed):
		case errors.Is(err, pgrepo.ErrReportNotFound):
			return fmt.Errorf("%w: report %s", ErrNotFound, reportID)
		default:
			return err
		}
	}

	if err := s.reports.DeleteItemResolvingReports(ctx, itemID, "item removed", reviewer, now); err != nil {
		if errors.Is(err, pgrepo.ErrItemNotFound) {
			return fmt.Errorf("%w: item %s", ErrNotFound, itemID)
		}
		return err
	}

	return nil
}

func (s *Service) FlaggedItems(ctx context.Context) ([]model.Item, error) {
	if s.items == nil {
		return nil, fmt.Errorf("moderation service dependencies are not configured")
	}
	return s.items.ListFlagged(ctx)
}

func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	if s.items == nil || s.reports == nil {
		return Stats{}, fmt.Errorf("moderation service dependencies are not configured")
	}

	totalItems, err := s.items.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	flaggedItems, err := s.items.CountFlagged(ctx)
	if err != nil {
		return Stats{}, err
	}
	totalReports, err := s.reports.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	pendingReports, err := s.reports.CountPending(ctx)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		TotalItems:     totalItems,
		FlaggedItems:   flaggedItems,
		TotalReports:   totalReports,
		PendingReports: pendingReports,
	}, nil
}
