package items

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/EricSteeles/Curb-Alert/internal/domain/enums"
	"github.com/EricSteeles/Curb-Alert/internal/domain/model"
	"github.com/EricSteeles/Curb-Alert/internal/pkg/validate"
	pgrepo "github.com/EricSteeles/Curb-Alert/internal/repo/postgres"
	"github.com/EricSteeles/Curb-Alert/internal/services/search"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("item not found")
	ErrForbidden  = errors.New("not the item owner")
)

type ItemStore interface {
	Create(ctx context.Context, item model.Item) (string, error)
	List(ctx context.Context) ([]model.Item, error)
	GetByID(ctx context.Context, id string) (model.Item, error)
	Update(ctx context.Context, id string, update pgrepo.ItemUpdate) error
	SetStatus(ctx context.Context, id string, status enums.ItemStatus) error
}

type ItemDeleter interface {
	DeleteItemResolvingReports(ctx context.Context, itemID, resolution, reviewer string, at time.Time) error
}

// Screener pre-checks a draft and returns flag reasons.
type Screener interface {
	AutoModerate(draft model.ItemDraft) []string
}

type Service struct {
	store    ItemStore
	deleter  ItemDeleter
	screener Screener
	searcher *search.Service
	now      func() time.Time
}

// UpdateInput carries the fields an owner may edit; nil leaves a field alone.
type UpdateInput struct {
	Title          *string
	Description    *string
	Category       *string
	CustomCategory *string
	Tags           []string
	Condition      *string
	Location       *string
	Coordinates    *model.Coordinates
	Contact        *string
	Photos         []string
}

func NewService(store ItemStore, deleter ItemDeleter, screener Screener, searcher *search.Service) *Service {
	return &Service{
		store:    store,
		deleter:  deleter,
		screener: screener,
		searcher: searcher,
		now:      time.Now,
	}
}

// List returns the feed filtered by criteria and ordered for display:
// available listings first, newest postings on top within each group. A
// center with a positive radius narrows the feed to items posted nearby.
func (s *Service) List(ctx context.Context, criteria search.Criteria, center *model.Coordinates, radiusMiles float64) ([]model.Item, error) {
	if s.store == nil || s.searcher == nil {
		return nil, fmt.Errorf("items service dependencies are not configured")
	}

	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := s.searcher.Filter(all, criteria)
	if center != nil && radiusMiles > 0 {
		filtered = s.searcher.FilterByRadius(filtered, *center, radiusMiles)
	}

	return s.searcher.SortForDisplay(filtered), nil
}

// Partition groups an already-fetched feed by status for shelf rendering.
func (s *Service) Partition(items []model.Item) search.Partition {
	if s.searcher == nil {
		return search.Partition{}
	}
	return s.searcher.PartitionByStatus(items)
}

func (s *Service) Get(ctx context.Context, id string) (model.Item, error) {
	if s.store == nil {
		return model.Item{}, fmt.Errorf("items service dependencies are not configured")
	}

	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgrepo.ErrItemNotFound) {
			return model.Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return model.Item{}, err
	}

	return item, nil
}

// Create validates and normalizes a draft, screens it, and persists the
// listing. A draft that trips the screen is still published but arrives
// flagged; the reasons are returned for the caller to surface or log.
func (s *Service) Create(ctx context.Context, draft model.ItemDraft) (model.Item, []string, error) {
	if s.store == nil || s.screener == nil {
		return model.Item{}, nil, fmt.Errorf("items service dependencies are not configured")
	}

	normalized, err := s.normalizeDraft(draft)
	if err != nil {
		return model.Item{}, nil, err
	}

	reasons := s.screener.AutoModerate(normalized)
	now := s.now().UTC()

	item := model.Item{
		OwnerID:        normalized.OwnerID,
		Title:          normalized.Title,
		Description:    normalized.Description,
		Category:       normalized.Category,
		CustomCategory: normalized.CustomCategory,
		Tags:           normalized.Tags,
		Condition:      normalized.Condition,
		Location:       normalized.Location,
		Coordinates:    normalized.Coordinates,
		Contact:        normalized.Contact,
		Photos:         normalized.Photos,
		Status:         enums.ItemStatusAvailable,
		Posted:         now,
	}
	if len(reasons) > 0 {
		item.Flagged = true
		item.FlaggedAt = &now
	}

	id, err := s.store.Create(ctx, item)
	if err != nil {
		return model.Item{}, nil, err
	}
	item.ID = id

	return item, reasons, nil
}

// Update applies an owner edit. Only the listed fields change; moderation
// state and status are managed elsewhere.
func (s *Service) Update(ctx context.Context, id, ownerID string, input UpdateInput) (model.Item, error) {
	if s.store == nil {
		return model.Item{}, fmt.Errorf("items service dependencies are not configured")
	}

	item, err := s.ownedItem(ctx, id, ownerID)
	if err != nil {
		return model.Item{}, err
	}

	update, err := s.buildUpdate(item, input)
	if err != nil {
		return model.Item{}, err
	}

	if err := s.store.Update(ctx, id, update); err != nil {
		if errors.Is(err, pgrepo.ErrItemNotFound) {
			return model.Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return model.Item{}, err
	}

	return s.Get(ctx, id)
}

func (s *Service) SetStatus(ctx context.Context, id, ownerID, status string) (model.Item, error) {
	if s.store == nil {
		return model.Item{}, fmt.Errorf("items service dependencies are not configured")
	}

	parsed, ok := enums.ParseItemStatus(status)
	if !ok {
		return model.Item{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	// Expiry belongs to the cleanup job; owners only move between
	// available and claimed.
	if parsed == enums.ItemStatusExpired {
		return model.Item{}, fmt.Errorf("%w: status %q cannot be set directly", ErrValidation, status)
	}

	item, err := s.ownedItem(ctx, id, ownerID)
	if err != nil {
		return model.Item{}, err
	}
	if item.Status == enums.ItemStatusExpired {
		return model.Item{}, fmt.Errorf("%w: expired items cannot change status", ErrValidation)
	}

	if err := s.store.SetStatus(ctx, id, parsed); err != nil {
		if errors.Is(err, pgrepo.ErrItemNotFound) {
			return model.Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return model.Item{}, err
	}

	return s.Get(ctx, id)
}

// Delete removes an owner's listing. Any pending reports on it are resolved
// in the same transaction so the moderation queue never references a missing
// item.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	if s.store == nil || s.deleter == nil {
		return fmt.Errorf("items service dependencies are not configured")
	}

	if _, err := s.ownedItem(ctx, id, ownerID); err != nil {
		return err
	}

	if err := s.deleter.DeleteItemResolvingReports(ctx, id, "item deleted by owner", ownerID, s.now().UTC()); err != nil {
		if errors.Is(err, pgrepo.ErrItemNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return err
	}

	return nil
}

func (s *Service) ownedItem(ctx context.Context, id, ownerID string) (model.Item, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return model.Item{}, fmt.Errorf("%w: owner id is required", ErrValidation)
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return model.Item{}, err
	}
	if item.OwnerID != ownerID {
		return model.Item{}, fmt.Errorf("%w: item %s", ErrForbidden, id)
	}

	return item, nil
}

func (s *Service) normalizeDraft(draft model.ItemDraft) (model.ItemDraft, error) {
	draft.OwnerID = strings.TrimSpace(draft.OwnerID)
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.CustomCategory = strings.TrimSpace(draft.CustomCategory)
	draft.Location = strings.TrimSpace(draft.Location)
	draft.Contact = strings.TrimSpace(draft.Contact)

	if !validate.Required(draft.OwnerID) {
		return model.ItemDraft{}, fmt.Errorf("%w: owner id is required", ErrValidation)
	}
	if !validate.Required(draft.Title) {
		return model.ItemDraft{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !validate.Required(draft.Location) {
		return model.ItemDraft{}, fmt.Errorf("%w: location is required", ErrValidation)
	}

	category, ok := enums.ParseCategory(string(draft.Category))
	if !ok {
		return model.ItemDraft{}, fmt.Errorf("%w: unknown category %q", ErrValidation, draft.Category)
	}
	draft.Category = category
	if category == enums.CategoryOther && draft.CustomCategory == "" {
		return model.ItemDraft{}, fmt.Errorf("%w: custom category is required for category other", ErrValidation)
	}
	if category != enums.CategoryOther {
		draft.CustomCategory = ""
	}

	condition, ok := enums.ParseCondition(string(draft.Condition))
	if !ok {
		return model.ItemDraft{}, fmt.Errorf("%w: unknown condition %q", ErrValidation, draft.Condition)
	}
	draft.Condition = condition

	draft.Tags = normalizeTags(draft.Tags)

	if len(draft.Photos) > model.MaxPhotos {
		return model.ItemDraft{}, fmt.Errorf("%w: at most %d photos are allowed", ErrValidation, model.MaxPhotos)
	}

	return draft, nil
}

func (s *Service) buildUpdate(current model.Item, input UpdateInput) (pgrepo.ItemUpdate, error) {
	update := pgrepo.ItemUpdate{
		Description: trimPtr(input.Description),
		Location:    trimPtr(input.Location),
		Contact:     trimPtr(input.Contact),
		Coordinates: input.Coordinates,
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return pgrepo.ItemUpdate{}, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		update.Title = &title
	}

	category := current.Category
	if input.Category != nil {
		parsed, ok := enums.ParseCategory(*input.Category)
		if !ok {
			return pgrepo.ItemUpdate{}, fmt.Errorf("%w: unknown category %q", ErrValidation, *input.Category)
		}
		category = parsed
		update.Category = &parsed
	}

	custom := current.CustomCategory
	if input.CustomCategory != nil {
		custom = strings.TrimSpace(*input.CustomCategory)
	}
	if category == enums.CategoryOther && custom == "" {
		return pgrepo.ItemUpdate{}, fmt.Errorf("%w: custom category is required for category other", ErrValidation)
	}
	if category != enums.CategoryOther {
		custom = ""
	}
	if input.CustomCategory != nil || (input.Category != nil && custom != current.CustomCategory) {
		update.CustomCategory = &custom
	}

	if input.Condition != nil {
		parsed, ok := enums.ParseCondition(*input.Condition)
		if !ok {
			return pgrepo.ItemUpdate{}, fmt.Errorf("%w: unknown condition %q", ErrValidation, *input.Condition)
		}
		update.Condition = &parsed
	}

	if input.Tags != nil {
		update.Tags = normalizeTags(input.Tags)
	}

	if input.Photos != nil {
		if len(input.Photos) > model.MaxPhotos {
			return pgrepo.ItemUpdate{}, fmt.Errorf("%w: at most %d photos are allowed", ErrValidation, model.MaxPhotos)
		}
		update.Photos = input.Photos
	}

	return update, nil
}

// normalizeTags lowercases, drops empties and duplicates, and caps the list.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
		if len(out) == model.MaxTags {
			break
		}
	}
	return out
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
