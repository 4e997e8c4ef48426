package items

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/EricSteeles/Curb-Alert/internal/domain/enums"
	"github.com/EricSteeles/Curb-Alert/internal/domain/model"
	pgrepo "github.com/EricSteeles/Curb-Alert/internal/repo/postgres"
	"github.com/EricSteeles/Curb-Alert/internal/services/search"
)

type fakeItemStore struct {
	items  map[string]*model.Item
	nextID int
}

func newFakeItemStore(items ...model.Item) *fakeItemStore {
	store := &fakeItemStore{items: make(map[string]*model.Item)}
	for i := range items {
		item := items[i]
		store.items[item.ID] = &item
	}
	return store
}

func (f *fakeItemStore) Create(_ context.Context, item model.Item) (string, error) {
	f.nextID++
	item.ID = fmt.Sprintf("item-%d", f.nextID)
	f.items[item.ID] = &item
	return item.ID, nil
}

func (f *fakeItemStore) List(_ context.Context) ([]model.Item, error) {
	out := make([]model.Item, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, *item)
	}
	return out, nil
}

func (f *fakeItemStore) GetByID(_ context.Context, id string) (model.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return model.Item{}, pgrepo.ErrItemNotFound
	}
	return *item, nil
}

func (f *fakeItemStore) Update(_ context.Context, id string, update pgrepo.ItemUpdate) error {
	item, ok := f.items[id]
	if !ok {
		return pgrepo.ErrItemNotFound
	}
	if update.Title != nil {
		item.Title = *update.Title
	}
	if update.Description != nil {
		item.Description = *update.Description
	}
	if update.Category != nil {
		item.Category = *update.Category
	}
	if update.CustomCategory != nil {
		item.CustomCategory = *update.CustomCategory
	}
	if update.Tags != nil {
		item.Tags = update.Tags
	}
	if update.Condition != nil {
		item.Condition = *update.Condition
	}
	if update.Location != nil {
		item.Location = *update.Location
	}
	if update.Coordinates != nil {
		item.Coordinates = update.Coordinates
	}
	if update.Contact != nil {
		item.Contact = *update.Contact
	}
	if update.Photos != nil {
		item.Photos = update.Photos
	}
	return nil
}

func (f *fakeItemStore) SetStatus(_ context.Context, id string, status enums.ItemStatus) error {
	item, ok := f.items[id]
	if !ok {
		return pgrepo.ErrItemNotFound
	}
	item.Status = status
	return nil
}

type fakeDeleter struct {
	store      *fakeItemStore
	resolution string
	reviewer   string
}

func (f *fakeDeleter) DeleteItemResolvingReports(_ context.Context, itemID, resolution, reviewer string, _ time.Time) error {
	if _, ok := f.store.items[itemID]; !ok {
		return pgrepo.ErrItemNotFound
	}
	delete(f.store.items, itemID)
	f.resolution = resolution
	f.reviewer = reviewer
	return nil
}

type fakeScreener struct {
	reasons []string
}

func (f *fakeScreener) AutoModerate(_ model.ItemDraft) []string {
	return f.reasons
}

func newTestService(store *fakeItemStore, screener *fakeScreener) (*Service, *fakeDeleter) {
	deleter := &fakeDeleter{store: store}
	svc := NewService(store, deleter, screener, search.NewService(5))
	svc.now = func() time.Time {
		return time.Date(2026, time.August, 15, 9, 0, 0, 0, time.UTC)
	}
	return svc, deleter
}

func validDraft() model.ItemDraft {
	return model.ItemDraft{
		OwnerID:   "owner-1",
		Title:     "Free couch",
		Category:  enums.CategoryFurniture,
		Condition: enums.ConditionGood,
		Location:  "Santa Monica, CA",
		Contact:   "jane@example.com",
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(newFakeItemStore(), &fakeScreener{})
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*model.ItemDraft)
	}{
		{name: "missing owner", mutate: func(d *model.ItemDraft) { d.OwnerID = "  " }},
		{name: "missing title", mutate: func(d *model.ItemDraft) { d.Title = "" }},
		{name: "missing location", mutate: func(d *model.ItemDraft) { d.Location = "" }},
		{name: "unknown category", mutate: func(d *model.ItemDraft) { d.Category = "vehicles" }},
		{name: "other without custom", mutate: func(d *model.ItemDraft) { d.Category = enums.CategoryOther }},
		{name: "unknown condition", mutate: func(d *model.ItemDraft) { d.Condition = "mint" }},
		{
			name: "too many photos",
			mutate: func(d *model.ItemDraft) {
				for i := 0; i <= model.MaxPhotos; i++ {
					d.Photos = append(d.Photos, fmt.Sprintf("items/owner-1/%d.jpg", i))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(&draft)
			if _, _, err := svc.Create(ctx, draft); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreatePublishesCleanDraft(t *testing.T) {
	store := newFakeItemStore()
	svc, _ := newTestService(store, &fakeScreener{})

	item, reasons, err := svc.Create(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(reasons) != 0 {
		t.Fatalf("clean draft should not be flagged: %v", reasons)
	}
	if item.ID == "" {
		t.Fatalf("created item has no id")
	}
	if item.Status != enums.ItemStatusAvailable {
		t.Fatalf("new item should be available, got %s", item.Status)
	}
	if item.Flagged || item.FlaggedAt != nil {
		t.Fatalf("clean item should not carry a flag: %+v", item)
	}
	if item.Posted.IsZero() {
		t.Fatalf("posted timestamp not set")
	}
}

func TestCreateFlaggedDraftStillPublishes(t *testing.T) {
	store := newFakeItemStore()
	svc, _ := newTestService(store, &fakeScreener{reasons: []string{"title too short"}})

	item, reasons, err := svc.Create(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(reasons) != 1 {
		t.Fatalf("expected one flag reason, got %v", reasons)
	}
	if !item.Flagged || item.FlaggedAt == nil {
		t.Fatalf("screened item should arrive flagged: %+v", item)
	}
	if item.Status != enums.ItemStatusAvailable {
		t.Fatalf("flagged item should still be available, got %s", item.Status)
	}
}

func TestCreateNormalizesTagsAndCustomCategory(t *testing.T) {
	store := newFakeItemStore()
	svc, _ := newTestService(store, &fakeScreener{})

	draft := validDraft()
	draft.Tags = []string{" Leather ", "SOFA", "sofa", "", "brown"}
	draft.CustomCategory = "ignored for furniture"

	item, _, err := svc.Create(context.Background(), draft)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	wantTags := []string{"leather", "sofa", "brown"}
	if len(item.Tags) != len(wantTags) {
		t.Fatalf("unexpected tags: %v", item.Tags)
	}
	for i := range wantTags {
		if item.Tags[i] != wantTags[i] {
			t.Fatalf("unexpected tag at %d: got %s want %s", i, item.Tags[i], wantTags[i])
		}
	}
	if item.CustomCategory != "" {
		t.Fatalf("custom category should be cleared for concrete categories, got %q", item.CustomCategory)
	}
}

func TestCreateCapsTags(t *testing.T) {
	store := newFakeItemStore()
	svc, _ := newTestService(store, &fakeScreener{})

	draft := validDraft()
	for i := 0; i < model.MaxTags+5; i++ {
		draft.Tags = append(draft.Tags, fmt.Sprintf("tag-%d", i))
	}

	item, _, err := svc.Create(context.Background(), draft)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(item.Tags) != model.MaxTags {
		t.Fatalf("tags should cap at %d, got %d", model.MaxTags, len(item.Tags))
	}
}

func TestUpdateRequiresOwnership(t *testing.T) {
	store := newFakeItemStore(model.Item{ID: "item-1", OwnerID: "owner-1", Title: "Free couch", Category: enums.CategoryFurniture})
	svc, _ := newTestService(store, &fakeScreener{})
	ctx := context.Background()

	title := "Free leather couch"
	if _, err := svc.Update(ctx, "item-1", "someone-else", UpdateInput{Title: &title}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(ctx, "item-1", "", UpdateInput{Title: &title}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty owner, got %v", err)
	}
	if _, err := svc.Update(ctx, "missing", "owner-1", UpdateInput{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	updated, err := svc.Update(ctx, "item-1", "owner-1", UpdateInput{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("unexpected title: got %q want %q", updated.Title, title)
	}
}

func TestUpdateCategoryCustomInterplay(t *testing.T) {
	ctx := context.Background()

	t.Run("switching to other needs a custom name", func(t *testing.T) {
		store := newFakeItemStore(model.Item{ID: "item-1", OwnerID: "owner-1", Category: enums.CategoryFurniture})
		svc, _ := newTestService(store, &fakeScreener{})

		other := "other"
		if _, err := svc.Update(ctx, "item-1", "owner-1", UpdateInput{Category: &other}); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}

		custom := "Aquarium Supplies"
		updated, err := svc.Update(ctx, "item-1", "owner-1", UpdateInput{Category: &other, CustomCategory: &custom})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Category != enums.CategoryOther || updated.CustomCategory != custom {
			t.Fatalf("unexpected category state: %+v", updated)
		}
	})

	t.Run("leaving other clears the custom name", func(t *testing.T) {
		store := newFakeItemStore(model.Item{
			ID: "item-1", OwnerID: "owner-1",
			Category: enums.CategoryOther, CustomCategory: "Aquarium Supplies",
		})
		svc, _ := newTestService(store, &fakeScreener{})

		furniture := "furniture"
		updated, err := svc.Update(ctx, "item-1", "owner-1", UpdateInput{Category: &furniture})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Category != enums.CategoryFurniture || updated.CustomCategory != "" {
			t.Fatalf("unexpected category state: %+v", updated)
		}
	})
}

func TestSetStatus(t *testing.T) {
	store := newFakeItemStore(model.Item{ID: "item-1", OwnerID: "owner-1", Status: enums.ItemStatusAvailable})
	svc, _ := newTestService(store, &fakeScreener{})
	ctx := context.Background()

	if _, err := svc.SetStatus(ctx, "item-1", "owner-1", "vanished"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown status, got %v", err)
	}
	if _, err := svc.SetStatus(ctx, "item-1", "someone-else", "claimed"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	updated, err := svc.SetStatus(ctx, "item-1", "owner-1", "claimed")
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if updated.Status != enums.ItemStatusClaimed {
		t.Fatalf("unexpected status: got %s want %s", updated.Status, enums.ItemStatusClaimed)
	}
}

func TestSetStatusExpiredIsOffLimits(t *testing.T) {
	store := newFakeItemStore(
		model.Item{ID: "item-1", OwnerID: "owner-1", Status: enums.ItemStatusAvailable},
		model.Item{ID: "item-2", OwnerID: "owner-1", Status: enums.ItemStatusExpired},
	)
	svc, _ := newTestService(store, &fakeScreener{})
	ctx := context.Background()

	if _, err := svc.SetStatus(ctx, "item-1", "owner-1", "expired"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for expired target, got %v", err)
	}
	current, _ := svc.Get(ctx, "item-1")
	if current.Status != enums.ItemStatusAvailable {
		t.Fatalf("status should be untouched, got %s", current.Status)
	}

	// Expiry is terminal; an expired listing cannot come back.
	if _, err := svc.SetStatus(ctx, "item-2", "owner-1", "available"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for expired item, got %v", err)
	}
	current, _ = svc.Get(ctx, "item-2")
	if current.Status != enums.ItemStatusExpired {
		t.Fatalf("expired item should stay expired, got %s", current.Status)
	}
}

func TestDeleteResolvesReports(t *testing.T) {
	store := newFakeItemStore(model.Item{ID: "item-1", OwnerID: "owner-1"})
	svc, deleter := newTestService(store, &fakeScreener{})
	ctx := context.Background()

	if err := svc.Delete(ctx, "item-1", "someone-else"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, "item-1", "owner-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleter.resolution != "item deleted by owner" || deleter.reviewer != "owner-1" {
		t.Fatalf("unexpected resolution fields: %q by %q", deleter.resolution, deleter.reviewer)
	}
	if err := svc.Delete(ctx, "item-1", "owner-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListFiltersAndSorts(t *testing.T) {
	posted := time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeItemStore(
		model.Item{ID: "couch", OwnerID: "o1", Title: "Free couch", Category: enums.CategoryFurniture, Location: "Santa Monica, CA", Status: enums.ItemStatusAvailable, Posted: posted},
		model.Item{ID: "desk", OwnerID: "o2", Title: "Free desk", Category: enums.CategoryFurniture, Location: "Pasadena, CA", Status: enums.ItemStatusClaimed, Posted: posted.Add(time.Hour)},
		model.Item{ID: "tv", OwnerID: "o3", Title: "Old TV", Category: enums.CategoryElectronics, Location: "Pasadena, CA", Status: enums.ItemStatusAvailable, Posted: posted.Add(2 * time.Hour)},
	)
	svc, _ := newTestService(store, &fakeScreener{})

	got, err := svc.List(context.Background(), search.Criteria{Category: enums.CategoryFurniture}, nil, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected result count: got %d want 2", len(got))
	}
	// Available listings come first even when the claimed one is newer.
	if got[0].ID != "couch" || got[1].ID != "desk" {
		t.Fatalf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
}
