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

var ErrItemNotFound = errors.New("item not found")

type ItemRepo struct {
	pool *pgxpool.Pool
}

// ItemUpdate carries the mutable fields of an item edit; nil means unchanged.
type ItemUpdate struct {
	Title          *string
	Description    *string
	Category       *enums.Category
	CustomCategory *string
	Tags           []string
	Condition      *enums.Condition
	Location       *string
	Coordinates    *model.Coordinates
	Contact        *string
	Photos         []string
}

func NewItemRepo(pool *pgxpool.Pool) *ItemRepo {
	return &ItemRepo{pool: pool}
}

func (r *ItemRepo) Create(ctx context.Context, item model.Item) (string, error) {
	if r.pool == nil {
		return "", fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(item.Title) == "" {
		return "", fmt.Errorf("item title is required")
	}

	id := uuid.NewString()

	var lat, lng *float64
	if item.Coordinates != nil {
		lat = &item.Coordinates.Lat
		lng = &item.Coordinates.Lng
	}

	var flaggedAt *time.Time
	if item.Flagged {
		at := item.Posted
		if item.FlaggedAt != nil {
			at = *item.FlaggedAt
		}
		flaggedAt = &at
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO items (
	id,
	owner_id,
	title,
	description,
	category,
	custom_category,
	tags,
	condition,
	location,
	lat,
	lng,
	contact,
	photos,
	status,
	posted,
	flagged,
	flagged_at,
	views,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, 0, NOW(), NOW())
`,
		id,
		item.OwnerID,
		item.Title,
		item.Description,
		string(item.Category),
		item.CustomCategory,
		item.Tags,
		string(item.Condition),
		item.Location,
		lat,
		lng,
		item.Contact,
		item.Photos,
		string(item.Status),
		item.Posted,
		item.Flagged,
		flaggedAt,
	); err != nil {
		return "", fmt.Errorf("create item: %w", err)
	}

	return id, nil
}

func (r *ItemRepo) List(ctx context.Context) ([]model.Item, error) {
	return r.list(ctx, `
SELECT id, owner_id, title, description, category, custom_category, tags, condition,
	location, lat, lng, contact, photos, status, posted, flagged, flagged_at, views
FROM items
ORDER BY posted DESC, id DESC
`)
}

func (r *ItemRepo) ListFlagged(ctx context.Context) ([]model.Item, error) {
	return r.list(ctx, `
SELECT id, owner_id, title, description, category, custom_category, tags, condition,
	location, lat, lng, contact, photos, status, posted, flagged, flagged_at, views
FROM items
WHERE flagged = TRUE
ORDER BY flagged_at DESC NULLS LAST, id DESC
`)
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (model.Item, error) {
	if r.pool == nil {
		return model.Item{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(id) == "" {
		return model.Item{}, ErrItemNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT id, owner_id, title, description, category, custom_category, tags, condition,
	location, lat, lng, contact, photos, status, posted, flagged, flagged_at, views
FROM items
WHERE id = $1
`, id)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Item{}, ErrItemNotFound
		}
		return model.Item{}, fmt.Errorf("get item: %w", err)
	}

	return item, nil
}

func (r *ItemRepo) Update(ctx context.Context, id string, update ItemUpdate) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(id) == "" {
		return ErrItemNotFound
	}

	sets := make([]string, 0, 12)
	args := make([]any, 0, 12)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.Category != nil {
		add("category", string(*update.Category))
	}
	if update.CustomCategory != nil {
		add("custom_category", *update.CustomCategory)
	}
	if update.Tags != nil {
		add("tags", update.Tags)
	}
	if update.Condition != nil {
		add("condition", string(*update.Condition))
	}
	if update.Location != nil {
		add("location", *update.Location)
	}
	if update.Coordinates != nil {
		add("lat", update.Coordinates.Lat)
		add("lng", update.Coordinates.Lng)
	}
	if update.Contact != nil {
		add("contact", *update.Contact)
	}
	if update.Photos != nil {
		add("photos", update.Photos)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`
UPDATE items
SET %s, updated_at = NOW()
WHERE id = $%d
`, strings.Join(sets, ", "), len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *ItemRepo) SetStatus(ctx context.Context, id string, status enums.ItemStatus) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE items
SET status = $2, updated_at = NOW()
WHERE id = $1
`, id, string(status))
	if err != nil {
		return fmt.Errorf("set item status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *ItemRepo) SetFlag(ctx context.Context, id string, flagged bool, at time.Time) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	var flaggedAt *time.Time
	if flagged {
		flaggedAt = &at
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE items
SET flagged = $2, flagged_at = $3, updated_at = NOW()
WHERE id = $1
`, id, flagged, flaggedAt)
	if err != nil {
		return fmt.Errorf("set item flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

// IncrementViews is best-effort bookkeeping; callers swallow its error after
// logging.
func (r *ItemRepo) IncrementViews(ctx context.Context, id string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `
UPDATE items
SET views = views + 1
WHERE id = $1
`, id); err != nil {
		return fmt.Errorf("increment item views: %w", err)
	}

	return nil
}

func (r *ItemRepo) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM items`)
}

func (r *ItemRepo) CountFlagged(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM items WHERE flagged = TRUE`)
}

// ListAvailableOlderThan feeds the expiry job.
func (r *ItemRepo) ListAvailableOlderThan(ctx context.Context, cutoff time.Time) ([]string, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id
FROM items
WHERE status = 'available' AND posted < $1
`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list stale items: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan stale item id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stale items: %w", err)
	}

	return ids, nil
}

func (r *ItemRepo) list(ctx context.Context, query string) ([]model.Item, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]model.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return items, nil
}

func (r *ItemRepo) count(ctx context.Context, query string) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var count int
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}

	return count, nil
}

func scanItem(row pgx.Row) (model.Item, error) {
	var (
		item      model.Item
		category  string
		condition string
		status    string
		lat, lng  *float64
	)

	if err := row.Scan(
		&item.ID,
		&item.OwnerID,
		&item.Title,
		&item.Description,
		&category,
		&item.CustomCategory,
		&item.Tags,
		&condition,
		&item.Location,
		&lat,
		&lng,
		&item.Contact,
		&item.Photos,
		&status,
		&item.Posted,
		&item.Flagged,
		&item.FlaggedAt,
		&item.Views,
	); err != nil {
		return model.Item{}, err
	}

	item.Category = enums.Category(category)
	item.Condition = enums.Condition(condition)
	item.Status = enums.ItemStatus(status)
	if lat != nil && lng != nil {
		item.Coordinates = &model.Coordinates{Lat: *lat, Lng: *lng}
	}

	return item, nil
}
