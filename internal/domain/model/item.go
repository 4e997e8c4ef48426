package model

import (
	"strings"
	"time"

	"github.com/EricSteeles/Curb-Alert/internal/domain/enums"
)

const (
	MaxTags   = 10
	MaxPhotos = 5
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Item is a free-to-claim listing. The id is assigned by the repository at
// creation and immutable afterwards.
type Item struct {
	ID             string           `json:"id"`
	OwnerID        string           `json:"owner_id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Category       enums.Category   `json:"category"`
	CustomCategory string           `json:"custom_category,omitempty"`
	Tags           []string         `json:"tags,omitempty"`
	Condition      enums.Condition  `json:"condition"`
	Location       string           `json:"location"`
	Coordinates    *Coordinates     `json:"coordinates,omitempty"`
	Contact        string           `json:"contact,omitempty"`
	Photos         []string         `json:"photos,omitempty"`
	Status         enums.ItemStatus `json:"status"`
	Posted         time.Time        `json:"posted"`
	Flagged        bool             `json:"flagged"`
	FlaggedAt      *time.Time       `json:"flagged_at,omitempty"`
	Views          int              `json:"views"`
}

// DisplayCategory is the effective category shown and searched: the custom
// text when the item is categorized as "other", otherwise the enumerated
// category.
func (i Item) DisplayCategory() string {
	if i.Category == enums.CategoryOther && strings.TrimSpace(i.CustomCategory) != "" {
		return i.CustomCategory
	}
	return string(i.Category)
}

// ItemDraft is a submission before moderation pre-check and persistence.
type ItemDraft struct {
	OwnerID        string
	Title          string
	Description    string
	Category       enums.Category
	CustomCategory string
	Tags           []string
	Condition      enums.Condition
	Location       string
	Coordinates    *Coordinates
	Contact        string
	Photos         []string
}
