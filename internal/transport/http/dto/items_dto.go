package dto

import (
	"time"

	"github.com/EricSteeles/Curb-Alert/internal/domain/model"
)

type CoordinatesPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type CreateItemRequest struct {
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Category       string              `json:"category"`
	CustomCategory string              `json:"custom_category"`
	Tags           []string            `json:"tags"`
	Condition      string              `json:"condition"`
	Location       string              `json:"location"`
	Coordinates    *CoordinatesPayload `json:"coordinates"`
	Contact        string              `json:"contact"`
	Photos         []string            `json:"photos"`
}

type UpdateItemRequest struct {
	Title          *string             `json:"title"`
	Description    *string             `json:"description"`
	Category       *string             `json:"category"`
	CustomCategory *string             `json:"custom_category"`
	Tags           []string            `json:"tags"`
	Condition      *string             `json:"condition"`
	Location       *string             `json:"location"`
	Coordinates    *CoordinatesPayload `json:"coordinates"`
	Contact        *string             `json:"contact"`
	Photos         []string            `json:"photos"`
}

type SetItemStatusRequest struct {
	Status string `json:"status"`
}

type ItemResponse struct {
	ID              string              `json:"id"`
	OwnerID         string              `json:"owner_id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Category        string              `json:"category"`
	CustomCategory  string              `json:"custom_category,omitempty"`
	DisplayCategory string              `json:"display_category"`
	Tags            []string            `json:"tags,omitempty"`
	Condition       string              `json:"condition"`
	Location        string              `json:"location"`
	Coordinates     *CoordinatesPayload `json:"coordinates,omitempty"`
	Photos          []string            `json:"photos,omitempty"`
	Status          string              `json:"status"`
	Posted          time.Time           `json:"posted"`
	Flagged         bool                `json:"flagged"`
	Views           int                 `json:"views"`
}

type ItemsListResponse struct {
	Items  []ItemResponse `json:"items"`
	Groups ItemGroups     `json:"groups"`
}

// ItemGroups shelves the feed by status so clients render each section
// without re-deriving the split.
type ItemGroups struct {
	Available []ItemResponse `json:"available"`
	Claimed   []ItemResponse `json:"claimed"`
	Expired   []ItemResponse `json:"expired"`
}

type CreateItemResponse struct {
	Item            ItemResponse `json:"item"`
	ModerationFlags []string     `json:"moderation_flags,omitempty"`
}

// ItemFromModel omits the raw contact string: clients reach the poster
// through the contact-link endpoint instead.
func ItemFromModel(item model.Item) ItemResponse {
	resp := ItemResponse{
		ID:              item.ID,
		OwnerID:         item.OwnerID,
		Title:           item.Title,
		Description:     item.Description,
		Category:        string(item.Category),
		CustomCategory:  item.CustomCategory,
		DisplayCategory: item.DisplayCategory(),
		Tags:            item.Tags,
		Condition:       string(item.Condition),
		Location:        item.Location,
		Photos:          item.Photos,
		Status:          string(item.Status),
		Posted:          item.Posted,
		Flagged:         item.Flagged,
		Views:           item.Views,
	}
	if item.Coordinates != nil {
		resp.Coordinates = &CoordinatesPayload{Lat: item.Coordinates.Lat, Lng: item.Coordinates.Lng}
	}
	return resp
}

func ItemsFromModels(items []model.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ItemFromModel(item))
	}
	return out
}
