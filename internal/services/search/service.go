package search

import (
	"sort"
	"strings"

	"github.com/EricSteeles/Curb-Alert/internal/domain/enums"
	"github.com/EricSteeles/Curb-Alert/internal/domain/model"
	geosvc "github.com/EricSteeles/Curb-Alert/internal/services/geo"
)

// Criteria narrows a listing feed. Empty fields do not filter. Location only
// kicks in once the query reaches the configured minimum length, so partial
// typing does not hide everything.
type Criteria struct {
	Keyword        string
	Category       enums.Category
	CustomCategory string
	Location       string
}

type Service struct {
	minLocationQuery int
}

func NewService(minLocationQuery int) *Service {
	if minLocationQuery <= 0 {
		minLocationQuery = 5
	}
	return &Service{minLocationQuery: minLocationQuery}
}

// Filter applies keyword, category and location criteria in sequence. Every
// match is a case-insensitive substring check.
func (s *Service) Filter(items []model.Item, criteria Criteria) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, item := range items {
		if !s.matchesKeyword(item, criteria.Keyword) {
			continue
		}
		if !s.matchesCategory(item, criteria.Category, criteria.CustomCategory) {
			continue
		}
		if !s.matchesLocation(item, criteria.Location) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// SortForDisplay orders available items first, then newest postings on top
// within each status group. The input slice is not modified.
func (s *Service) SortForDisplay(items []model.Item) []model.Item {
	out := make([]model.Item, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Status.Rank(), out[j].Status.Rank()
		if ri != rj {
			return ri < rj
		}
		return out[i].Posted.After(out[j].Posted)
	})

	return out
}

// Partition groups a feed by status, each group keeping the input order.
type Partition struct {
	Available []model.Item
	Claimed   []model.Item
	Expired   []model.Item
}

// PartitionByStatus splits a feed into the available, claimed and expired
// shelves. Unknown statuses are dropped.
func (s *Service) PartitionByStatus(items []model.Item) Partition {
	p := Partition{
		Available: make([]model.Item, 0, len(items)),
		Claimed:   make([]model.Item, 0),
		Expired:   make([]model.Item, 0),
	}
	for _, item := range items {
		switch item.Status {
		case enums.ItemStatusAvailable:
			p.Available = append(p.Available, item)
		case enums.ItemStatusClaimed:
			p.Claimed = append(p.Claimed, item)
		case enums.ItemStatusExpired:
			p.Expired = append(p.Expired, item)
		}
	}
	return p
}

// FilterByRadius keeps items whose coordinates fall within radiusMiles of the
// center. Items without coordinates cannot be placed and are excluded.
func (s *Service) FilterByRadius(items []model.Item, center model.Coordinates, radiusMiles float64) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, item := range items {
		if item.Coordinates == nil {
			continue
		}
		if geosvc.WithinRadius(center, *item.Coordinates, radiusMiles) {
			out = append(out, item)
		}
	}
	return out
}

func (s *Service) matchesKeyword(item model.Item, keyword string) bool {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return true
	}

	if strings.Contains(strings.ToLower(item.Title), keyword) {
		return true
	}
	if strings.Contains(strings.ToLower(item.Description), keyword) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), keyword) {
			return true
		}
	}
	if strings.Contains(strings.ToLower(item.DisplayCategory()), keyword) {
		return true
	}
	return strings.Contains(strings.ToLower(string(item.Category)), keyword)
}

func (s *Service) matchesCategory(item model.Item, category enums.Category, custom string) bool {
	if category == "" {
		return true
	}

	custom = strings.ToLower(strings.TrimSpace(custom))
	if category == enums.CategoryOther {
		// "Other" only narrows once the shopper has typed what they mean.
		if custom == "" {
			return true
		}
		if strings.Contains(strings.ToLower(item.DisplayCategory()), custom) {
			return true
		}
		if item.Category == enums.CategoryOther {
			for _, tag := range item.Tags {
				if strings.Contains(strings.ToLower(tag), custom) {
					return true
				}
			}
		}
		return false
	}

	if item.Category == category {
		return true
	}
	return strings.EqualFold(item.DisplayCategory(), string(category))
}

func (s *Service) matchesLocation(item model.Item, query string) bool {
	query = strings.TrimSpace(query)
	if len(query) < s.minLocationQuery {
		return true
	}
	return strings.Contains(strings.ToLower(item.Location), strings.ToLower(query))
}
