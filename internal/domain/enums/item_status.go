package enums

import "strings"

type ItemStatus string

const (
	ItemStatusAvailable ItemStatus = "available"
	ItemStatusClaimed   ItemStatus = "claimed"
	ItemStatusExpired   ItemStatus = "expired"
)

func ParseItemStatus(value string) (ItemStatus, bool) {
	switch ItemStatus(strings.ToLower(strings.TrimSpace(value))) {
	case ItemStatusAvailable:
		return ItemStatusAvailable, true
	case ItemStatusClaimed:
		return ItemStatusClaimed, true
	case ItemStatusExpired:
		return ItemStatusExpired, true
	default:
		return "", false
	}
}

// Rank orders statuses for display: available listings come before claimed,
// expired always last.
func (s ItemStatus) Rank() int {
	switch s {
	case ItemStatusAvailable:
		return 0
	case ItemStatusClaimed:
		return 1
	case ItemStatusExpired:
		return 2
	default:
		return 3
	}
}
