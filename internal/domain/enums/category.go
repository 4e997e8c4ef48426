package enums

import "strings"

type Category string

const (
	CategoryFurniture   Category = "furniture"
	CategoryElectronics Category = "electronics"
	CategoryAppliances  Category = "appliances"
	CategoryTools       Category = "tools"
	CategoryBooks       Category = "books"
	CategoryClothing    Category = "clothing"
	CategorySports      Category = "sports"
	CategoryGarden      Category = "garden"
	CategoryToys        Category = "toys"
	CategoryScrap       Category = "scrap"
	CategoryOther       Category = "other"
)

func Categories() []Category {
	return []Category{
		CategoryFurniture,
		CategoryElectronics,
		CategoryAppliances,
		CategoryTools,
		CategoryBooks,
		CategoryClothing,
		CategorySports,
		CategoryGarden,
		CategoryToys,
		CategoryScrap,
		CategoryOther,
	}
}

func ParseCategory(value string) (Category, bool) {
	normalized := Category(strings.ToLower(strings.TrimSpace(value)))
	for _, category := range Categories() {
		if category == normalized {
			return category, true
		}
	}
	return "", false
}
