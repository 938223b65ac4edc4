package ordering

import (
	"time"

	"github.com/mansoorceksport/mealturn/internal/domain"
)

// Group is the dishes of one menu category
type Group struct {
	Category domain.MenuCategory
	Label    string
	Items    []domain.MenuItem
}

var categoryOrder = []domain.MenuCategory{
	domain.MenuCategoryNew,
	domain.MenuCategoryDaily,
	domain.MenuCategorySpecial,
	domain.MenuCategoryOther,
}

// GroupByCategory groups menu items in a fixed category order, keeping the
// menu's item order inside each group. Empty groups are omitted.
func GroupByCategory(items []domain.MenuItem) []Group {
	buckets := make(map[domain.MenuCategory][]domain.MenuItem)
	for _, item := range items {
		cat := item.Category
		switch cat {
		case domain.MenuCategoryNew, domain.MenuCategoryDaily, domain.MenuCategorySpecial:
		default:
			cat = domain.MenuCategoryOther
		}
		buckets[cat] = append(buckets[cat], item)
	}

	groups := make([]Group, 0, len(buckets))
	for _, cat := range categoryOrder {
		if len(buckets[cat]) == 0 {
			continue
		}
		groups = append(groups, Group{Category: cat, Label: cat.Label(), Items: buckets[cat]})
	}
	return groups
}

// Partition splits owned packages into those still usable at now and those
// expired, used up or deactivated.
func Partition(packages []domain.UserPackage, now time.Time) (usable, spent []domain.UserPackage) {
	for _, p := range packages {
		if p.IsUsable(now) {
			usable = append(usable, p)
		} else {
			spent = append(spent, p)
		}
	}
	return usable, spent
}

// ByType splits the package catalog into the normal and no-rice tabs
func ByType(packages []domain.MealPackage) (normal, noRice []domain.MealPackage) {
	for _, p := range packages {
		if p.PackageType.Normalize() == domain.PackageTypeNoRice {
			noRice = append(noRice, p)
		} else {
			normal = append(normal, p)
		}
	}
	return normal, noRice
}
