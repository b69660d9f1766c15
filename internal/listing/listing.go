// Package listing filters and sorts collections that a view fetched once.
// Everything here is a pure function over an in-memory slice, recomputed on
// each request; collections are assumed small and nothing is paginated.
package listing

import (
	"sort"
	"strings"

	"idish/internal/models"
)

type Sort string

const (
	SortRecommended  Sort = "recommended"
	SortPriceLowHigh Sort = "price_asc"
	SortPriceHighLow Sort = "price_desc"
	SortAlphabetical Sort = "alpha"
)

// SortOptions maps UI labels to sort keys, in display order.
var SortOptions = []struct {
	Value Sort
	Label string
}{
	{SortRecommended, "Recommended"},
	{SortPriceLowHigh, "Price: Low to High"},
	{SortPriceHighLow, "Price: High to Low"},
	{SortAlphabetical, "Alphabetical"},
}

type DishQuery struct {
	Search  string
	Cuisine string
	Dietary string
	Sort    Sort
}

// FilterDishes applies search, cuisine and dietary filters, then the sort.
// The input slice is never mutated.
func FilterDishes(dishes []models.Dish, q DishQuery) []models.Dish {
	result := make([]models.Dish, 0, len(dishes))

	search := strings.ToLower(strings.TrimSpace(q.Search))
	for _, d := range dishes {
		if search != "" && !dishMatches(&d, search) {
			continue
		}
		if q.Cuisine != "" && d.CuisineType != q.Cuisine {
			continue
		}
		if q.Dietary != "" && !d.HasDietaryTag(q.Dietary) {
			continue
		}
		result = append(result, d)
	}

	switch q.Sort {
	case SortPriceLowHigh:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price < result[j].Price })
	case SortPriceHighLow:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price > result[j].Price })
	case SortAlphabetical:
		sort.SliceStable(result, func(i, j int) bool {
			return strings.ToLower(result[i].Title) < strings.ToLower(result[j].Title)
		})
	}
	return result
}

func dishMatches(d *models.Dish, search string) bool {
	return strings.Contains(strings.ToLower(d.Title), search) ||
		strings.Contains(strings.ToLower(d.Description), search) ||
		strings.Contains(strings.ToLower(d.CuisineType), search)
}

type HostingQuery struct {
	Search string
	Sort   Sort
}

// FilterHostings searches across title, location and description.
func FilterHostings(hostings []models.Hosting, q HostingQuery) []models.Hosting {
	result := make([]models.Hosting, 0, len(hostings))

	search := strings.ToLower(strings.TrimSpace(q.Search))
	for _, h := range hostings {
		if search != "" && !hostingMatches(&h, search) {
			continue
		}
		result = append(result, h)
	}

	switch q.Sort {
	case SortPriceLowHigh:
		sort.SliceStable(result, func(i, j int) bool { return result[i].PricePerGuest < result[j].PricePerGuest })
	case SortPriceHighLow:
		sort.SliceStable(result, func(i, j int) bool { return result[i].PricePerGuest > result[j].PricePerGuest })
	case SortAlphabetical:
		sort.SliceStable(result, func(i, j int) bool {
			return strings.ToLower(result[i].Title) < strings.ToLower(result[j].Title)
		})
	}
	return result
}

func hostingMatches(h *models.Hosting, search string) bool {
	return strings.Contains(strings.ToLower(h.Title), search) ||
		strings.Contains(strings.ToLower(h.Location), search) ||
		strings.Contains(strings.ToLower(h.Description), search)
}

// ParseSort normalizes a query parameter into a sort key.
func ParseSort(raw string) Sort {
	switch Sort(raw) {
	case SortPriceLowHigh, SortPriceHighLow, SortAlphabetical:
		return Sort(raw)
	}
	return SortRecommended
}
