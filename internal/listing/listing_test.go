package listing

import (
	"testing"

	"idish/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDishes() []models.Dish {
	return []models.Dish{
		{ID: "1", Title: "Homemade Lasagna", Description: "Rich meat sauce", CuisineType: "Italian", Price: 15.99, DietaryTags: []string{"Dairy"}},
		{ID: "2", Title: "Spicy Thai Curry", Description: "Coconut milk and chili", CuisineType: "Thai", Price: 13.50, DietaryTags: []string{"Gluten-Free"}},
		{ID: "3", Title: "Garden Salad", Description: "Fresh greens", CuisineType: "Mediterranean", Price: 14.75, DietaryTags: []string{"Vegan", "Gluten-Free"}},
	}
}

func TestSearchMatchesSingleDish(t *testing.T) {
	got := FilterDishes(sampleDishes(), DishQuery{Search: "thai"})
	require.Len(t, got, 1)
	assert.Equal(t, "Spicy Thai Curry", got[0].Title)
}

func TestSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	t.Run("Title", func(t *testing.T) {
		assert.Len(t, FilterDishes(sampleDishes(), DishQuery{Search: "LASAGNA"}), 1)
	})
	t.Run("Description", func(t *testing.T) {
		assert.Len(t, FilterDishes(sampleDishes(), DishQuery{Search: "coconut"}), 1)
	})
	t.Run("Cuisine", func(t *testing.T) {
		assert.Len(t, FilterDishes(sampleDishes(), DishQuery{Search: "mediterranean"}), 1)
	})
	t.Run("NoMatch", func(t *testing.T) {
		assert.Empty(t, FilterDishes(sampleDishes(), DishQuery{Search: "sushi"}))
	})
}

func TestCuisineFilter(t *testing.T) {
	got := FilterDishes(sampleDishes(), DishQuery{Cuisine: "Italian"})
	require.Len(t, got, 1)
	assert.Equal(t, "Homemade Lasagna", got[0].Title)
}

func TestDietaryFilter(t *testing.T) {
	got := FilterDishes(sampleDishes(), DishQuery{Dietary: "Gluten-Free"})
	require.Len(t, got, 2)

	got = FilterDishes(sampleDishes(), DishQuery{Dietary: "Vegan"})
	require.Len(t, got, 1)
	assert.Equal(t, "Garden Salad", got[0].Title)
}

func TestSortPriceLowToHigh(t *testing.T) {
	got := FilterDishes(sampleDishes(), DishQuery{Sort: SortPriceLowHigh})
	require.Len(t, got, 3)
	assert.Equal(t, []float64{13.50, 14.75, 15.99}, []float64{got[0].Price, got[1].Price, got[2].Price})
}

func TestSortPriceHighToLow(t *testing.T) {
	got := FilterDishes(sampleDishes(), DishQuery{Sort: SortPriceHighLow})
	assert.Equal(t, 15.99, got[0].Price)
	assert.Equal(t, 13.50, got[2].Price)
}

func TestSortAlphabetical(t *testing.T) {
	got := FilterDishes(sampleDishes(), DishQuery{Sort: SortAlphabetical})
	assert.Equal(t, "Garden Salad", got[0].Title)
	assert.Equal(t, "Homemade Lasagna", got[1].Title)
	assert.Equal(t, "Spicy Thai Curry", got[2].Title)
}

func TestRecommendedKeepsSourceOrder(t *testing.T) {
	got := FilterDishes(sampleDishes(), DishQuery{Sort: SortRecommended})
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
	assert.Equal(t, "3", got[2].ID)
}

func TestInputSliceNotMutated(t *testing.T) {
	dishes := sampleDishes()
	FilterDishes(dishes, DishQuery{Sort: SortPriceHighLow})
	assert.Equal(t, "Homemade Lasagna", dishes[0].Title)
}

func TestFilterHostings(t *testing.T) {
	hostings := []models.Hosting{
		{ID: "h1", Title: "Tuscan Night", Location: "Florence", PricePerGuest: 40},
		{ID: "h2", Title: "Ramen Workshop", Location: "Osaka kitchen", Description: "Hands-on noodles", PricePerGuest: 25},
	}

	t.Run("SearchByLocation", func(t *testing.T) {
		got := FilterHostings(hostings, HostingQuery{Search: "osaka"})
		require.Len(t, got, 1)
		assert.Equal(t, "Ramen Workshop", got[0].Title)
	})

	t.Run("SearchByDescription", func(t *testing.T) {
		got := FilterHostings(hostings, HostingQuery{Search: "noodles"})
		require.Len(t, got, 1)
	})

	t.Run("SortByPrice", func(t *testing.T) {
		got := FilterHostings(hostings, HostingQuery{Sort: SortPriceLowHigh})
		assert.Equal(t, "h2", got[0].ID)
	})
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortPriceLowHigh, ParseSort("price_asc"))
	assert.Equal(t, SortRecommended, ParseSort(""))
	assert.Equal(t, SortRecommended, ParseSort("bogus"))
}
