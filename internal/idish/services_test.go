package idish

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"idish/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a minimal in-memory stand-in for the iDISH REST API,
// covering the endpoints the services exercise.
type fakeBackend struct {
	mu     sync.Mutex
	dishes []models.Dish
	orders map[string]*models.Order
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{orders: make(map[string]*models.Order)}
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/dishes/add", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "missing token"})
			return
		}
		var input DishInput
		json.NewDecoder(r.Body).Decode(&input)
		f.mu.Lock()
		dish := models.Dish{
			ID:          "dish-1",
			Title:       input.Title,
			Description: input.Description,
			Price:       input.Price,
			CuisineType: input.CuisineType,
			ImageURL:    input.ImageURL,
			Available:   input.Available,
			ChefID:      "chef-1",
		}
		f.dishes = append(f.dishes, dish)
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"dish": dish, "message": "created"})
	})
	mux.HandleFunc("/dishes/by-chef", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"dishes": f.dishes})
	})
	mux.HandleFunc("/orders/status/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/orders/status/"):]
		var body struct {
			Status models.OrderStatus `json:"status"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		order, ok := f.orders[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "order not found"})
			return
		}
		order.Status = body.Status
		json.NewEncoder(w).Encode(map[string]any{"order": order})
	})
	return mux
}

func newServices(t *testing.T) (*fakeBackend, *DishService, *OrderService) {
	t.Helper()
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	logger := zerolog.Nop()
	client := NewClient(server.URL, &logger)
	return backend, NewDishService(client), NewOrderService(client)
}

func chefSession() *models.Session {
	return &models.Session{AccessToken: "chef-token"}
}

func TestDishCreateRoundTrip(t *testing.T) {
	_, dishes, _ := newServices(t)
	ctx := context.Background()

	created, err := dishes.Add(ctx, chefSession(), DishInput{
		Title:       "Test Dish",
		Description: "A dish used in tests",
		Price:       9.99,
		CuisineType: "Italian",
		Available:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Test Dish", created.Title)

	listed, err := dishes.ByChef(ctx, chefSession())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Test Dish", listed[0].Title)
	assert.Equal(t, 9.99, listed[0].Price)
	assert.Equal(t, "Italian", listed[0].CuisineType)
	assert.True(t, listed[0].Available)
}

func TestOrderUpdateStatus(t *testing.T) {
	backend, _, orders := newServices(t)
	backend.orders["o1"] = &models.Order{ID: "o1", Status: models.OrderPending}

	updated, err := orders.UpdateStatus(context.Background(), chefSession(), "o1", models.OrderAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.OrderAccepted, updated.Status)

	_, err = orders.UpdateStatus(context.Background(), chefSession(), "missing", models.OrderAccepted)
	require.Error(t, err)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "order not found", apiErr.Message)
}

func TestDishSearchQueryEncoding(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{"dishes": []models.Dish{}})
	}))
	t.Cleanup(server.Close)
	logger := zerolog.Nop()
	dishes := NewDishService(NewClient(server.URL, &logger))

	_, err := dishes.Search(context.Background(), chefSession(), DishSearchParams{
		Title:       "thai curry",
		CuisineType: "Thai",
		MinPrice:    5,
		MaxPrice:    20,
	})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "title=thai+curry")
	assert.Contains(t, gotQuery, "cuisine_type=Thai")
	assert.Contains(t, gotQuery, "min_price=5")
	assert.Contains(t, gotQuery, "max_price=20")
}

func TestByUserStatusFilter(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		json.NewEncoder(w).Encode(map[string]any{"orders": []models.Order{}, "bookings": []models.Booking{}})
	}))
	t.Cleanup(server.Close)
	logger := zerolog.Nop()
	client := NewClient(server.URL, &logger)

	_, err := NewOrderService(client).ByUser(context.Background(), chefSession(), models.OrderPending)
	require.NoError(t, err)
	assert.Equal(t, "/orders/by-user?status=pending", gotPath)

	_, err = NewBookingService(client).ByUser(context.Background(), chefSession(), "")
	require.NoError(t, err)
	assert.Equal(t, "/bookings/by-user", gotPath)
}
