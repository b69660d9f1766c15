package idish

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"idish/internal/models"
)

type DishService struct {
	client *Client
}

func NewDishService(client *Client) *DishService {
	return &DishService{client: client}
}

// DishInput is the create/full-update payload. Ownership (chef_id) is always
// derived server-side from the bearer token.
type DishInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"image_url"`
	CuisineType string   `json:"cuisine_type"`
	DietaryTags []string `json:"dietary_tags,omitempty"`
	Available   bool     `json:"available"`
}

type DishSearchParams struct {
	Title       string
	CuisineType string
	MinPrice    float64
	MaxPrice    float64
}

type dishEnvelope struct {
	Dish models.Dish `json:"dish"`
}

type dishesEnvelope struct {
	Dishes []models.Dish `json:"dishes"`
}

func (s *DishService) All(ctx context.Context, sess *models.Session) ([]models.Dish, error) {
	var resp dishesEnvelope
	err := s.client.Do(ctx, "/dishes/all", RequestOptions{RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Dishes, nil
}

func (s *DishService) Search(ctx context.Context, sess *models.Session, params DishSearchParams) ([]models.Dish, error) {
	query := url.Values{}
	if params.Title != "" {
		query.Set("title", params.Title)
	}
	if params.CuisineType != "" {
		query.Set("cuisine_type", params.CuisineType)
	}
	if params.MinPrice > 0 {
		query.Set("min_price", strconv.FormatFloat(params.MinPrice, 'f', -1, 64))
	}
	if params.MaxPrice > 0 {
		query.Set("max_price", strconv.FormatFloat(params.MaxPrice, 'f', -1, 64))
	}
	var resp dishesEnvelope
	err := s.client.Do(ctx, "/dishes/search?"+query.Encode(), RequestOptions{RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Dishes, nil
}

func (s *DishService) Get(ctx context.Context, sess *models.Session, id string) (*models.Dish, error) {
	var resp dishEnvelope
	err := s.client.Do(ctx, "/dishes/"+id, RequestOptions{RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Dish, nil
}

func (s *DishService) Add(ctx context.Context, sess *models.Session, input DishInput) (*models.Dish, error) {
	var resp dishEnvelope
	err := s.client.Do(ctx, "/dishes/add",
		RequestOptions{Method: http.MethodPost, Body: input, RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Dish, nil
}

// ByChef lists the calling chef's own dishes; the backend scopes by token.
func (s *DishService) ByChef(ctx context.Context, sess *models.Session) ([]models.Dish, error) {
	var resp dishesEnvelope
	err := s.client.Do(ctx, "/dishes/by-chef", RequestOptions{RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Dishes, nil
}

func (s *DishService) Update(ctx context.Context, sess *models.Session, id string, input DishInput) (*models.Dish, error) {
	var resp dishEnvelope
	err := s.client.Do(ctx, "/dishes/edit/"+id,
		RequestOptions{Method: http.MethodPut, Body: input, RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Dish, nil
}

// SetAvailability is the partial update behind the dashboard toggle.
func (s *DishService) SetAvailability(ctx context.Context, sess *models.Session, id string, available bool) (*models.Dish, error) {
	body := struct {
		Available bool `json:"available"`
	}{Available: available}
	var resp dishEnvelope
	err := s.client.Do(ctx, "/dishes/edit/"+id,
		RequestOptions{Method: http.MethodPut, Body: body, RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Dish, nil
}

func (s *DishService) Delete(ctx context.Context, sess *models.Session, id string) error {
	return s.client.Do(ctx, "/dishes/delete/"+id,
		RequestOptions{Method: http.MethodDelete, RequiresAuth: true, Token: token(sess)}, nil)
}
