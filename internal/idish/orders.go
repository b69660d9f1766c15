package idish

import (
	"context"
	"net/http"
	"net/url"

	"idish/internal/models"
)

type OrderService struct {
	client *Client
}

func NewOrderService(client *Client) *OrderService {
	return &OrderService{client: client}
}

type orderEnvelope struct {
	Order   models.Order `json:"order"`
	Message string       `json:"message,omitempty"`
}

type ordersEnvelope struct {
	Orders []models.Order `json:"orders"`
}

func (s *OrderService) Create(ctx context.Context, sess *models.Session, data models.CreateOrderData) (*models.Order, error) {
	var resp orderEnvelope
	err := s.client.Do(ctx, "/orders/create",
		RequestOptions{Method: http.MethodPost, Body: data, RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

// ByUser lists the calling customer's orders, optionally filtered by status.
func (s *OrderService) ByUser(ctx context.Context, sess *models.Session, status models.OrderStatus) ([]models.Order, error) {
	endpoint := "/orders/by-user"
	if status != "" {
		endpoint += "?status=" + url.QueryEscape(string(status))
	}
	var resp ordersEnvelope
	err := s.client.Do(ctx, endpoint, RequestOptions{RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// ByChef lists orders placed against the calling chef's dishes.
func (s *OrderService) ByChef(ctx context.Context, sess *models.Session) ([]models.Order, error) {
	var resp ordersEnvelope
	err := s.client.Do(ctx, "/orders/by-chef", RequestOptions{RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, sess *models.Session, id string, status models.OrderStatus) (*models.Order, error) {
	body := struct {
		Status models.OrderStatus `json:"status"`
	}{Status: status}
	var resp orderEnvelope
	err := s.client.Do(ctx, "/orders/status/"+id,
		RequestOptions{Method: http.MethodPut, Body: body, RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Order, nil
}
