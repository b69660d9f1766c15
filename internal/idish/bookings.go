package idish

import (
	"context"
	"net/http"
	"net/url"

	"idish/internal/models"
)

type BookingService struct {
	client *Client
}

func NewBookingService(client *Client) *BookingService {
	return &BookingService{client: client}
}

type bookingEnvelope struct {
	Booking models.Booking `json:"booking"`
	Message string         `json:"message,omitempty"`
}

type bookingsEnvelope struct {
	Bookings []models.Booking `json:"bookings"`
}

func (s *BookingService) Create(ctx context.Context, sess *models.Session, data models.CreateBookingData) (*models.Booking, error) {
	var resp bookingEnvelope
	err := s.client.Do(ctx, "/bookings/create",
		RequestOptions{Method: http.MethodPost, Body: data, RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Booking, nil
}

func (s *BookingService) ByUser(ctx context.Context, sess *models.Session, status models.BookingStatus) ([]models.Booking, error) {
	endpoint := "/bookings/by-user"
	if status != "" {
		endpoint += "?status=" + url.QueryEscape(string(status))
	}
	var resp bookingsEnvelope
	err := s.client.Do(ctx, endpoint, RequestOptions{RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

// ByChef lists bookings made against the calling chef's hostings.
func (s *BookingService) ByChef(ctx context.Context, sess *models.Session) ([]models.Booking, error) {
	var resp bookingsEnvelope
	err := s.client.Do(ctx, "/bookings/by-chef", RequestOptions{RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

func (s *BookingService) UpdateStatus(ctx context.Context, sess *models.Session, id string, status models.BookingStatus) (*models.Booking, error) {
	body := struct {
		Status models.BookingStatus `json:"status"`
	}{Status: status}
	var resp bookingEnvelope
	err := s.client.Do(ctx, "/bookings/status/"+id,
		RequestOptions{Method: http.MethodPut, Body: body, RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Booking, nil
}
