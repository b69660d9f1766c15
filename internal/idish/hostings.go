package idish

import (
	"context"
	"net/http"

	"idish/internal/models"
)

type HostingService struct {
	client *Client
}

func NewHostingService(client *Client) *HostingService {
	return &HostingService{client: client}
}

type HostingInput struct {
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Location      string   `json:"location"`
	AvailableDays []string `json:"available_days"`
	TimeSlots     []string `json:"time_slots"`
	MaxGuests     int64    `json:"max_guests"`
	PricePerGuest float64  `json:"price_per_guest"`
	ImageURL      string   `json:"image_url,omitempty"`
	Available     bool     `json:"available"`
}

type hostingEnvelope struct {
	Hosting models.Hosting `json:"hosting"`
}

type hostingsEnvelope struct {
	Hostings []models.Hosting `json:"hostings"`
}

func (s *HostingService) All(ctx context.Context, sess *models.Session) ([]models.Hosting, error) {
	var resp hostingsEnvelope
	err := s.client.Do(ctx, "/hosting/all", RequestOptions{RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Hostings, nil
}

func (s *HostingService) ByChef(ctx context.Context, sess *models.Session) ([]models.Hosting, error) {
	var resp hostingsEnvelope
	err := s.client.Do(ctx, "/hosting/by-chef", RequestOptions{RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Hostings, nil
}

func (s *HostingService) Get(ctx context.Context, sess *models.Session, id string) (*models.Hosting, error) {
	var resp hostingEnvelope
	err := s.client.Do(ctx, "/hosting/"+id, RequestOptions{RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Hosting, nil
}

func (s *HostingService) Create(ctx context.Context, sess *models.Session, input HostingInput) (*models.Hosting, error) {
	var resp hostingEnvelope
	err := s.client.Do(ctx, "/hosting/create",
		RequestOptions{Method: http.MethodPost, Body: input, RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Hosting, nil
}

func (s *HostingService) Update(ctx context.Context, sess *models.Session, id string, input HostingInput) (*models.Hosting, error) {
	var resp hostingEnvelope
	err := s.client.Do(ctx, "/hosting/edit/"+id,
		RequestOptions{Method: http.MethodPut, Body: input, RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Hosting, nil
}

func (s *HostingService) SetAvailability(ctx context.Context, sess *models.Session, id string, available bool) (*models.Hosting, error) {
	body := struct {
		Available bool `json:"available"`
	}{Available: available}
	var resp hostingEnvelope
	err := s.client.Do(ctx, "/hosting/edit/"+id,
		RequestOptions{Method: http.MethodPut, Body: body, RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Hosting, nil
}

func (s *HostingService) Delete(ctx context.Context, sess *models.Session, id string) error {
	return s.client.Do(ctx, "/hosting/delete/"+id,
		RequestOptions{Method: http.MethodDelete, RequiresAuth: true, Token: token(sess)}, nil)
}
