package idish

import (
	"context"
	"net/http"

	"idish/internal/models"
)

// AuthService covers /auth/* endpoints. Logout is purely local (the session
// store forgets the record), so it does not appear here.
type AuthService struct {
	client *Client
}

func NewAuthService(client *Client) *AuthService {
	return &AuthService{client: client}
}

// SignupData is the signup request body. The chef profile fields are only
// submitted when Role is chef.
type SignupData struct {
	Email        string      `json:"email"`
	Password     string      `json:"password"`
	Role         models.Role `json:"role"`
	Name         string      `json:"name,omitempty"`
	Phone        string      `json:"phone,omitempty"`
	Location     string      `json:"location,omitempty"`
	About        string      `json:"about,omitempty"`
	Experience   string      `json:"experience,omitempty"`
	ProfileImage string      `json:"profile_image,omitempty"`
}

type AuthResponse struct {
	User    models.User     `json:"user"`
	Session *models.Session `json:"session,omitempty"`
	Message string          `json:"message,omitempty"`
}

type ProfileResponse struct {
	User        models.User         `json:"user"`
	ChefProfile *models.ChefProfile `json:"chef_profile,omitempty"`
}

func (s *AuthService) Signup(ctx context.Context, data SignupData) (*AuthResponse, error) {
	if data.Role != models.RoleChef {
		data.Name, data.Phone, data.Location = "", "", ""
		data.About, data.Experience, data.ProfileImage = "", "", ""
	}
	var resp AuthResponse
	err := s.client.Do(ctx, "/auth/signup", RequestOptions{Method: http.MethodPost, Body: data}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp AuthResponse
	err := s.client.Do(ctx, "/auth/login", RequestOptions{Method: http.MethodPost, Body: body}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the caller's user record plus the chef profile when the
// caller is a chef.
func (s *AuthService) Profile(ctx context.Context, sess *models.Session) (*ProfileResponse, error) {
	var resp ProfileResponse
	err := s.client.Do(ctx, "/auth/profile", RequestOptions{RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserService covers /users/:id.
type UserService struct {
	client *Client
}

func NewUserService(client *Client) *UserService {
	return &UserService{client: client}
}

func (s *UserService) Get(ctx context.Context, sess *models.Session, id string) (*models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	err := s.client.Do(ctx, "/users/"+id, RequestOptions{RequiresAuth: true, Token: token(sess)}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}
