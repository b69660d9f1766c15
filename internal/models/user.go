package models

// Role is the closed set of account roles. It is assigned at signup and never
// changes afterwards; every authorization decision switches on it exhaustively.
type Role string

const (
	RoleChef     Role = "chef"
	RoleCustomer Role = "customer"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleChef, RoleCustomer:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// UserMetadata mirrors the backend's user_metadata payload. Profile fields are
// free-form and only populated for chefs in practice.
type UserMetadata struct {
	Role         Role   `json:"role"`
	Name         string `json:"name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Location     string `json:"location,omitempty"`
	About        string `json:"about,omitempty"`
	Experience   string `json:"experience,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
}

type User struct {
	ID       string       `json:"id"`
	Email    string       `json:"email"`
	Metadata UserMetadata `json:"user_metadata"`
}

func (u *User) IsChef() bool {
	return u != nil && u.Metadata.Role == RoleChef
}

func (u *User) IsCustomer() bool {
	return u != nil && u.Metadata.Role == RoleCustomer
}

// DisplayName falls back to the email when the profile has no name.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Metadata.Name != "" {
		return u.Metadata.Name
	}
	return u.Email
}

// ChefProfile is the public profile shown on a chef's page. A copy is cached in
// the session record after the first /auth/profile fetch.
type ChefProfile struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Location         string  `json:"location"`
	About            string  `json:"about"`
	Experience       string  `json:"experience"`
	ImageURL         string  `json:"image_url"`
	Phone            string  `json:"phone"`
	CuisineSpecialty string  `json:"cuisine_specialty,omitempty"`
	Rating           float64 `json:"rating,omitempty"`
	ReviewCount      int64   `json:"review_count,omitempty"`
}
