package models

import "time"

type Dish struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	CuisineType string    `json:"cuisine_type"`
	DietaryTags []string  `json:"dietary_tags,omitempty"`
	ChefID      string    `json:"chef_id"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasDietaryTag reports membership in the dish's dietary tag set.
func (d *Dish) HasDietaryTag(tag string) bool {
	for _, t := range d.DietaryTags {
		if t == tag {
			return true
		}
	}
	return false
}
