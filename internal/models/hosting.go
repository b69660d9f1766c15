package models

import "time"

// Hosting is a chef-hosted dining event bookable by seat count.
type Hosting struct {
	ID            string    `json:"id"`
	ChefID        string    `json:"chef_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Location      string    `json:"location"`
	AvailableDays []string  `json:"available_days"`
	TimeSlots     []string  `json:"time_slots"`
	MaxGuests     int64     `json:"max_guests"`
	PricePerGuest float64   `json:"price_per_guest"`
	ImageURL      string    `json:"image_url,omitempty"`
	Available     bool      `json:"available"`
	CreatedAt     time.Time `json:"created_at"`
}

// HasTimeSlot reports whether the hosting offers the given slot.
func (h *Hosting) HasTimeSlot(slot string) bool {
	for _, s := range h.TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}
