package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// BookingHostingSummary is the hosting snapshot embedded in booking payloads.
type BookingHostingSummary struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	ImageURL string `json:"image_url,omitempty"`
}

type Booking struct {
	ID              string                 `json:"id"`
	CustomerID      string                 `json:"customer_id"`
	ChefID          string                 `json:"chef_id"`
	HostingID       string                 `json:"hosting_id"`
	NumberOfGuests  int64                  `json:"number_of_guests"`
	TotalPrice      float64                `json:"total_price"`
	Status          BookingStatus          `json:"status"`
	Date            string                 `json:"date"`
	TimeSlot        string                 `json:"time_slot"`
	SpecialRequests string                 `json:"special_requests,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Hosting         *BookingHostingSummary `json:"hosting,omitempty"`
}

// CreateBookingData is the booking-creation request body. The backend derives
// customer and chef references from the token and the hosting.
type CreateBookingData struct {
	HostingID       string `json:"hosting_id"`
	Seats           int64  `json:"seats"`
	BookingDate     string `json:"booking_date"`
	TimeSlot        string `json:"time_slot"`
	SpecialRequests string `json:"special_requests,omitempty"`
}
