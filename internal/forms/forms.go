// Package forms validates user input before anything reaches the backend.
// Each form mirrors one create/edit surface; validation failures come back as
// per-field messages for inline rendering and block submission entirely.
package forms

import (
	"fmt"

	"idish/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("cuisine", func(fl validator.FieldLevel) bool {
		return models.IsValidCuisine(fl.Field().String())
	})
	v.RegisterStructValidation(bookingStructLevel, BookingForm{})
	return v
}

type DishForm struct {
	Title       string   `validate:"required,min=3"`
	Description string   `validate:"required,min=10"`
	Price       float64  `validate:"required,gt=0"`
	ImageURL    string   `validate:"omitempty,url"`
	CuisineType string   `validate:"required,cuisine"`
	DietaryTags []string `validate:"-"`
	Available   bool     `validate:"-"`
}

type HostingForm struct {
	Title         string   `validate:"required,min=3"`
	Description   string   `validate:"omitempty,min=10"`
	Location      string   `validate:"required,min=5"`
	AvailableDays []string `validate:"required,min=1"`
	TimeSlots     []string `validate:"required,min=1"`
	MaxGuests     int64    `validate:"required,gte=1"`
	PricePerGuest float64  `validate:"required,gt=0"`
	ImageURL      string   `validate:"omitempty,url"`
	Available     bool     `validate:"-"`
}

type OrderForm struct {
	Quantity            int64  `validate:"required,gte=1"`
	DeliveryAddress     string `validate:"required,min=10"`
	SpecialInstructions string `validate:"-"`
}

// BookingForm carries MaxGuests from the hosting being booked so the seat
// bound can be enforced at the struct level.
type BookingForm struct {
	Date            string `validate:"required"`
	TimeSlot        string `validate:"required"`
	Seats           int64  `validate:"required,gte=1"`
	MaxGuests       int64  `validate:"-"`
	SpecialRequests string `validate:"-"`
}

type SignupForm struct {
	Email    string      `validate:"required,email"`
	Password string      `validate:"required,min=8"`
	Role     models.Role `validate:"required,oneof=chef customer"`
}

type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func bookingStructLevel(sl validator.StructLevel) {
	form := sl.Current().Interface().(BookingForm)
	if form.MaxGuests > 0 && form.Seats > form.MaxGuests {
		sl.ReportError(form.Seats, "Seats", "Seats", "seatcap", "")
	}
}

// Validate checks a form and returns per-field messages, or nil when the form
// is valid.
func Validate(form any) map[string]string {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"": err.Error()}
	}

	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Field()] = message(fe)
	}
	return fields
}

// message renders a validator error the way the forms word them.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("Select at least %s", fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be positive", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "url":
		return "Must be a valid URL"
	case "cuisine":
		return "Please select a cuisine type"
	case "email":
		return "Must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "seatcap":
		return "Seats cannot exceed the hosting's maximum guests"
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
