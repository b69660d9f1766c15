package models

// CuisineTypes is the closed category list offered by dish forms. The backend
// treats cuisine as an open string, the gateway only submits values from here.
var CuisineTypes = []string{
	"Italian",
	"Mexican",
	"Chinese",
	"Indian",
	"Japanese",
	"Thai",
	"American",
	"French",
	"Mediterranean",
	"Middle Eastern",
	"Korean",
	"Vietnamese",
	"Greek",
	"Spanish",
	"Caribbean",
	"Other",
}

// DietaryTags is the filterable dietary tag vocabulary for browse views.
var DietaryTags = []string{
	"Vegetarian",
	"Vegan",
	"Gluten-Free",
	"Dairy-Free",
}

// WeekDays and DefaultTimeSlots populate hosting form choices.
var WeekDays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var DefaultTimeSlots = []string{
	"12:00", "14:00", "17:00", "19:00", "21:00",
}

func IsValidCuisine(cuisine string) bool {
	for _, c := range CuisineTypes {
		if c == cuisine {
			return true
		}
	}
	return false
}

const (
	// DefaultSessionTTL is how long an idle gateway session survives in the
	// session store, in seconds.
	DefaultSessionTTL = 24 * 60 * 60

	// PlaceholderImageURL substitutes for a real image when upload is not
	// configured.
	PlaceholderImageURL = "https://placehold.co/600x400?text=Image+Preview"

	// MaxImageSize bounds uploads at 5 MiB, checked before any network call.
	MaxImageSize = 5 * 1024 * 1024

	// LoginRateLimitRPS and LoginRateLimitBurst bound login/signup attempts
	// per client IP.
	LoginRateLimitRPS   = 1
	LoginRateLimitBurst = 5
)
