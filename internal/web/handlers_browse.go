package web

import (
	"net/http"
	"strconv"
	"strings"

	"idish/internal/events"
	"idish/internal/forms"
	"idish/internal/idish"
	"idish/internal/listing"
	"idish/internal/models"
)

type dishesView struct {
	basePage
	Dishes      []models.Dish
	Query       listing.DishQuery
	Cuisines    []string
	DietaryTags []string
	SortOptions []struct {
		Value listing.Sort
		Label string
	}
}

func (s *Server) handleDishes(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	dishes, err := s.dishes.All(r.Context(), &record.Session)
	if err != nil {
		s.backendError(w, r, err)
		return
	}

	query := listing.DishQuery{
		Search:  r.URL.Query().Get("q"),
		Cuisine: r.URL.Query().Get("cuisine"),
		Dietary: r.URL.Query().Get("dietary"),
		Sort:    listing.ParseSort(r.URL.Query().Get("sort")),
	}

	s.render(w, r, http.StatusOK, "dishes.html", dishesView{
		basePage:    s.base(w, r, "Browse dishes"),
		Dishes:      listing.FilterDishes(dishes, query),
		Query:       query,
		Cuisines:    models.CuisineTypes,
		DietaryTags: models.DietaryTags,
		SortOptions: listing.SortOptions,
	})
}

type dishDetailView struct {
	basePage
	Dish   models.Dish
	Form   forms.OrderForm
	Errors map[string]string
	Error  string
}

func (s *Server) handleDishDetail(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	dish, err := s.dishes.Get(r.Context(), &record.Session, r.PathValue("id"))
	if err != nil {
		s.backendError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "dish_detail.html", dishDetailView{
		basePage: s.base(w, r, dish.Title),
		Dish:     *dish,
	})
}

type chefPageView struct {
	basePage
	Chef   *models.User
	Dishes []models.Dish
}

// handleChefPage shows a chef's public profile alongside their available
// dishes.
func (s *Server) handleChefPage(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	id := r.PathValue("id")

	chef, err := s.users.Get(r.Context(), &record.Session, id)
	if err != nil {
		s.backendError(w, r, err)
		return
	}

	all, err := s.dishes.All(r.Context(), &record.Session)
	if err != nil {
		s.backendError(w, r, err)
		return
	}
	var dishes []models.Dish
	for _, dish := range all {
		if dish.ChefID == id && dish.Available {
			dishes = append(dishes, dish)
		}
	}

	s.render(w, r, http.StatusOK, "chef.html", chefPageView{
		basePage: s.base(w, r, chef.DisplayName()),
		Chef:     chef,
		Dishes:   dishes,
	})
}

func (s *Server) handleOrderCreate(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	id := r.PathValue("id")

	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Bad request", "Could not read the form.")
		return
	}

	quantity, _ := strconv.ParseInt(r.PostFormValue("quantity"), 10, 64)
	form := forms.OrderForm{
		Quantity:            quantity,
		DeliveryAddress:     strings.TrimSpace(r.PostFormValue("delivery_address")),
		SpecialInstructions: strings.TrimSpace(r.PostFormValue("special_instructions")),
	}

	if fields := forms.Validate(form); fields != nil {
		dish, err := s.dishes.Get(r.Context(), &record.Session, id)
		if err != nil {
			s.backendError(w, r, err)
			return
		}
		s.render(w, r, http.StatusUnprocessableEntity, "dish_detail.html", dishDetailView{
			basePage: s.base(w, r, dish.Title),
			Dish:     *dish,
			Form:     form,
			Errors:   fields,
		})
		return
	}

	order, err := s.orders.Create(r.Context(), &record.Session, models.CreateOrderData{
		DishID:              id,
		Quantity:            form.Quantity,
		DeliveryAddress:     form.DeliveryAddress,
		SpecialInstructions: form.SpecialInstructions,
	})
	if err != nil {
		s.backendError(w, r, err)
		return
	}

	_ = s.bus.PublishJSON(events.EventOrderPlaced, events.StatusChangePayload{
		ResourceID: order.ID,
		UserID:     record.User.ID,
		Role:       record.User.Metadata.Role.String(),
		To:         string(order.Status),
	})
	s.flashRedirect(w, r, "/orders", "Order placed!")
}

type hostingsView struct {
	basePage
	Hostings    []models.Hosting
	Query       listing.HostingQuery
	SortOptions []struct {
		Value listing.Sort
		Label string
	}
}

func (s *Server) handleHostings(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	hostings, err := s.hostings.All(r.Context(), &record.Session)
	if err != nil {
		s.backendError(w, r, err)
		return
	}

	query := listing.HostingQuery{
		Search: r.URL.Query().Get("q"),
		Sort:   listing.ParseSort(r.URL.Query().Get("sort")),
	}

	s.render(w, r, http.StatusOK, "hostings.html", hostingsView{
		basePage:    s.base(w, r, "Browse hostings"),
		Hostings:    listing.FilterHostings(hostings, query),
		Query:       query,
		SortOptions: listing.SortOptions,
	})
}

type hostingDetailView struct {
	basePage
	Hosting models.Hosting
	Form    forms.BookingForm
	Errors  map[string]string
	Error   string
}

func (s *Server) handleHostingDetail(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	hosting, err := s.hostings.Get(r.Context(), &record.Session, r.PathValue("id"))
	if err != nil {
		s.backendError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "hosting_detail.html", hostingDetailView{
		basePage: s.base(w, r, hosting.Title),
		Hosting:  *hosting,
	})
}

func (s *Server) handleBookingCreate(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	id := r.PathValue("id")

	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Bad request", "Could not read the form.")
		return
	}

	// The hosting is fetched up front: its MaxGuests bounds the seat count.
	hosting, err := s.hostings.Get(r.Context(), &record.Session, id)
	if err != nil {
		s.backendError(w, r, err)
		return
	}

	seats, _ := strconv.ParseInt(r.PostFormValue("seats"), 10, 64)
	form := forms.BookingForm{
		Date:            strings.TrimSpace(r.PostFormValue("date")),
		TimeSlot:        strings.TrimSpace(r.PostFormValue("time_slot")),
		Seats:           seats,
		MaxGuests:       hosting.MaxGuests,
		SpecialRequests: strings.TrimSpace(r.PostFormValue("special_requests")),
	}

	if fields := forms.Validate(form); fields != nil {
		s.render(w, r, http.StatusUnprocessableEntity, "hosting_detail.html", hostingDetailView{
			basePage: s.base(w, r, hosting.Title),
			Hosting:  *hosting,
			Form:     form,
			Errors:   fields,
		})
		return
	}

	booking, err := s.bookings.Create(r.Context(), &record.Session, models.CreateBookingData{
		HostingID:       id,
		Seats:           form.Seats,
		BookingDate:     form.Date,
		TimeSlot:        form.TimeSlot,
		SpecialRequests: form.SpecialRequests,
	})
	if err != nil {
		if apiErr, ok := idish.AsAPIError(err); ok {
			s.render(w, r, apiErr.StatusCode, "hosting_detail.html", hostingDetailView{
				basePage: s.base(w, r, hosting.Title),
				Hosting:  *hosting,
				Form:     form,
				Error:    apiErr.Message,
			})
			return
		}
		s.backendError(w, r, err)
		return
	}

	_ = s.bus.PublishJSON(events.EventBookingPlaced, events.StatusChangePayload{
		ResourceID: booking.ID,
		UserID:     record.User.ID,
		Role:       record.User.Metadata.Role.String(),
		To:         string(booking.Status),
	})
	s.flashRedirect(w, r, "/bookings", "Booking requested!")
}
