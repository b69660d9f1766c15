package web

import (
	"net/http"

	"idish/internal/events"
	"idish/internal/lifecycle"
	"idish/internal/models"
)

type ordersView struct {
	basePage
	Orders       []models.Order
	Statuses     []models.OrderStatus
	StatusFilter models.OrderStatus
}

var orderStatusFilters = []models.OrderStatus{
	models.OrderPending,
	models.OrderAccepted,
	models.OrderPreparing,
	models.OrderReady,
	models.OrderDelivered,
	models.OrderCancelled,
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())

	filter := models.OrderStatus(r.URL.Query().Get("status"))
	if !validOrderStatus(filter) {
		filter = ""
	}

	orders, err := s.orders.ByUser(r.Context(), &record.Session, filter)
	if err != nil {
		s.backendError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "orders.html", ordersView{
		basePage:     s.base(w, r, "My orders"),
		Orders:       orders,
		Statuses:     orderStatusFilters,
		StatusFilter: filter,
	})
}

// handleOrderCancel is the only transition a customer may drive: cancelling
// their own still-pending order.
func (s *Server) handleOrderCancel(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	id := r.PathValue("id")

	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Bad request", "Could not read the form.")
		return
	}

	from := models.OrderStatus(r.PostFormValue("from"))
	if err := lifecycle.CanTransitionOrder(from, models.OrderCancelled, lifecycle.ActorCustomer); err != nil {
		s.flashRedirect(w, r, "/orders", "This order can no longer be cancelled.")
		return
	}

	order, err := s.orders.UpdateStatus(r.Context(), &record.Session, id, models.OrderCancelled)
	if err != nil {
		s.backendError(w, r, err)
		return
	}

	_ = s.bus.PublishJSON(events.EventOrderStatusChange, events.StatusChangePayload{
		ResourceID: order.ID,
		UserID:     record.User.ID,
		Role:       record.User.Metadata.Role.String(),
		From:       string(from),
		To:         string(order.Status),
	})
	s.flashRedirect(w, r, "/orders", "Order cancelled.")
}

type bookingsView struct {
	basePage
	Bookings []models.Booking
}

func (s *Server) handleBookings(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())

	bookings, err := s.bookings.ByUser(r.Context(), &record.Session, "")
	if err != nil {
		s.backendError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "bookings.html", bookingsView{
		basePage: s.base(w, r, "My bookings"),
		Bookings: bookings,
	})
}

func (s *Server) handleBookingCancel(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	id := r.PathValue("id")

	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Bad request", "Could not read the form.")
		return
	}

	from := models.BookingStatus(r.PostFormValue("from"))
	if err := lifecycle.CanTransitionBooking(from, models.BookingCancelled, lifecycle.ActorCustomer); err != nil {
		s.flashRedirect(w, r, "/bookings", "This booking can no longer be cancelled.")
		return
	}

	booking, err := s.bookings.UpdateStatus(r.Context(), &record.Session, id, models.BookingCancelled)
	if err != nil {
		s.backendError(w, r, err)
		return
	}

	_ = s.bus.PublishJSON(events.EventBookingStatusChange, events.StatusChangePayload{
		ResourceID: booking.ID,
		UserID:     record.User.ID,
		Role:       record.User.Metadata.Role.String(),
		From:       string(from),
		To:         string(booking.Status),
	})
	s.flashRedirect(w, r, "/bookings", "Booking cancelled.")
}

func validOrderStatus(status models.OrderStatus) bool {
	for _, s := range orderStatusFilters {
		if s == status {
			return true
		}
	}
	return false
}
