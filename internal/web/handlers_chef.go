package web

import (
	"net/http"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"idish/internal/events"
	"idish/internal/forms"
	"idish/internal/idish"
	"idish/internal/lifecycle"
	"idish/internal/models"
)

type orderRow struct {
	Order models.Order
	Next  []models.OrderStatus
}

type bookingRow struct {
	Booking models.Booking
	Next    []models.BookingStatus
}

type dashboardView struct {
	basePage
	Dishes   []models.Dish
	Hostings []models.Hosting
	Orders   []orderRow
	Bookings []bookingRow
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	sess := &record.Session

	dishes, err := s.dishes.ByChef(r.Context(), sess)
	if err != nil {
		s.backendError(w, r, err)
		return
	}
	hostings, err := s.hostings.ByChef(r.Context(), sess)
	if err != nil {
		s.backendError(w, r, err)
		return
	}
	orders, err := s.orders.ByChef(r.Context(), sess)
	if err != nil {
		s.backendError(w, r, err)
		return
	}
	bookings, err := s.bookings.ByChef(r.Context(), sess)
	if err != nil {
		s.backendError(w, r, err)
		return
	}

	orderRows := make([]orderRow, 0, len(orders))
	for _, order := range orders {
		orderRows = append(orderRows, orderRow{
			Order: order,
			Next:  lifecycle.NextOrderStatuses(order.Status, lifecycle.ActorChef),
		})
	}
	bookingRows := make([]bookingRow, 0, len(bookings))
	for _, booking := range bookings {
		bookingRows = append(bookingRows, bookingRow{
			Booking: booking,
			Next:    lifecycle.NextBookingStatuses(booking.Status, lifecycle.ActorChef),
		})
	}

	s.render(w, r, http.StatusOK, "chef_dashboard.html", dashboardView{
		basePage: s.base(w, r, "Chef dashboard"),
		Dishes:   dishes,
		Hostings: hostings,
		Orders:   orderRows,
		Bookings: bookingRows,
	})
}

type dishFormView struct {
	basePage
	Heading     string
	Action      string
	Form        forms.DishForm
	Errors      map[string]string
	Error       string
	UploadError string
	Cuisines    []string
	DietaryTags []string
}

func (v dishFormView) Checked(tag string) bool {
	return slices.Contains(v.Form.DietaryTags, tag)
}

func (s *Server) newDishFormView(w http.ResponseWriter, r *http.Request, heading, action string, form forms.DishForm) dishFormView {
	return dishFormView{
		basePage:    s.base(w, r, heading),
		Heading:     heading,
		Action:      action,
		Form:        form,
		Cuisines:    models.CuisineTypes,
		DietaryTags: models.DietaryTags,
	}
}

func (s *Server) handleDishNew(w http.ResponseWriter, r *http.Request) {
	form := forms.DishForm{CuisineType: models.CuisineTypes[0], Available: true}
	s.render(w, r, http.StatusOK, "dish_form.html",
		s.newDishFormView(w, r, "Add dish", "/chef/dishes/new", form))
}

func (s *Server) handleDishCreate(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())

	form, uploadErr, err := s.parseDishForm(r)
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Bad request", "Could not read the form.")
		return
	}

	view := s.newDishFormView(w, r, "Add dish", "/chef/dishes/new", form)
	if uploadErr != nil {
		view.UploadError = uploadErr.Error()
		s.render(w, r, http.StatusUnprocessableEntity, "dish_form.html", view)
		return
	}
	if fields := forms.Validate(form); fields != nil {
		view.Errors = fields
		s.render(w, r, http.StatusUnprocessableEntity, "dish_form.html", view)
		return
	}

	if form.ImageURL == "" {
		form.ImageURL = models.PlaceholderImageURL
	}

	dish, err := s.dishes.Add(r.Context(), &record.Session, dishInput(form))
	if err != nil {
		if apiErr, ok := idish.AsAPIError(err); ok {
			view.Error = apiErr.Message
			s.render(w, r, apiErr.StatusCode, "dish_form.html", view)
			return
		}
		s.backendError(w, r, err)
		return
	}

	_ = s.bus.PublishJSON(events.EventDishCreated, events.StatusChangePayload{
		ResourceID: dish.ID,
		UserID:     record.User.ID,
		Role:       record.User.Metadata.Role.String(),
	})
	s.flashRedirect(w, r, "/chef/dashboard", "Dish created.")
}

func (s *Server) handleDishEditPage(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	id := r.PathValue("id")

	dish, err := s.dishes.Get(r.Context(), &record.Session, id)
	if err != nil {
		s.backendError(w, r, err)
		return
	}

	form := forms.DishForm{
		Title:       dish.Title,
		Description: dish.Description,
		Price:       dish.Price,
		ImageURL:    dish.ImageURL,
		CuisineType: dish.CuisineType,
		DietaryTags: dish.DietaryTags,
		Available:   dish.Available,
	}
	s.render(w, r, http.StatusOK, "dish_form.html",
		s.newDishFormView(w, r, "Edit dish", "/chef/dishes/"+id+"/edit", form))
}

func (s *Server) handleDishEdit(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	id := r.PathValue("id")

	form, uploadErr, err := s.parseDishForm(r)
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Bad request", "Could not read the form.")
		return
	}

	view := s.newDishFormView(w, r, "Edit dish", "/chef/dishes/"+id+"/edit", form)
	if uploadErr != nil {
		view.UploadError = uploadErr.Error()
		s.render(w, r, http.StatusUnprocessableEntity, "dish_form.html", view)
		return
	}

	// No new image keeps the one already on record.
	if form.ImageURL == "" {
		current, err := s.dishes.Get(r.Context(), &record.Session, id)
		if err != nil {
			s.backendError(w, r, err)
			return
		}
		form.ImageURL = current.ImageURL
		view.Form = form
	}

	if fields := forms.Validate(form); fields != nil {
		view.Errors = fields
		s.render(w, r, http.StatusUnprocessableEntity, "dish_form.html", view)
		return
	}

	if _, err := s.dishes.Update(r.Context(), &record.Session, id, dishInput(form)); err != nil {
		s.backendError(w, r, err)
		return
	}
	s.flashRedirect(w, r, "/chef/dashboard", "Dish updated.")
}

func (s *Server) handleDishToggle(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	available := r.PostFormValue("available") == "true"

	dish, err := s.dishes.SetAvailability(r.Context(), &record.Session, r.PathValue("id"), available)
	if err != nil {
		s.backendError(w, r, err)
		return
	}

	message := "Dish marked unavailable."
	if dish.Available {
		message = "Dish marked available."
	}
	s.flashRedirect(w, r, "/chef/dashboard", message)
}

func (s *Server) handleDishDelete(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	if err := s.dishes.Delete(r.Context(), &record.Session, r.PathValue("id")); err != nil {
		s.backendError(w, r, err)
		return
	}
	s.flashRedirect(w, r, "/chef/dashboard", "Dish deleted.")
}

// parseDishForm reads the multipart dish form, uploading the attached image
// when one was provided. The upload error is reported separately so the form
// can re-render with the user's input intact.
func (s *Server) parseDishForm(r *http.Request) (forms.DishForm, error, error) {
	if err := r.ParseMultipartForm(models.MaxImageSize + 1<<20); err != nil {
		return forms.DishForm{}, nil, err
	}

	price, _ := strconv.ParseFloat(r.PostFormValue("price"), 64)
	form := forms.DishForm{
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Price:       price,
		CuisineType: r.PostFormValue("cuisine_type"),
		DietaryTags: r.PostForm["dietary_tags"],
		Available:   r.PostFormValue("available") == "true",
	}

	imageURL, uploadErr := s.uploadFormImage(r, "image")
	form.ImageURL = imageURL
	return form, uploadErr, nil
}

func dishInput(form forms.DishForm) idish.DishInput {
	return idish.DishInput{
		Title:       form.Title,
		Description: form.Description,
		Price:       form.Price,
		ImageURL:    form.ImageURL,
		CuisineType: form.CuisineType,
		DietaryTags: form.DietaryTags,
		Available:   form.Available,
	}
}

type hostingFormView struct {
	basePage
	Heading     string
	Action      string
	Form        forms.HostingForm
	Errors      map[string]string
	Error       string
	UploadError string
	WeekDays    []string
	TimeSlots   []string
}

func (v hostingFormView) DayChecked(day string) bool {
	return slices.Contains(v.Form.AvailableDays, day)
}

func (v hostingFormView) SlotChecked(slot string) bool {
	return slices.Contains(v.Form.TimeSlots, slot)
}

func (s *Server) newHostingFormView(w http.ResponseWriter, r *http.Request, heading, action string, form forms.HostingForm) hostingFormView {
	return hostingFormView{
		basePage:  s.base(w, r, heading),
		Heading:   heading,
		Action:    action,
		Form:      form,
		WeekDays:  models.WeekDays,
		TimeSlots: models.DefaultTimeSlots,
	}
}

func (s *Server) handleHostingNew(w http.ResponseWriter, r *http.Request) {
	form := forms.HostingForm{MaxGuests: 4, Available: true}
	s.render(w, r, http.StatusOK, "hosting_form.html",
		s.newHostingFormView(w, r, "Add hosting", "/chef/hostings/new", form))
}

func (s *Server) handleHostingCreate(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())

	form, uploadErr, err := s.parseHostingForm(r)
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Bad request", "Could not read the form.")
		return
	}

	view := s.newHostingFormView(w, r, "Add hosting", "/chef/hostings/new", form)
	if uploadErr != nil {
		view.UploadError = uploadErr.Error()
		s.render(w, r, http.StatusUnprocessableEntity, "hosting_form.html", view)
		return
	}
	if fields := forms.Validate(form); fields != nil {
		view.Errors = fields
		s.render(w, r, http.StatusUnprocessableEntity, "hosting_form.html", view)
		return
	}

	hosting, err := s.hostings.Create(r.Context(), &record.Session, hostingInput(form))
	if err != nil {
		if apiErr, ok := idish.AsAPIError(err); ok {
			view.Error = apiErr.Message
			s.render(w, r, apiErr.StatusCode, "hosting_form.html", view)
			return
		}
		s.backendError(w, r, err)
		return
	}

	_ = s.bus.PublishJSON(events.EventHostingCreated, events.StatusChangePayload{
		ResourceID: hosting.ID,
		UserID:     record.User.ID,
		Role:       record.User.Metadata.Role.String(),
	})
	s.flashRedirect(w, r, "/chef/dashboard", "Hosting created.")
}

func (s *Server) handleHostingEditPage(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	id := r.PathValue("id")

	hosting, err := s.hostings.Get(r.Context(), &record.Session, id)
	if err != nil {
		s.backendError(w, r, err)
		return
	}

	form := forms.HostingForm{
		Title:         hosting.Title,
		Description:   hosting.Description,
		Location:      hosting.Location,
		AvailableDays: hosting.AvailableDays,
		TimeSlots:     hosting.TimeSlots,
		MaxGuests:     hosting.MaxGuests,
		PricePerGuest: hosting.PricePerGuest,
		ImageURL:      hosting.ImageURL,
		Available:     hosting.Available,
	}
	s.render(w, r, http.StatusOK, "hosting_form.html",
		s.newHostingFormView(w, r, "Edit hosting", "/chef/hostings/"+id+"/edit", form))
}

func (s *Server) handleHostingEdit(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	id := r.PathValue("id")

	form, uploadErr, err := s.parseHostingForm(r)
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Bad request", "Could not read the form.")
		return
	}

	view := s.newHostingFormView(w, r, "Edit hosting", "/chef/hostings/"+id+"/edit", form)
	if uploadErr != nil {
		view.UploadError = uploadErr.Error()
		s.render(w, r, http.StatusUnprocessableEntity, "hosting_form.html", view)
		return
	}

	if form.ImageURL == "" {
		current, err := s.hostings.Get(r.Context(), &record.Session, id)
		if err != nil {
			s.backendError(w, r, err)
			return
		}
		form.ImageURL = current.ImageURL
		view.Form = form
	}

	if fields := forms.Validate(form); fields != nil {
		view.Errors = fields
		s.render(w, r, http.StatusUnprocessableEntity, "hosting_form.html", view)
		return
	}

	if _, err := s.hostings.Update(r.Context(), &record.Session, id, hostingInput(form)); err != nil {
		s.backendError(w, r, err)
		return
	}
	s.flashRedirect(w, r, "/chef/dashboard", "Hosting updated.")
}

func (s *Server) handleHostingToggle(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	available := r.PostFormValue("available") == "true"

	hosting, err := s.hostings.SetAvailability(r.Context(), &record.Session, r.PathValue("id"), available)
	if err != nil {
		s.backendError(w, r, err)
		return
	}

	message := "Hosting marked unavailable."
	if hosting.Available {
		message = "Hosting marked available."
	}
	s.flashRedirect(w, r, "/chef/dashboard", message)
}

func (s *Server) handleHostingDelete(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	if err := s.hostings.Delete(r.Context(), &record.Session, r.PathValue("id")); err != nil {
		s.backendError(w, r, err)
		return
	}
	s.flashRedirect(w, r, "/chef/dashboard", "Hosting deleted.")
}

func (s *Server) parseHostingForm(r *http.Request) (forms.HostingForm, error, error) {
	if err := r.ParseMultipartForm(models.MaxImageSize + 1<<20); err != nil {
		return forms.HostingForm{}, nil, err
	}

	maxGuests, _ := strconv.ParseInt(r.PostFormValue("max_guests"), 10, 64)
	price, _ := strconv.ParseFloat(r.PostFormValue("price_per_guest"), 64)
	form := forms.HostingForm{
		Title:         strings.TrimSpace(r.PostFormValue("title")),
		Description:   strings.TrimSpace(r.PostFormValue("description")),
		Location:      strings.TrimSpace(r.PostFormValue("location")),
		AvailableDays: r.PostForm["available_days"],
		TimeSlots:     r.PostForm["time_slots"],
		MaxGuests:     maxGuests,
		PricePerGuest: price,
		Available:     r.PostFormValue("available") == "true",
	}

	imageURL, uploadErr := s.uploadFormImage(r, "image")
	form.ImageURL = imageURL
	return form, uploadErr, nil
}

func hostingInput(form forms.HostingForm) idish.HostingInput {
	return idish.HostingInput{
		Title:         form.Title,
		Description:   form.Description,
		Location:      form.Location,
		AvailableDays: form.AvailableDays,
		TimeSlots:     form.TimeSlots,
		MaxGuests:     form.MaxGuests,
		PricePerGuest: form.PricePerGuest,
		ImageURL:      form.ImageURL,
		Available:     form.Available,
	}
}

// handleOrderStatus moves an order along the chef's lifecycle. The form
// carries the status the chef saw; a stale page produces a friendly refusal
// rather than an illegal jump.
func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	id := r.PathValue("id")

	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Bad request", "Could not read the form.")
		return
	}

	from := models.OrderStatus(r.PostFormValue("from"))
	to := models.OrderStatus(r.PostFormValue("to"))
	if err := lifecycle.CanTransitionOrder(from, to, lifecycle.ActorChef); err != nil {
		s.flashRedirect(w, r, "/chef/dashboard", err.Error())
		return
	}

	order, err := s.orders.UpdateStatus(r.Context(), &record.Session, id, to)
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
	s.flashRedirect(w, r, "/chef/dashboard", "Order moved to "+string(order.Status)+".")
}

func (s *Server) handleBookingStatus(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	id := r.PathValue("id")

	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Bad request", "Could not read the form.")
		return
	}

	from := models.BookingStatus(r.PostFormValue("from"))
	to := models.BookingStatus(r.PostFormValue("to"))
	if err := lifecycle.CanTransitionBooking(from, to, lifecycle.ActorChef); err != nil {
		s.flashRedirect(w, r, "/chef/dashboard", err.Error())
		return
	}

	booking, err := s.bookings.UpdateStatus(r.Context(), &record.Session, id, to)
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
	s.flashRedirect(w, r, "/chef/dashboard", "Booking moved to "+string(booking.Status)+".")
}

type profileView struct {
	basePage
	Profile *models.ChefProfile
	Expiry  any
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())

	profile := record.ChefProfile
	if profile == nil {
		resp, err := s.auth.Profile(r.Context(), &record.Session)
		if err != nil {
			s.backendError(w, r, err)
			return
		}
		profile = resp.ChefProfile
		if profile != nil {
			if err := s.sessions.CacheChefProfile(r.Context(), record.ID, profile); err != nil {
				s.logger.Warn().Err(err).Msg("chef profile cache failed")
			}
		}
	}

	view := profileView{
		basePage: s.base(w, r, "Chef profile"),
		Profile:  profile,
	}
	if expiry, ok := record.TokenExpiry(); ok {
		view.Expiry = expiry
	}
	s.render(w, r, http.StatusOK, "profile.html", view)
}

// handleExport streams a freshly built XLSX of the chef's orders and bookings.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())

	orders, err := s.orders.ByChef(r.Context(), &record.Session)
	if err != nil {
		s.backendError(w, r, err)
		return
	}
	bookings, err := s.bookings.ByChef(r.Context(), &record.Session)
	if err != nil {
		s.backendError(w, r, err)
		return
	}

	path, err := s.exporter.ChefActivity(orders, bookings)
	if err != nil {
		s.logger.Error().Err(err).Msg("export failed")
		s.renderError(w, r, http.StatusInternalServerError, "Something went wrong", "Could not build the export file.")
		return
	}

	_ = s.bus.PublishJSON(events.EventExportCreated, events.AuthPayload{
		UserID: record.User.ID,
		Role:   record.User.Metadata.Role.String(),
	})

	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, path)
}
