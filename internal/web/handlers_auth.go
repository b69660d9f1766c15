package web

import (
	"errors"
	"net/http"
	"strings"

	"idish/internal/events"
	"idish/internal/forms"
	"idish/internal/idish"
	"idish/internal/models"
)

type loginView struct {
	basePage
	Form   forms.LoginForm
	Errors map[string]string
	Error  string
	Next   string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if record := recordFrom(r.Context()); record.IsAuthenticated() {
		http.Redirect(w, r, homeFor(&record.User), http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "login.html", loginView{
		basePage: s.base(w, r, "Log in"),
		Next:     sanitizeNext(r.URL.Query().Get("next")),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Bad request", "Could not read the form.")
		return
	}

	form := forms.LoginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	next := sanitizeNext(r.PostFormValue("next"))

	view := loginView{basePage: s.base(w, r, "Log in"), Form: form, Next: next}
	if fields := forms.Validate(form); fields != nil {
		view.Errors = fields
		s.render(w, r, http.StatusUnprocessableEntity, "login.html", view)
		return
	}

	resp, err := s.auth.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		if apiErr, ok := idish.AsAPIError(err); ok {
			view.Error = apiErr.Message
			s.render(w, r, http.StatusUnauthorized, "login.html", view)
			return
		}
		s.backendError(w, r, err)
		return
	}
	if resp.Session == nil {
		view.Error = resp.Message
		if view.Error == "" {
			view.Error = "Login did not return a session. Please try again."
		}
		s.render(w, r, http.StatusUnauthorized, "login.html", view)
		return
	}

	record, err := s.sessions.Login(r.Context(), resp.User, *resp.Session)
	if err != nil {
		s.logger.Error().Err(err).Msg("session store failed")
		s.renderError(w, r, http.StatusInternalServerError, "Something went wrong", "Could not start your session.")
		return
	}
	s.setSessionCookie(w, record.ID)

	_ = s.bus.PublishJSON(events.EventUserLoggedIn, events.AuthPayload{
		UserID: resp.User.ID,
		Email:  resp.User.Email,
		Role:   resp.User.Metadata.Role.String(),
	})

	if next == "" {
		next = homeFor(&resp.User)
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

type signupView struct {
	basePage
	Form        forms.SignupForm
	Role        string
	Name        string
	Phone       string
	Location    string
	About       string
	Experience  string
	Errors      map[string]string
	Error       string
	UploadError string
}

func (s *Server) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	if record := recordFrom(r.Context()); record.IsAuthenticated() {
		http.Redirect(w, r, homeFor(&record.User), http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "signup.html", signupView{
		basePage: s.base(w, r, "Sign up"),
		Role:     "customer",
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(models.MaxImageSize + 1<<20); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Bad request", "Could not read the form.")
		return
	}

	form := forms.SignupForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Role:     models.Role(r.PostFormValue("role")),
	}
	view := signupView{
		basePage:   s.base(w, r, "Sign up"),
		Form:       form,
		Role:       string(form.Role),
		Name:       strings.TrimSpace(r.PostFormValue("name")),
		Phone:      strings.TrimSpace(r.PostFormValue("phone")),
		Location:   strings.TrimSpace(r.PostFormValue("location")),
		About:      strings.TrimSpace(r.PostFormValue("about")),
		Experience: strings.TrimSpace(r.PostFormValue("experience")),
	}

	if fields := forms.Validate(form); fields != nil {
		view.Errors = fields
		s.render(w, r, http.StatusUnprocessableEntity, "signup.html", view)
		return
	}

	data := idish.SignupData{
		Email:      form.Email,
		Password:   form.Password,
		Role:       form.Role,
		Name:       view.Name,
		Phone:      view.Phone,
		Location:   view.Location,
		About:      view.About,
		Experience: view.Experience,
	}

	if form.Role == models.RoleChef {
		imageURL, err := s.uploadFormImage(r, "profile_image")
		if err != nil {
			view.UploadError = err.Error()
			s.render(w, r, http.StatusUnprocessableEntity, "signup.html", view)
			return
		}
		data.ProfileImage = imageURL
	}

	resp, err := s.auth.Signup(r.Context(), data)
	if err != nil {
		if apiErr, ok := idish.AsAPIError(err); ok {
			view.Error = apiErr.Message
			s.render(w, r, apiErr.StatusCode, "signup.html", view)
			return
		}
		s.backendError(w, r, err)
		return
	}

	_ = s.bus.PublishJSON(events.EventUserSignedUp, events.AuthPayload{
		UserID: resp.User.ID,
		Email:  resp.User.Email,
		Role:   form.Role.String(),
	})

	// Some backends auto-login on signup, others require email confirmation
	// first.
	if resp.Session != nil {
		record, err := s.sessions.Login(r.Context(), resp.User, *resp.Session)
		if err != nil {
			s.logger.Error().Err(err).Msg("session store failed")
			s.flashRedirect(w, r, "/login", "Account created. Please log in.")
			return
		}
		s.setSessionCookie(w, record.ID)
		s.flashRedirect(w, r, homeFor(&resp.User), "Welcome to iDISH!")
		return
	}

	message := resp.Message
	if message == "" {
		message = "Account created. Please log in."
	}
	s.flashRedirect(w, r, "/login", message)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	record := recordFrom(r.Context())
	if cookie, err := r.Cookie(s.cfg.Session.CookieName); err == nil {
		if err := s.sessions.Logout(r.Context(), cookie.Value); err != nil {
			s.logger.Error().Err(err).Msg("logout failed")
		}
	}
	s.clearSessionCookie(w)

	if record.IsAuthenticated() {
		_ = s.bus.PublishJSON(events.EventUserLoggedOut, events.AuthPayload{
			UserID: record.User.ID,
			Email:  record.User.Email,
			Role:   record.User.Metadata.Role.String(),
		})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// uploadFormImage validates and stores an optional image field, returning its
// public URL or "" when the field was left empty.
func (s *Server) uploadFormImage(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	if header.Size == 0 {
		return "", nil
	}
	return s.uploader.Upload(r.Context(), file, header.Size, header.Header.Get("Content-Type"))
}
