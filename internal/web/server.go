// Package web is the HTML face of the gateway: it renders server-side views
// over the iDISH backend, guards routes by session and role, and owns the
// HTTP server lifecycle.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"idish/internal/config"
	"idish/internal/events"
	"idish/internal/export"
	"idish/internal/idish"
	"idish/internal/models"
	"idish/internal/session"
	"idish/internal/upload"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

//go:embed static
var staticFS embed.FS

type Server struct {
	cfg      *config.Config
	logger   zerolog.Logger
	sessions *session.Manager
	renderer *Renderer
	auth     *idish.AuthService
	users    *idish.UserService
	dishes   *idish.DishService
	hostings *idish.HostingService
	orders   *idish.OrderService
	bookings *idish.BookingService
	uploader upload.Uploader
	exporter *export.Exporter
	bus      *events.EventBus
	limiter  *ipLimiter
	server   *http.Server
}

// Deps bundles everything a Server needs; the per-resource backend services
// are derived from the shared client.
type Deps struct {
	Config   *config.Config
	Logger   *zerolog.Logger
	Sessions *session.Manager
	Backend  *idish.Client
	Uploader upload.Uploader
	Exporter *export.Exporter
	Bus      *events.EventBus
}

func NewServer(deps Deps) (*Server, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      deps.Config,
		logger:   deps.Logger.With().Str("component", "web").Logger(),
		sessions: deps.Sessions,
		renderer: renderer,
		auth:     idish.NewAuthService(deps.Backend),
		users:    idish.NewUserService(deps.Backend),
		dishes:   idish.NewDishService(deps.Backend),
		hostings: idish.NewHostingService(deps.Backend),
		orders:   idish.NewOrderService(deps.Backend),
		bookings: idish.NewBookingService(deps.Backend),
		uploader: deps.Uploader,
		exporter: deps.Exporter,
		bus:      deps.Bus,
		limiter:  newIPLimiter(deps.Config.RateLimit),
	}

	handler := s.logRequests(s.withSession(s.routes()))

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	static, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.HandleFunc("POST /login", s.limitAuth(s.handleLogin))
	mux.HandleFunc("GET /signup", s.handleSignupPage)
	mux.HandleFunc("POST /signup", s.limitAuth(s.handleSignup))
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	if s.cfg.Monitoring.PrometheusEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	mux.HandleFunc("GET /dishes", s.requireAuth(s.handleDishes))
	mux.HandleFunc("GET /dishes/{id}", s.requireAuth(s.handleDishDetail))
	mux.HandleFunc("POST /dishes/{id}/order", s.requireRole(models.RoleCustomer, s.handleOrderCreate))
	mux.HandleFunc("GET /chefs/{id}", s.requireAuth(s.handleChefPage))
	mux.HandleFunc("GET /hostings", s.requireAuth(s.handleHostings))
	mux.HandleFunc("GET /hostings/{id}", s.requireAuth(s.handleHostingDetail))
	mux.HandleFunc("POST /hostings/{id}/book", s.requireRole(models.RoleCustomer, s.handleBookingCreate))

	mux.HandleFunc("GET /orders", s.requireRole(models.RoleCustomer, s.handleOrders))
	mux.HandleFunc("POST /orders/{id}/cancel", s.requireRole(models.RoleCustomer, s.handleOrderCancel))
	mux.HandleFunc("GET /bookings", s.requireRole(models.RoleCustomer, s.handleBookings))
	mux.HandleFunc("POST /bookings/{id}/cancel", s.requireRole(models.RoleCustomer, s.handleBookingCancel))

	mux.HandleFunc("GET /chef/dashboard", s.requireRole(models.RoleChef, s.handleDashboard))
	mux.HandleFunc("GET /chef/dishes/new", s.requireRole(models.RoleChef, s.handleDishNew))
	mux.HandleFunc("POST /chef/dishes/new", s.requireRole(models.RoleChef, s.handleDishCreate))
	mux.HandleFunc("GET /chef/dishes/{id}/edit", s.requireRole(models.RoleChef, s.handleDishEditPage))
	mux.HandleFunc("POST /chef/dishes/{id}/edit", s.requireRole(models.RoleChef, s.handleDishEdit))
	mux.HandleFunc("POST /chef/dishes/{id}/toggle", s.requireRole(models.RoleChef, s.handleDishToggle))
	mux.HandleFunc("POST /chef/dishes/{id}/delete", s.requireRole(models.RoleChef, s.handleDishDelete))
	mux.HandleFunc("GET /chef/hostings/new", s.requireRole(models.RoleChef, s.handleHostingNew))
	mux.HandleFunc("POST /chef/hostings/new", s.requireRole(models.RoleChef, s.handleHostingCreate))
	mux.HandleFunc("GET /chef/hostings/{id}/edit", s.requireRole(models.RoleChef, s.handleHostingEditPage))
	mux.HandleFunc("POST /chef/hostings/{id}/edit", s.requireRole(models.RoleChef, s.handleHostingEdit))
	mux.HandleFunc("POST /chef/hostings/{id}/toggle", s.requireRole(models.RoleChef, s.handleHostingToggle))
	mux.HandleFunc("POST /chef/hostings/{id}/delete", s.requireRole(models.RoleChef, s.handleHostingDelete))
	mux.HandleFunc("POST /chef/orders/{id}/status", s.requireRole(models.RoleChef, s.handleOrderStatus))
	mux.HandleFunc("POST /chef/bookings/{id}/status", s.requireRole(models.RoleChef, s.handleBookingStatus))
	mux.HandleFunc("GET /chef/profile", s.requireRole(models.RoleChef, s.handleProfile))
	mux.HandleFunc("GET /chef/export", s.requireRole(models.RoleChef, s.handleExport))

	return mux
}

// Handler exposes the full middleware-wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("web server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home.html", s.base(w, r, "Home"))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","version":%q}`, s.cfg.App.Version)
}

// base assembles the layout data shared by every page, consuming any pending
// flash message.
func (s *Server) base(w http.ResponseWriter, r *http.Request, title string) basePage {
	page := basePage{Title: title, Flash: takeFlash(w, r)}
	if record := recordFrom(r.Context()); record.IsAuthenticated() {
		user := record.User
		page.User = &user
	}
	return page
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	if err := s.renderer.Render(w, status, page, data); err != nil {
		s.logger.Error().Err(err).Str("page", page).Msg("render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type errorView struct {
	basePage
	Heading string
	Message string
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, heading, message string) {
	s.render(w, r, status, "error.html", errorView{
		basePage: s.base(w, r, heading),
		Heading:  heading,
		Message:  message,
	})
}

// backendError translates a failed backend call into a response: auth
// failures clear the session and bounce to login, everything else shows the
// backend's error message.
func (s *Server) backendError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, idish.ErrAuthRequired) {
		s.clearSessionCookie(w)
		s.redirectToLogin(w, r)
		return
	}
	if apiErr, ok := idish.AsAPIError(err); ok {
		if apiErr.StatusCode == http.StatusUnauthorized {
			s.clearSessionCookie(w)
			s.redirectToLogin(w, r)
			return
		}
		s.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("backend rejected request")
		s.renderError(w, r, apiErr.StatusCode, "Something went wrong", apiErr.Message)
		return
	}
	s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("backend call failed")
	s.renderError(w, r, http.StatusBadGateway, "Something went wrong", "The kitchen is unreachable right now. Please try again.")
}

func (s *Server) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Path
	if r.Method != http.MethodGet {
		next = "/"
	}
	http.Redirect(w, r, "/login?next="+url.QueryEscape(next), http.StatusSeeOther)
}

// flashRedirect sets a one-shot message and redirects with 303 so the POST is
// never resubmitted.
func (s *Server) flashRedirect(w http.ResponseWriter, r *http.Request, target, message string) {
	if message != "" {
		setFlash(w, message)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   s.cfg.Session.TTLSeconds,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// sanitizeNext keeps redirects on-site.
func sanitizeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}

// homeFor picks the landing page for a logged-in role.
func homeFor(user *models.User) string {
	if user.IsChef() {
		return "/chef/dashboard"
	}
	return "/dishes"
}
