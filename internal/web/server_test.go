package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"idish/internal/config"
	"idish/internal/events"
	"idish/internal/export"
	"idish/internal/idish"
	"idish/internal/models"
	"idish/internal/session"
	"idish/internal/upload"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a minimal iDISH API double that records mutating calls.
type fakeBackend struct {
	server *httptest.Server

	mu    sync.Mutex
	calls []string
	body  map[string]string
}

func (f *fakeBackend) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		f.body[r.Method+" "+r.URL.Path] = string(data)
	}
}

func (f *fakeBackend) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fakeBackend) payload(call string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.body[call]
}

func newFakeBackend(t *testing.T) *fakeBackend {
	f := &fakeBackend{body: make(map[string]string)}

	dishes := []models.Dish{
		{ID: "d1", Title: "Spicy Thai Curry", Description: "Hot and fragrant", Price: 15.99, CuisineType: "Thai", ChefID: "u-chef", Available: true, ImageURL: "https://img/d1.jpg"},
		{ID: "d2", Title: "Margherita Pizza", Description: "Classic Naples pie", Price: 13.50, CuisineType: "Italian", Available: true, ImageURL: "https://img/d2.jpg"},
		{ID: "d3", Title: "Falafel Bowl", Description: "Crispy chickpea fritters", Price: 14.75, CuisineType: "Middle Eastern", Available: true, ImageURL: "https://img/d3.jpg", DietaryTags: []string{"Vegan"}},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password == "wrongpass" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid login credentials"})
			return
		}
		role := models.RoleCustomer
		if strings.HasPrefix(creds.Email, "chef") {
			role = models.RoleChef
		}
		_ = json.NewEncoder(w).Encode(idish.AuthResponse{
			User:    models.User{ID: "u-" + string(role), Email: creds.Email, Metadata: models.UserMetadata{Role: role}},
			Session: &models.Session{AccessToken: "tok-123", RefreshToken: "ref-123"},
		})
	})
	mux.HandleFunc("GET /dishes/all", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"dishes": dishes})
	})
	mux.HandleFunc("GET /dishes/d1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"dish": dishes[0]})
	})
	mux.HandleFunc("POST /orders/create", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		_ = json.NewEncoder(w).Encode(map[string]any{"order": models.Order{ID: "o1", Status: models.OrderPending}})
	})
	mux.HandleFunc("GET /orders/by-user", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"orders": []models.Order{}})
	})
	mux.HandleFunc("PUT /orders/status/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		var body struct {
			Status models.OrderStatus `json:"status"`
		}
		_ = json.Unmarshal([]byte(f.payload("PUT "+r.URL.Path)), &body)
		_ = json.NewEncoder(w).Encode(map[string]any{"order": models.Order{ID: r.PathValue("id"), Status: body.Status}})
	})
	mux.HandleFunc("GET /dishes/by-chef", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"dishes": dishes[:1]})
	})
	mux.HandleFunc("GET /hosting/by-chef", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"hostings": []models.Hosting{}})
	})
	mux.HandleFunc("GET /orders/by-chef", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"orders": []models.Order{
			{ID: "o1", Status: models.OrderPending, Quantity: 1, TotalPrice: 15.99},
		}})
	})
	mux.HandleFunc("GET /bookings/by-chef", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"bookings": []models.Booking{}})
	})
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"user": models.User{
			ID:       r.PathValue("id"),
			Email:    "chef@idish.test",
			Metadata: models.UserMetadata{Role: models.RoleChef, Name: "Chef Anna", Location: "Naples"},
		}})
	})
	mux.HandleFunc("POST /dishes/add", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		_ = json.NewEncoder(w).Encode(map[string]any{"dish": models.Dish{ID: "d9", Title: "New Dish"}})
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

type testEnv struct {
	server   *Server
	sessions *session.Manager
	backend  *fakeBackend
	cfg      *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	backend := newFakeBackend(t)
	logger := zerolog.Nop()

	cfg := &config.Config{}
	cfg.Backend.BaseURL = backend.server.URL
	cfg.Session.CookieName = "idish_session"
	cfg.Session.TTLSeconds = 3600
	cfg.Upload.Mode = "placeholder"
	cfg.Exports.Path = t.TempDir()
	cfg.RateLimit.LoginRPS = 1000
	cfg.RateLimit.LoginBurst = 1000

	sessions := session.NewManager(session.NewMemoryRepository(time.Hour), &logger)

	server, err := NewServer(Deps{
		Config:   cfg,
		Logger:   &logger,
		Sessions: sessions,
		Backend:  idish.NewClient(backend.server.URL, &logger),
		Uploader: upload.PlaceholderUploader{},
		Exporter: export.NewExporter(cfg.Exports.Path, &logger),
		Bus:      events.NewEventBus(),
	})
	require.NoError(t, err)

	return &testEnv{server: server, sessions: sessions, backend: backend, cfg: cfg}
}

// loginAs seeds a session record directly and returns its cookie.
func (e *testEnv) loginAs(t *testing.T, role models.Role) *http.Cookie {
	user := models.User{
		ID:       "u-" + string(role),
		Email:    string(role) + "@idish.test",
		Metadata: models.UserMetadata{Role: role},
	}
	record, err := e.sessions.Login(context.Background(), user, models.Session{AccessToken: "tok-123"})
	require.NoError(t, err)
	return &http.Cookie{Name: e.cfg.Session.CookieName, Value: record.ID}
}

func (e *testEnv) do(method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

func TestAnonymousRedirectedToLogin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(http.MethodGet, "/dishes", nil)
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/login?next=%2Fdishes", resp.Header().Get("Location"))
}

func TestRoleDenialIsExplicit(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, models.RoleCustomer)

	resp := env.do(http.MethodGet, "/chef/dashboard", nil, cookie)
	require.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "Access denied")
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{"email": {"chef@idish.test"}, "password": {"supersecret"}}
	resp := env.do(http.MethodPost, "/login", form)
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/chef/dashboard", resp.Header().Get("Location"))

	var cookie *http.Cookie
	for _, c := range resp.Result().Cookies() {
		if c.Name == env.cfg.Session.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "login must set the session cookie")

	dash := env.do(http.MethodGet, "/chef/dashboard", nil, cookie)
	require.Equal(t, http.StatusOK, dash.Code)
	assert.Contains(t, dash.Body.String(), "Chef dashboard")
}

func TestLoginRejectedShowsBackendMessage(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{"email": {"someone@idish.test"}, "password": {"wrongpass"}}
	resp := env.do(http.MethodPost, "/login", form)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid login credentials")
}

func TestLoginValidation(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{"email": {"not-an-email"}, "password": {"x"}}
	resp := env.do(http.MethodPost, "/login", form)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "Must be a valid email address")
}

func TestBrowseDishesSearch(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, models.RoleCustomer)

	resp := env.do(http.MethodGet, "/dishes?q=thai", nil, cookie)
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "Spicy Thai Curry")
	assert.NotContains(t, body, "Margherita Pizza")
}

func TestBrowseDishesSortByPrice(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, models.RoleCustomer)

	resp := env.do(http.MethodGet, "/dishes?sort=price_asc", nil, cookie)
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	cheapest := strings.Index(body, "Margherita Pizza")
	middle := strings.Index(body, "Falafel Bowl")
	priciest := strings.Index(body, "Spicy Thai Curry")
	assert.True(t, cheapest < middle && middle < priciest, "dishes should appear cheapest first")
}

func TestChefPageListsOwnDishes(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, models.RoleCustomer)

	resp := env.do(http.MethodGet, "/chefs/u-chef", nil, cookie)
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "Chef Anna")
	assert.Contains(t, body, "Spicy Thai Curry")
	assert.NotContains(t, body, "Margherita Pizza")
}

func TestOrderCreate(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, models.RoleCustomer)

	form := url.Values{
		"quantity":         {"2"},
		"delivery_address": {"42 Long Street, Springfield"},
	}
	resp := env.do(http.MethodPost, "/dishes/d1/order", form, cookie)
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/orders", resp.Header().Get("Location"))

	require.True(t, env.backend.called("POST /orders/create"))
	var data models.CreateOrderData
	require.NoError(t, json.Unmarshal([]byte(env.backend.payload("POST /orders/create")), &data))
	assert.Equal(t, "d1", data.DishID)
	assert.Equal(t, int64(2), data.Quantity)
}

func TestOrderCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, models.RoleCustomer)

	form := url.Values{"quantity": {"0"}, "delivery_address": {"short"}}
	resp := env.do(http.MethodPost, "/dishes/d1/order", form, cookie)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.False(t, env.backend.called("POST /orders/create"), "invalid form must not reach the backend")
}

func TestOrderCreateRequiresCustomer(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, models.RoleChef)

	form := url.Values{"quantity": {"1"}, "delivery_address": {"42 Long Street, Springfield"}}
	resp := env.do(http.MethodPost, "/dishes/d1/order", form, cookie)
	require.Equal(t, http.StatusForbidden, resp.Code)
	assert.False(t, env.backend.called("POST /orders/create"))
}

func TestCustomerCancelPendingOrder(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, models.RoleCustomer)

	resp := env.do(http.MethodPost, "/orders/o1/cancel", url.Values{"from": {"pending"}}, cookie)
	require.Equal(t, http.StatusSeeOther, resp.Code)
	require.True(t, env.backend.called("PUT /orders/status/o1"))

	var body struct {
		Status models.OrderStatus `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(env.backend.payload("PUT /orders/status/o1")), &body))
	assert.Equal(t, models.OrderCancelled, body.Status)
}

func TestCustomerCannotCancelAcceptedOrder(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, models.RoleCustomer)

	resp := env.do(http.MethodPost, "/orders/o1/cancel", url.Values{"from": {"accepted"}}, cookie)
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.False(t, env.backend.called("PUT /orders/status/o1"), "illegal transition must not reach the backend")
}

func TestChefStatusUpdateChecksLifecycle(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, models.RoleChef)

	// delivered is terminal, nothing may follow
	resp := env.do(http.MethodPost, "/chef/orders/o1/status",
		url.Values{"from": {"delivered"}, "to": {"pending"}}, cookie)
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.False(t, env.backend.called("PUT /orders/status/o1"))

	// pending -> preparing skips accepted, still a forward move
	resp = env.do(http.MethodPost, "/chef/orders/o1/status",
		url.Values{"from": {"pending"}, "to": {"preparing"}}, cookie)
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.True(t, env.backend.called("PUT /orders/status/o1"))
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, models.RoleCustomer)

	resp := env.do(http.MethodPost, "/logout", url.Values{}, cookie)
	require.Equal(t, http.StatusSeeOther, resp.Code)

	record, err := env.sessions.Current(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Nil(t, record, "logout must delete the stored session")

	after := env.do(http.MethodGet, "/orders", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, after.Code)
	assert.Contains(t, after.Header().Get("Location"), "/login")
}

func TestLoginRateLimit(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.RateLimit.LoginRPS = 1
	env.cfg.RateLimit.LoginBurst = 1
	env.server.limiter = newIPLimiter(env.cfg.RateLimit)

	form := url.Values{"email": {"someone@idish.test"}, "password": {"supersecret"}}
	first := env.do(http.MethodPost, "/login", form)
	require.NotEqual(t, http.StatusTooManyRequests, first.Code)

	second := env.do(http.MethodPost, "/login", form)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"ok"`)
}

func TestChefExportDownload(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, models.RoleChef)

	resp := env.do(http.MethodGet, "/chef/export", nil, cookie)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "attachment")
	assert.NotZero(t, resp.Body.Len())
}

func TestSanitizeNext(t *testing.T) {
	assert.Equal(t, "/dishes", sanitizeNext("/dishes"))
	assert.Equal(t, "", sanitizeNext("https://evil.example"))
	assert.Equal(t, "", sanitizeNext("//evil.example"))
	assert.Equal(t, "", sanitizeNext(""))
}
