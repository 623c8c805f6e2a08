package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mayhouse/config"
	"mayhouse/database/repository"
	"mayhouse/database/repository/memory"
	"mayhouse/handlers"
	"mayhouse/models"
	"mayhouse/services/blockchain"
	"mayhouse/services/booking"
	"mayhouse/services/design"
	"mayhouse/services/eventrun"
	"mayhouse/services/experience"
	"mayhouse/services/explore"
	"mayhouse/services/hostapp"
	"mayhouse/services/legal"
	"mayhouse/services/payment"
	"mayhouse/services/profile"
	"mayhouse/services/tasks"
	"mayhouse/services/user"
	"mayhouse/services/wallet"
	"mayhouse/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig.CORSOrigins = "http://localhost:3000"
	config.AppConfig.MaxRequestsPerMin = 10000
	if err := utils.RegisterValidators(); err != nil {
		panic(err)
	}
}

type fixture struct {
	router *gin.Engine
	repos  *repository.Repositories
	osrm   *httptest.Server
}

func seed(repos *repository.Repositories) {
	_ = repos.Users.Create(&models.User{ID: "host-1", FullName: "Asha Rao", Role: models.RoleHost})
	_ = repos.Users.Create(&models.User{ID: "admin-1", FullName: "Ops", Role: models.RoleAdmin})
	_ = repos.Experiences.Create(&models.Experience{
		ID: "exp-1", HostID: "host-1", Title: "Bandra street food trail", ExperienceDomain: "food",
		Neighborhood: "Bandra West", PriceINR: 1000, DurationMinutes: 120, Status: models.ExperienceApproved,
	})
	start := time.Now().UTC().Add(72 * time.Hour)
	_ = repos.EventRuns.Create(&models.EventRun{
		ID: "run-1", ExperienceID: "exp-1", HostID: "host-1",
		StartDatetime: start, EndDatetime: start.Add(2 * time.Hour),
		MaxCapacity: 4, Status: models.EventRunScheduled,
	})
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := memory.NewRepositories()
	seed(repos)

	coingecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ethereum":{"inr":250000}}`))
	}))
	t.Cleanup(coingecko.Close)
	osrm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/route/v1/foot/72.8,19.0;72.9,19.1":
			_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"distance":1200}]}`))
		case "/route/v1/foot/0,0;1,1":
			_, _ = w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(osrm.Close)

	userSvc := &user.DefaultUserService{Repo: repos.Users, Nonces: wallet.NewMemoryNonceStore(), Blacklist: utils.GetBlacklist()}
	legalSvc := &legal.DefaultLegalService{Repo: repos.Legal, Users: repos.Users}
	_, err := legalSvc.InitializePolicies()
	require.NoError(t, err)
	runSvc := &eventrun.DefaultEventRunService{Runs: repos.EventRuns, Experiences: repos.Experiences, Bookings: repos.Bookings, Users: repos.Users, Tasks: tasks.NoopEnqueuer{}}
	bookingSvc := &booking.DefaultBookingService{
		Runs: repos.EventRuns, Experiences: repos.Experiences, Bookings: repos.Bookings,
		Spots: runSvc, Payments: payment.DummyProcessor{}, Tasks: tasks.NoopEnqueuer{},
	}
	feed := blockchain.NewPriceFeed(coingecko.URL, nil, utils.GetLogger())

	hb := &handlers.HandlerBundle{
		UserRepo:   repos.Users,
		Auth:       handlers.NewAuthHandler(userSvc),
		Profile:    handlers.NewProfileHandler(userSvc, &profile.DefaultProfileService{Users: repos.Users, Experiences: repos.Experiences, EventRuns: repos.EventRuns, Bookings: repos.Bookings, Applications: repos.HostApplications, Photos: repos.Photos}),
		Experience: handlers.NewExperienceHandler(&experience.DefaultExperienceService{Repo: repos.Experiences, Photos: repos.Photos, Upgrader: userSvc}),
		EventRun:   handlers.NewEventRunHandler(runSvc),
		Booking:    handlers.NewBookingHandler(bookingSvc),
		Blockchain: handlers.NewBlockchainHandler(&blockchain.DefaultBlockchainService{Runs: repos.EventRuns, Bookings: repos.Bookings, Costs: bookingSvc, Prices: feed}),
		HostApplication: handlers.NewHostApplicationHandler(&hostapp.DefaultHostApplicationService{
			Repo: repos.HostApplications, Users: repos.Users, Policies: legalSvc, Upgrader: userSvc, AutoApprove: true,
		}),
		Legal:   handlers.NewLegalHandler(legalSvc),
		Design:  handlers.NewDesignHandler(&design.DefaultDesignService{Sessions: repos.DesignSessions, Experiences: repos.Experiences, History: design.NewMemoryChatHistory()}),
		Explore: handlers.NewExploreHandler(&explore.DefaultExploreService{Experiences: repos.Experiences, Runs: repos.EventRuns, Bookings: repos.Bookings, Users: repos.Users, Photos: repos.Photos}),
		Routes:  handlers.NewRouteHandler(osrm.URL),
	}

	r := gin.New()
	RegisterRoutes(r, hb)
	return &fixture{router: r, repos: repos, osrm: osrm}
}

func (f *fixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func tokenFor(t *testing.T, userID, role string) string {
	tok, err := utils.GenerateToken(userID, "", role, "", time.Hour)
	require.NoError(t, err)
	return tok
}

func TestWelcomeAndHealth(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var welcome map[string]string
	decode(t, w, &welcome)
	assert.Equal(t, "Welcome to Mayhouse Backend", welcome["message"])
	assert.Equal(t, "/health", welcome["health"])

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/metrics", "", nil).Code)
}

func TestRegisterLoginLogout(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/auth/register", "", gin.H{"email": "Priya@Example.com", "password": "s3cret-pass", "full_name": "Priya"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var auth models.AuthResponse
	decode(t, w, &auth)
	assert.Equal(t, "bearer", auth.TokenType)
	require.NotEmpty(t, auth.AccessToken)

	w = f.do(http.MethodPost, "/auth/register", "", gin.H{"email": "priya@example.com", "password": "another-pass", "full_name": "Priya"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(http.MethodPost, "/auth/register", "", gin.H{"email": "not-an-email", "password": "short"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var bad struct {
		Details []utils.FieldError `json:"details"`
	}
	decode(t, w, &bad)
	assert.NotEmpty(t, bad.Details)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/auth/login", "", gin.H{"email": "priya@example.com", "password": "wrong-pass"}).Code)
	w = f.do(http.MethodPost, "/auth/login", "", gin.H{"email": "priya@example.com", "password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/auth/me", auth.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.User
	decode(t, w, &me)
	assert.Equal(t, "priya@example.com", me.Email)

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/auth/logout", auth.AccessToken, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/auth/me", auth.AccessToken, nil).Code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/admin/experiences", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/admin/experiences", tokenFor(t, "host-1", models.RoleHost), nil).Code)

	w := f.do(http.MethodGet, "/admin/experiences/stats", tokenFor(t, "admin-1", models.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats models.ExperienceStats
	decode(t, w, &stats)
	assert.Equal(t, 1, stats.ApprovedCount)
}

func TestBookingFlow(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repos.Users.Create(&models.User{ID: "t-1", FullName: "Traveler", Role: models.RoleUser}))
	tok := tokenFor(t, "t-1", models.RoleUser)

	w := f.do(http.MethodPost, "/bookings/calculate-cost", tok, gin.H{"event_run_id": "run-1", "seat_count": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cost models.BookingCost
	decode(t, w, &cost)
	assert.Equal(t, 2400.0, cost.TotalCost)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/bookings", tok, gin.H{"event_run_id": "run-1", "seat_count": 5}).Code)

	w = f.do(http.MethodPost, "/bookings", tok, gin.H{"event_run_id": "run-1", "seat_count": 3})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.BookingResponse
	decode(t, w, &created)
	assert.Equal(t, models.BookingConfirmed, created.BookingStatus)
	assert.Equal(t, 3600.0, created.TotalAmountINR)

	w = f.do(http.MethodGet, "/bookings/my", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.BookingWithEventRun
	decode(t, w, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, "run-1", mine[0].EventRun.ID)

	w = f.do(http.MethodGet, "/event-runs/run-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var run models.EventRunResponse
	decode(t, w, &run)
	assert.Equal(t, 1, run.AvailableSpots)
	assert.Equal(t, models.EventRunLowSeats, run.Status)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/bookings/"+created.ID, tokenFor(t, "host-1", models.RoleHost), nil).Code)
}

func TestExplorePublicRoutes(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/explore?domain=food", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var runs []models.ExploreEventRun
	decode(t, w, &runs)
	require.Len(t, runs, 1)
	assert.Equal(t, "Asha Rao", runs[0].HostName)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/explore?limit=500", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/explore/featured?limit=11", "", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/explore/exp-1", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/explore/missing", "", nil).Code)
}

func TestWalkingRoutes(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/routes/walking?waypoints=72.8,19.0", "", nil).Code)
	for _, raw := range []string{
		"../../table;1,1",
		"1,1;2,2%3Fsteps%3Dtrue",
		"72.8,19.0;;72.9,19.1",
		"72.8;19.0",
		"abc,def;1,1",
	} {
		assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/routes/walking?waypoints="+raw, "", nil).Code, raw)
	}

	w := f.do(http.MethodGet, "/routes/walking?waypoints=72.8,19.0;72.9,19.1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":"Ok","routes":[{"distance":1200}]}`, w.Body.String())

	w = f.do(http.MethodGet, "/routes/walking?waypoints=0,0;1,1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var none map[string]any
	decode(t, w, &none)
	assert.Equal(t, "NoRoute", none["code"])
	assert.Equal(t, "No route found between waypoints", none["message"])

	assert.Equal(t, http.StatusBadGateway, f.do(http.MethodGet, "/routes/walking?waypoints=5,5;6,6", "", nil).Code)
}

func TestBlockchainPublicRoutes(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/blockchain/eth-price", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var price models.EthPrice
	decode(t, w, &price)
	assert.Equal(t, 250000.0, price.EthPriceINR)

	w = f.do(http.MethodGet, "/blockchain/conversion/inr-to-wei?amount_inr=2500", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var conv models.Conversion
	decode(t, w, &conv)
	assert.Equal(t, "10000000000000000", conv.AmountWei)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/blockchain/conversion/inr-to-wei?amount_inr=abc", "", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, f.do(http.MethodGet, "/blockchain/host-events/0x00000000000000000000000000000000000000aa", tokenFor(t, "host-1", models.RoleHost), nil).Code)
}

func TestLegalRoutes(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/legal/terms-conditions", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/legal/policies/bogus", "", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/legal/health", "", nil).Code)

	w := f.do(http.MethodGet, "/legal/eip712/required-policies/user_registration", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var req struct {
		RequiredPolicies []string `json:"required_policies"`
	}
	decode(t, w, &req)
	assert.Equal(t, []string{models.PolicyTermsConditions, models.PolicyPrivacyPolicy}, req.RequiredPolicies)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/legal/admin/initialize-policies", tokenFor(t, "host-1", models.RoleHost), nil).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/legal/admin/initialize-policies", tokenFor(t, "admin-1", models.RoleAdmin), nil).Code)
}

func TestDesignRoutesNeedHost(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repos.Users.Create(&models.User{ID: "t-1", FullName: "Traveler", Role: models.RoleUser}))

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/design-experience/session", tokenFor(t, "t-1", models.RoleUser), nil).Code)

	host := tokenFor(t, "host-1", models.RoleHost)
	w := f.do(http.MethodPost, "/design-experience/session", host, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var start models.DesignSessionStartResponse
	decode(t, w, &start)
	require.NotEmpty(t, start.SessionID)

	w = f.do(http.MethodPost, "/design-experience/chat", host, gin.H{"message": "Help me with the title"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = f.do(http.MethodPost, "/design-experience/session/"+start.SessionID+"/submit", host, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
