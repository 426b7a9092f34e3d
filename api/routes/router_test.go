package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BlessingGianna7/rest-pms-system/api/controllers"
	"github.com/BlessingGianna7/rest-pms-system/internal/slotrequests"
	"github.com/BlessingGianna7/rest-pms-system/internal/vehicles"
	"github.com/BlessingGianna7/rest-pms-system/pkg/access"
	pkgAuth "github.com/BlessingGianna7/rest-pms-system/pkg/auth"
	"github.com/BlessingGianna7/rest-pms-system/pkg/config"
	"github.com/BlessingGianna7/rest-pms-system/pkg/db/models"
	"github.com/BlessingGianna7/rest-pms-system/pkg/enums"
	"github.com/BlessingGianna7/rest-pms-system/pkg/logger"
	"github.com/BlessingGianna7/rest-pms-system/pkg/metrics"
	"github.com/BlessingGianna7/rest-pms-system/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessions struct {
	revoked map[string]bool
}

func (s stubSessions) HasSession(_ context.Context, accessID string) (bool, error) {
	return !s.revoked[accessID], nil
}

type stubVehicles struct {
	vehicles.Service
}

func (stubVehicles) List(_ context.Context, _ access.Actor, p pagination.Params) (*pagination.Page[vehicles.Row], error) {
	return &pagination.Page[vehicles.Row]{Meta: pagination.NewMeta(0, p)}, nil
}

type stubAudit struct{}

func (stubAudit) List(_ context.Context, _ access.Actor, p pagination.Params) (*pagination.Page[models.AuditLog], error) {
	return &pagination.Page[models.AuditLog]{Meta: pagination.NewMeta(0, p)}, nil
}

type stubSlotRequests struct {
	slotrequests.Service
	mu      sync.Mutex
	creates int
}

func (s *stubSlotRequests) Create(_ context.Context, actor access.Actor, in slotrequests.CreateInput) (*models.SlotRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	return &models.SlotRequest{ID: uint(s.creates), UserID: actor.UserID, SlotID: in.SlotID, Status: enums.RequestStatusPending}, nil
}

func (s *stubSlotRequests) Approve(_ context.Context, _ access.Actor, id uint) (*slotrequests.ApprovalResult, error) {
	return &slotrequests.ApprovalResult{
		Request:     models.SlotRequest{ID: id, Status: enums.RequestStatusApproved},
		Slot:        models.ParkingSlot{ID: 3, SlotNumber: 3, Status: enums.SlotStatusUnavailable},
		EmailStatus: enums.EmailStatusSent,
	}, nil
}

// memStore is an in-memory Store without expiry.
type memStore struct {
	mu     sync.Mutex
	values map[string]string
	counts map[string]int64
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}, counts: map[string]int64{}}
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *memStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	return true, nil
}

func (m *memStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *memStore) IdempotencyKey(scope, id string) string { return "idem:" + scope + ":" + id }

func (m *memStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memStore) RateLimitKey(scope string) string { return "rl:" + scope }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{Secret: "router-test-secret", Issuer: "rest-pms-system", ExpirationMinutes: 5},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:     time.Minute,
			LoginEmailLimit: 2,
			LoginIPLimit:    100,
		},
	}
}

func testDeps(cfg *config.Config) Deps {
	return Deps{
		Config:       cfg,
		Logger:       logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error"), Output: io.Discard}),
		Sessions:     stubSessions{revoked: map[string]bool{"revoked": true}},
		Readiness:    map[string]controllers.Pinger{"db": stubPinger{}},
		Vehicles:     stubVehicles{},
		SlotRequests: &stubSlotRequests{},
		AuditLogs:    stubAudit{},
	}
}

func buildToken(t *testing.T, cfg *config.Config, userID uint, role enums.Role, jti string) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{UserID: userID, Role: role, JTI: jti})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func serve(router http.Handler, method, target, body, token string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHealthRoutes(t *testing.T) {
	router := NewRouter(testDeps(testConfig()))

	if resp := serve(router, http.MethodGet, "/health/live", "", "", nil); resp.Code != http.StatusOK {
		t.Fatalf("expected live 200 got %d", resp.Code)
	}
	if resp := serve(router, http.MethodGet, "/health/ready", "", "", nil); resp.Code != http.StatusOK {
		t.Fatalf("expected ready 200 got %d", resp.Code)
	}
	if resp := serve(router, http.MethodGet, "/metrics", "", "", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected metrics unmounted got %d", resp.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	cfg := testConfig()
	router := NewRouter(testDeps(cfg))

	if resp := serve(router, http.MethodGet, "/api/vehicles", "", "", nil); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
	if resp := serve(router, http.MethodGet, "/api/vehicles", "", "not-a-jwt", nil); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token got %d", resp.Code)
	}
	revoked := buildToken(t, cfg, 2, enums.RoleUser, "revoked")
	if resp := serve(router, http.MethodGet, "/api/vehicles", "", revoked, nil); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for revoked session got %d", resp.Code)
	}
	token := buildToken(t, cfg, 2, enums.RoleUser, "live")
	if resp := serve(router, http.MethodGet, "/api/vehicles", "", token, nil); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}

func TestAdminOnlyRoutes(t *testing.T) {
	cfg := testConfig()
	router := NewRouter(testDeps(cfg))
	user := buildToken(t, cfg, 2, enums.RoleUser, "u")
	admin := buildToken(t, cfg, 1, enums.RoleAdmin, "a")

	cases := []struct {
		method, target, body string
	}{
		{http.MethodGet, "/api/logs", ""},
		{http.MethodPut, "/api/slot-requests/7/approve", ""},
		{http.MethodPut, "/api/slot-requests/7/reject", `{"reason":"full"}`},
		{http.MethodPost, "/api/parking-slots/bulk", `{"slots":[{"slotNumber":1,"vehicleType":"car"}]}`},
		{http.MethodGet, "/api/users", ""},
		{http.MethodDelete, "/api/users/4", ""},
	}
	for _, tc := range cases {
		if resp := serve(router, tc.method, tc.target, tc.body, user, nil); resp.Code != http.StatusForbidden {
			t.Fatalf("%s %s: expected 403 for user got %d", tc.method, tc.target, resp.Code)
		}
	}

	if resp := serve(router, http.MethodGet, "/api/logs", "", admin, nil); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin logs got %d", resp.Code)
	}
	if resp := serve(router, http.MethodPut, "/api/slot-requests/7/approve", "", admin, nil); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin approve got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestSlotRequestCreateReplaysIdempotentResponse(t *testing.T) {
	cfg := testConfig()
	deps := testDeps(cfg)
	deps.Store = newMemStore()
	svc := &stubSlotRequests{}
	deps.SlotRequests = svc
	router := NewRouter(deps)
	token := buildToken(t, cfg, 2, enums.RoleUser, "u")

	if resp := serve(router, http.MethodPost, "/api/slot-requests", `{"slotId":3}`, token, nil); resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 without Idempotency-Key got %d", resp.Code)
	}

	headers := map[string]string{"Idempotency-Key": "req-1"}
	first := serve(router, http.MethodPost, "/api/slot-requests", `{"slotId":3}`, token, headers)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", first.Code, first.Body.String())
	}
	second := serve(router, http.MethodPost, "/api/slot-requests", `{"slotId":3}`, token, headers)
	if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
		t.Fatalf("expected replayed response, got %d %s", second.Code, second.Body.String())
	}
	if svc.creates != 2 {
		t.Fatalf("expected one keyless and one keyed create, got %d", svc.creates)
	}

	conflict := serve(router, http.MethodPost, "/api/slot-requests", `{"slotId":4}`, token, headers)
	if conflict.Code != http.StatusConflict {
		t.Fatalf("expected 409 for reused key got %d", conflict.Code)
	}
}

func TestLoginIsRateLimitedPerEmail(t *testing.T) {
	cfg := testConfig()
	deps := testDeps(cfg)
	deps.Store = newMemStore()
	router := NewRouter(deps)

	body := `{"email":"ada@example.com","password":"secret-pw"}`
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = serve(router, http.MethodPost, "/api/auth/login", body, "", nil)
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on third attempt got %d", last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestMetricsEndpointReportsRoutePatterns(t *testing.T) {
	cfg := testConfig()
	deps := testDeps(cfg)
	reg := prometheus.NewRegistry()
	deps.HTTPMetrics = metrics.NewHTTPMetrics(reg)
	deps.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	router := NewRouter(deps)

	token := buildToken(t, cfg, 2, enums.RoleUser, "u")
	serve(router, http.MethodGet, "/api/vehicles", "", token, nil)

	resp := serve(router, http.MethodGet, "/metrics", "", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected metrics 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `route="/api/vehicles`) {
		t.Fatalf("expected vehicles route label in metrics output:\n%s", resp.Body.String())
	}
}
