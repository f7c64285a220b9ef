// nolint:canonicalheader
package assembly_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"bff-gateway/assembly"
	"bff-gateway/conf"
	"bff-gateway/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/txix-open/isp-kit/http/httpcli"
	"github.com/txix-open/isp-kit/json"
	"github.com/txix-open/isp-kit/log"
	"github.com/txix-open/isp-kit/test"
)

const (
	jwtSecret = "test-secret"
)

type call struct {
	Method string
	Path   string
	Body   string
	Header http.Header
}

type upstream struct {
	*httptest.Server

	lock     sync.Mutex
	calls    []call
	handlers map[string]http.HandlerFunc
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{handlers: make(map[string]http.HandlerFunc)}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		u.lock.Lock()
		u.calls = append(u.calls, call{Method: r.Method, Path: r.URL.RequestURI(), Body: string(body), Header: r.Header.Clone()})
		h, ok := u.handlers[r.Method+" "+r.URL.Path]
		u.lock.Unlock()
		if ok {
			h(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(u.Close)
	return u
}

func (u *upstream) Handle(method string, path string, h http.HandlerFunc) {
	u.lock.Lock()
	defer u.lock.Unlock()
	u.handlers[method+" "+path] = h
}

func (u *upstream) Calls() []call {
	u.lock.Lock()
	defer u.lock.Unlock()
	return append([]call(nil), u.calls...)
}

func respond(statusCode int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}
}

type gateway struct {
	url     string
	auth    *upstream
	venue   *upstream
	parking *upstream
	valet   *upstream
}

func token(t *testing.T, subject string, roles ...string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   subject,
		"roles": roles,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
	require.NoError(t, err)
	return signed
}

func (g gateway) do(t *testing.T, method string, path string, body string, headers ...string) (int, string, http.Header) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, g.url+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data), resp.Header
}

func (g gateway) dialRealtime(t *testing.T) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(g.url, "http")+"/realtime", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	event := readEvent(t, conn)
	require.Equal(t, domain.EventHello, event.Event)
	return conn
}

type envelope struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data"`
}

func readEvent(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	event := envelope{}
	require.NoError(t, json.Unmarshal(data, &event))
	return event
}

type GatewayTestSuite struct {
	suite.Suite
}

func TestGatewayTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(GatewayTestSuite))
}

func (s *GatewayTestSuite) newGateway(test *test.Test, modify func(cfg *conf.Remote), redisCli redis.UniversalClient) gateway {
	t := s.T()
	g := gateway{
		auth:    newUpstream(t),
		venue:   newUpstream(t),
		parking: newUpstream(t),
		valet:   newUpstream(t),
	}
	cfg := conf.Remote{
		Http:    conf.Http{MaxBodyBytes: 1000, ProxyTimeoutInSec: 5},
		Logging: conf.Logging{LogLevel: log.DebugLevel, RequestLogEnable: true, BodyLogEnable: true},
		Auth:    conf.Auth{JwtSecret: jwtSecret},
		Upstreams: conf.Upstreams{
			Auth:    []string{g.auth.URL},
			Venue:   []string{g.venue.URL},
			Parking: []string{g.parking.URL},
			Valet:   []string{g.valet.URL},
		},
	}
	if modify != nil {
		modify(&cfg)
	}
	test.Assert().NoError(cfg.Validate())

	state := assembly.NewState(test.Logger())
	locator := assembly.NewLocator(test.Logger(), state, conf.DefaultRoutes())
	config, err := locator.Config(cfg, redisCli)
	test.Assert().NoError(err)

	srv := httptest.NewServer(config.HttpHandler)
	t.Cleanup(srv.Close)
	t.Cleanup(state.Hub.Close)
	g.url = srv.URL
	return g
}

func (s *GatewayTestSuite) TestHealthAndCorrelationId() {
	test, require := test.New(s.T())
	g := s.newGateway(test, nil, nil)

	status, body, headers := g.do(s.T(), http.MethodGet, "/healthz", "", "x-correlation-id", "corr-42")
	require.Equal(http.StatusOK, status)
	require.JSONEq(`{"status":"ok"}`, body)
	require.Equal("corr-42", headers.Get("x-correlation-id"))

	_, _, headers = g.do(s.T(), http.MethodGet, "/healthz", "")
	require.NotEmpty(headers.Get("x-correlation-id"))

	status, body, _ = g.do(s.T(), http.MethodGet, "/nowhere", "")
	require.Equal(http.StatusNotFound, status)
	require.JSONEq(`{"error":"not_found","message":"route not found"}`, body)
}

func (s *GatewayTestSuite) TestHttpProxyWithHttpcli() {
	test, require := test.New(s.T())
	g := s.newGateway(test, nil, nil)
	g.parking.Handle(http.MethodPost, "/parking/reserve", respond(http.StatusOK, `{"id":"r1"}`))

	type reservation struct {
		Id string
	}
	resp := reservation{}
	_, err := httpcli.New().Post(g.url+"/api/parking/reserve").
		Header("x-correlation-id", "corr-1").
		JsonRequestBody(map[string]string{"spot": "A1"}).
		JsonResponseBody(&resp).
		StatusCodeToError().
		Do(context.Background())
	require.NoError(err)
	require.Equal("r1", resp.Id)

	calls := g.parking.Calls()
	require.Len(calls, 1)
	require.Equal("corr-1", calls[0].Header.Get("x-correlation-id"))

	_, err = httpcli.New().Get(g.url + "/api/secure/venues/v1").
		StatusCodeToError().
		Do(context.Background())
	errResp := httpcli.ErrorResponse{}
	require.ErrorAs(err, &errResp)
	require.EqualValues(http.StatusUnauthorized, errResp.StatusCode)
}

func (s *GatewayTestSuite) TestProxyPreservesMethodAndBody() {
	test, require := test.New(s.T())
	g := s.newGateway(test, nil, nil)

	status, _, _ := g.do(s.T(), http.MethodPatch, "/api/venues/v1?lang=en", `{"title":"New"}`)
	require.Equal(http.StatusOK, status)

	calls := g.venue.Calls()
	require.Len(calls, 1)
	require.Equal(http.MethodPatch, calls[0].Method)
	require.Equal("/venues/v1?lang=en", calls[0].Path)
	require.JSONEq(`{"title":"New"}`, calls[0].Body)
}

func (s *GatewayTestSuite) TestUpstreamDown() {
	test, require := test.New(s.T())
	g := s.newGateway(test, nil, nil)
	g.parking.Close()

	status, body, _ := g.do(s.T(), http.MethodGet, "/api/parking/search", "")
	require.Equal(http.StatusBadGateway, status)
	require.Contains(body, domain.ErrCodeUpstreamUnavailable)
}

func (s *GatewayTestSuite) TestSecureAndAdminNamespaces() {
	test, require := test.New(s.T())
	g := s.newGateway(test, nil, nil)
	user := "Bearer " + token(s.T(), "user-1", "user")
	admin := "Bearer " + token(s.T(), "admin-1", "admin")

	status, _, _ := g.do(s.T(), http.MethodGet, "/api/secure/venues/v1", "")
	require.Equal(http.StatusUnauthorized, status)
	status, _, _ = g.do(s.T(), http.MethodGet, "/api/secure/venues/v1", "", "Authorization", "Bearer broken")
	require.Equal(http.StatusUnauthorized, status)
	status, _, _ = g.do(s.T(), http.MethodGet, "/api/secure/venues/v1", "", "Authorization", user)
	require.Equal(http.StatusOK, status)

	status, body, _ := g.do(s.T(), http.MethodPost, "/api/admin/venues", `{"title":"Bar"}`, "Authorization", user)
	require.Equal(http.StatusForbidden, status)
	require.JSONEq(`{"error":"forbidden","message":"admin role required"}`, body)
	status, _, _ = g.do(s.T(), http.MethodPost, "/api/admin/venues", `{"title":"Bar"}`)
	require.Equal(http.StatusUnauthorized, status)
	require.Len(g.venue.Calls(), 1)

	status, _, _ = g.do(s.T(), http.MethodPost, "/api/admin/venues", `{"title":"Bar"}`, "Authorization", admin)
	require.Equal(http.StatusOK, status)
	calls := g.venue.Calls()
	require.Len(calls, 2)
	require.Equal("/admin/venues", calls[1].Path)

	status, body, _ = g.do(s.T(), http.MethodGet, "/api/auth/session", "", "Authorization", admin)
	require.Equal(http.StatusOK, status)
	require.JSONEq(`{"sub":"admin-1","roles":["admin"]}`, body)
}

func (s *GatewayTestSuite) TestAdminEnforcementCanBeDisabled() {
	test, require := test.New(s.T())
	g := s.newGateway(test, func(cfg *conf.Remote) {
		cfg.Auth.AdminEnforcementDisabled = true
	}, nil)

	status, _, _ := g.do(s.T(), http.MethodGet, "/api/admin/users", "")
	require.Equal(http.StatusOK, status)
}

func (s *GatewayTestSuite) TestRateLimit() {
	test, require := test.New(s.T())
	g := s.newGateway(test, nil, nil)

	for range 3 {
		status, _, _ := g.do(s.T(), http.MethodPost, "/api/auth/phone/start", `{"phone":"+15550100"}`)
		require.Equal(http.StatusOK, status)
	}
	status, body, headers := g.do(s.T(), http.MethodPost, "/api/auth/phone/start", `{"phone":"+15550100"}`)
	require.Equal(http.StatusTooManyRequests, status)
	require.Contains(body, domain.ErrCodeRateLimitExceeded)
	require.NotEmpty(headers.Get("Retry-After"))
	require.Len(g.auth.Calls(), 3)

	status, body, _ = g.do(s.T(), http.MethodGet, "/metrics", "")
	require.Equal(http.StatusOK, status)
	require.Contains(body, "bff_rate_limited_total 1")
	require.Contains(body, "bff_requests_total")
}

func (s *GatewayTestSuite) TestRateLimitWithRedis() {
	test, require := test.New(s.T())
	server := miniredis.RunT(s.T())
	redisCli := redis.NewClient(&redis.Options{Addr: server.Addr()})
	s.T().Cleanup(func() { _ = redisCli.Close() })

	g := s.newGateway(test, func(cfg *conf.Remote) {
		cfg.Redis = &conf.Redis{Address: server.Addr()}
		cfg.RateLimits = []conf.RateRule{{Method: http.MethodPost, Prefix: "/api/contacts/match", Limit: 1, WindowMs: 60_000}}
	}, redisCli)
	payload := fmt.Sprintf(`{"hashes":["%s"]}`, strings.Repeat("f", 64))

	status, _, _ := g.do(s.T(), http.MethodPost, "/api/contacts/match", payload)
	require.Equal(http.StatusOK, status)
	status, _, _ = g.do(s.T(), http.MethodPost, "/api/contacts/match", payload)
	require.Equal(http.StatusTooManyRequests, status)

	server.FastForward(time.Minute)
	status, _, _ = g.do(s.T(), http.MethodPost, "/api/contacts/match", payload)
	require.Equal(http.StatusOK, status)
}

func (s *GatewayTestSuite) TestAdmission() {
	test, require := test.New(s.T())
	g := s.newGateway(test, nil, nil)

	status, body, _ := g.do(s.T(), http.MethodPost, "/api/contacts/match", "hashes", "Content-Type", "text/plain")
	require.Equal(http.StatusUnsupportedMediaType, status)
	require.Contains(body, domain.ErrCodeUnsupportedMediaType)

	large := fmt.Sprintf(`{"hashes":["%s"]}`, strings.Repeat("a", 2000))
	status, body, _ = g.do(s.T(), http.MethodPost, "/api/contacts/match", large)
	require.Equal(http.StatusRequestEntityTooLarge, status)
	require.Contains(body, domain.ErrCodePayloadTooLarge)

	require.Empty(g.auth.Calls())
}

func (s *GatewayTestSuite) TestValidationStopsBeforeUpstream() {
	test, require := test.New(s.T())
	g := s.newGateway(test, nil, nil)

	status, body, _ := g.do(s.T(), http.MethodPatch, "/api/valet/vehicles/T-1/status", `{"status":"bogus"}`)
	require.Equal(http.StatusBadRequest, status)
	require.Contains(body, "invalid_status")

	status, body, _ = g.do(s.T(), http.MethodPost, "/api/auth/login", `{"email":"a@b.c"}`)
	require.Equal(http.StatusBadRequest, status)
	require.Contains(body, "invalid_credentials")

	status, body, _ = g.do(s.T(), http.MethodPatch, "/api/valet/vehicles/a%2Fb/status", `{"status":"bogus"}`)
	require.Equal(http.StatusBadRequest, status)
	require.Contains(body, domain.ErrCodeValidationFailed)

	require.Empty(g.valet.Calls())
	require.Empty(g.auth.Calls())
}

func (s *GatewayTestSuite) TestValetIntakeAndStatusEvents() {
	test, require := test.New(s.T())
	g := s.newGateway(test, nil, nil)
	g.valet.Handle(http.MethodPost, "/valet/intake", respond(http.StatusCreated, `{"ticket":"T-9","userId":"u1"}`))
	g.valet.Handle(http.MethodPatch, "/valet/vehicles/T-9/status", respond(http.StatusOK, `{"id":"T-9","status":"parked"}`))
	conn := g.dialRealtime(s.T())

	status, body, _ := g.do(s.T(), http.MethodPost, "/api/valet/intake",
		`{"userId":"u1","vehicle":{"make":"Tesla","model":"3"},"services":["basic_wash"]}`)
	require.Equal(http.StatusCreated, status)
	require.JSONEq(`{"ticket":"T-9","userId":"u1"}`, body)

	event := readEvent(s.T(), conn)
	require.Equal(domain.EventValetTask, event.Event)
	require.Equal("T-9", event.Data["id"])
	require.Equal(domain.ValetStatusIntake, event.Data["status"])

	status, _, _ = g.do(s.T(), http.MethodPatch, "/api/valet/vehicles/T-9/status", `{"status":"parked"}`)
	require.Equal(http.StatusOK, status)

	event = readEvent(s.T(), conn)
	require.Equal(domain.EventValetTask, event.Event)
	require.Equal(map[string]any{"id": "T-9", "status": "parked"}, event.Data)

	calls := g.valet.Calls()
	require.Len(calls, 2)
	require.Equal("/valet/vehicles/T-9/status", calls[1].Path)
}

func (s *GatewayTestSuite) TestWebhookRedelivery() {
	test, require := test.New(s.T())
	g := s.newGateway(test, nil, nil)
	conn := g.dialRealtime(s.T())
	payload := `{"id":"evt_77","type":"checkout.session.completed","data":{"object":{"id":"cs_1","metadata":{"ticketId":"t123"}}}}`

	status, body, _ := g.do(s.T(), http.MethodPost, "/api/payments/webhook", payload)
	require.Equal(http.StatusOK, status)
	require.JSONEq(`{"received":true}`, body)

	event := readEvent(s.T(), conn)
	require.Equal(domain.EventValetTask, event.Event)
	require.Equal("t123", event.Data["id"])
	require.Equal(domain.ValetStatusPaid, event.Data["status"])

	for range 2 {
		status, body, _ = g.do(s.T(), http.MethodPost, "/api/payments/webhook", payload)
		require.Equal(http.StatusOK, status)
		require.JSONEq(`{"received":true,"duplicate":true}`, body)
	}

	calls := g.valet.Calls()
	require.Len(calls, 1)
	require.Equal(http.MethodPost, calls[0].Method)
	require.Equal("/valet/tickets/t123/paid", calls[0].Path)

	_ = conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err := conn.ReadMessage()
	require.Error(err)
}

func (s *GatewayTestSuite) TestPaymentsNotConfigured() {
	test, require := test.New(s.T())
	g := s.newGateway(test, nil, nil)

	status, body, _ := g.do(s.T(), http.MethodPost, "/api/payments/checkout-session", `{"items":[{"amount":1500}]}`)
	require.Equal(http.StatusInternalServerError, status)
	require.Contains(body, domain.ErrCodeNotConfigured)

	status, _, _ = g.do(s.T(), http.MethodGet, "/api/payments/session", "")
	require.Equal(http.StatusBadRequest, status)
}

func (s *GatewayTestSuite) TestCheckoutRejectsFractionalAmount() {
	test, require := test.New(s.T())
	stripeApi := newUpstream(s.T())
	g := s.newGateway(test, func(cfg *conf.Remote) {
		cfg.Payments.StripeSecretKey = "sk_test_123"
		cfg.Payments.StripeApiUrl = stripeApi.URL
	}, nil)

	status, body, _ := g.do(s.T(), http.MethodPost, "/api/payments/checkout-session", `{"items":[{"amount":15.99}]}`)
	require.Equal(http.StatusBadRequest, status)
	require.Contains(body, domain.ErrCodeValidationFailed)
	require.Empty(stripeApi.Calls())
}

func (s *GatewayTestSuite) TestDiscoveryCards() {
	test, require := test.New(s.T())
	g := s.newGateway(test, nil, nil)
	g.venue.Handle(http.MethodGet, "/venues/discover", respond(http.StatusOK, `{"items":[{"id":"v1","title":"Bar","lat":1.5,"lng":2.5}]}`))
	g.parking.Handle(http.MethodGet, "/parking/search", respond(http.StatusServiceUnavailable, `{}`))

	status, body, _ := g.do(s.T(), http.MethodGet, "/api/discover/cards?interests=dining,valet", "")
	require.Equal(http.StatusOK, status)

	resp := domain.CardsResponse{}
	require.NoError(json.Unmarshal([]byte(body), &resp))
	require.Len(resp.Items, 2)
	ids := []string{resp.Items[0].Id, resp.Items[1].Id}
	require.ElementsMatch([]string{"v1", "valet-offer-1"}, ids)
}

func (s *GatewayTestSuite) TestPresenceAndDevices() {
	test, require := test.New(s.T())
	g := s.newGateway(test, nil, nil)
	conn := g.dialRealtime(s.T())

	status, body, _ := g.do(s.T(), http.MethodPost, "/api/presence", `{"userId":"u1","venueId":"v1","ttlSec":1}`)
	require.Equal(http.StatusOK, status)
	resp := domain.PresenceResponse{}
	require.NoError(json.Unmarshal([]byte(body), &resp))
	require.Equal("ok", resp.Status)

	event := readEvent(s.T(), conn)
	require.Equal(domain.EventPresenceVenue, event.Event)
	require.Equal("v1", event.Data["venueId"])

	status, _, _ = g.do(s.T(), http.MethodPost, "/api/presence", `{"userId":"u1"}`)
	require.Equal(http.StatusBadRequest, status)

	status, body, _ = g.do(s.T(), http.MethodPost, "/api/devices/register", `{"role":"driver","token":"ExponentPushToken[x]"}`)
	require.Equal(http.StatusOK, status)
	require.JSONEq(`{"status":"ok"}`, body)
	status, _, _ = g.do(s.T(), http.MethodPost, "/api/devices/register", `{"role":"driver"}`)
	require.Equal(http.StatusBadRequest, status)
}
