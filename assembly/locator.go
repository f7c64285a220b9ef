package assembly

import (
	"context"
	"math/rand/v2"
	"net/http"
	"sort"
	"strings"
	"time"

	"bff-gateway/cache"
	"bff-gateway/conf"
	"bff-gateway/domain"
	"bff-gateway/handler"
	"bff-gateway/httperrors"
	"bff-gateway/jobs"
	"bff-gateway/metrics"
	"bff-gateway/middleware"
	"bff-gateway/proxy"
	"bff-gateway/realtime"
	"bff-gateway/repository"
	"bff-gateway/request"
	"bff-gateway/service"
	"bff-gateway/validation"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/txix-open/isp-kit/http/httpcli"
	"github.com/txix-open/isp-kit/lb"
	"github.com/txix-open/isp-kit/log"
)

const (
	JobCoordinatesRefresh = "coordinates-refresh"
	JobGc                 = "gc"
	JobVibeTicker         = "vibe-ticker"

	sessionPath = "/api/auth/session"
)

// State outlives config reloads.
type State struct {
	Metrics     *metrics.Metrics
	Hub         *realtime.Hub
	Coordinates repository.Coordinates
	Devices     repository.Devices
	Presence    *cache.Cache[int64]
	RateBuckets repository.RateBuckets
	SeenEvents  repository.SeenEvents
}

func NewState(logger log.Logger) State {
	m := metrics.New()
	return State{
		Metrics:     m,
		Hub:         realtime.NewHub(logger, m),
		Coordinates: repository.NewCoordinates(),
		Devices:     repository.NewDevices(),
		Presence:    cache.New[int64](),
		RateBuckets: repository.NewRateBuckets(),
		SeenEvents:  repository.NewSeenEvents(),
	}
}

type Config struct {
	HttpHandler http.Handler
	Jobs        []jobs.Job
}

type Locator struct {
	logger log.Logger
	state  State
	routes []conf.ProxyRoute
	now    func() time.Time
	intn   func(n int) int
	random func() float64
}

func NewLocator(logger log.Logger, state State, routes []conf.ProxyRoute) Locator {
	return Locator{
		logger: logger,
		state:  state,
		routes: routes,
		now:    time.Now,
		intn:   rand.IntN,
		random: rand.Float64,
	}
}

func (l Locator) Config(cfg conf.Remote, redisCli redis.UniversalClient) (*Config, error) {
	hosts := map[string]*lb.RoundRobin{
		conf.UpstreamAuth:    lb.NewRoundRobin(cfg.Upstreams.Auth),
		conf.UpstreamVenue:   lb.NewRoundRobin(cfg.Upstreams.Venue),
		conf.UpstreamParking: lb.NewRoundRobin(cfg.Upstreams.Parking),
		conf.UpstreamValet:   lb.NewRoundRobin(cfg.Upstreams.Valet),
	}
	timeout := cfg.Http.GetProxyTimeout()
	m := l.state.Metrics

	var (
		rateBuckets service.RateBucketRepo = l.state.RateBuckets
		seenEvents  service.SeenEventsRepo = l.state.SeenEvents
	)
	if redisCli != nil {
		rateBuckets = repository.NewRedisRateBuckets(redisCli)
		seenEvents = repository.NewRedisSeenEvents(redisCli, service.SeenEventTtl)
	}

	cli := httpcli.New()
	venueRepo := repository.NewVenue(cli, hosts[conf.UpstreamVenue], timeout)
	parkingRepo := repository.NewParking(cli, hosts[conf.UpstreamParking], timeout)
	valetRepo := repository.NewValet(cli, hosts[conf.UpstreamValet], timeout)

	authentication := service.NewAuthentication(cfg.Auth.JwtSecret)
	policy := service.NewAccessPolicy(
		cfg.Auth.GetSecurePrefix(),
		cfg.Auth.GetAdminPrefix(),
		!cfg.Auth.AdminEnforcementDisabled,
		sessionPath,
	)
	throttling := service.NewThrottling(rateBuckets, rateRules(cfg.GetRateLimits()), l.now)
	idempotency := service.NewIdempotency(seenEvents, service.SeenEventTtl, l.now)
	validator, err := validation.New(validation.DefaultRules(cfg.Auth.GetAdminPrefix()))
	if err != nil {
		return nil, errors.WithMessage(err, "new validator")
	}

	var paymentProvider service.PaymentProvider
	if cfg.Payments.StripeSecretKey != "" {
		paymentProvider = repository.NewStripe(cfg.Payments.StripeSecretKey, cfg.Payments.StripeApiUrl)
	}
	payments := service.NewPayments(paymentProvider, cfg.Payments.GetSuccessUrl(), cfg.Payments.GetCancelUrl(), l.logger)
	webhook := service.NewWebhook(
		repository.NewStripeSignature(cfg.Payments.WebhookSecret),
		idempotency,
		valetRepo,
		l.state.Hub,
		m,
		l.logger,
		l.now,
	)
	discovery := service.NewDiscovery(venueRepo, parkingRepo, l.state.Coordinates, l.intn, l.logger)
	presence := service.NewPresence(l.state.Presence, l.state.Hub, l.logger, l.now)
	devices := service.NewDevices(l.state.Devices, l.logger)
	coordinates := service.NewCoordinates(venueRepo, l.state.Coordinates, l.logger)
	vibe := service.NewVibe(l.state.Coordinates, l.state.Hub, l.random, l.now)

	realtimeServer := realtime.NewServer(l.state.Hub, realtime.Settings{
		SendBufferSize: cfg.Realtime.GetSendBufferSize(),
		InboundRate:    cfg.Realtime.GetInboundRate(),
		InboundBurst:   cfg.Realtime.GetInboundBurst(),
		MaxMessageSize: cfg.Realtime.GetMaxMessageSize(),
	}, l.logger)

	paymentsHandler := handler.NewPayments(payments, webhook)
	valetProxy := proxy.NewHttp(proxy.Route{
		Upstream:        conf.UpstreamValet,
		InboundPrefix:   "/api/valet",
		RewrittenPrefix: "/valet",
	}, hosts[conf.UpstreamValet], timeout, m)

	mws := []middleware.Middleware{
		middleware.CorrelationId(),
		middleware.Metrics(m),
		middleware.Logger(
			l.logger,
			cfg.Logging.RequestLogEnable,
			cfg.Logging.BodyLogEnable,
			[]string{"/realtime", "/metrics"},
			cfg.Logging.UnescapeUnicode,
		),
		middleware.ErrorHandler(l.logger),
		middleware.Authenticate(authentication, policy),
		middleware.AdminAuthorize(policy),
		middleware.Throttling(throttling, m, cfg.Http.TrustForwardedFor),
		middleware.Admission(cfg.Http.GetMaxBodyBytes()),
		middleware.Validation(validator),
	}
	maxRequestBodySize := cfg.Http.GetMaxRequestBodySize()
	entrypoint := func(h middleware.HandlerFunc) http.Handler {
		return middleware.Entrypoint(maxRequestBodySize, middleware.Chain(h, mws...), l.logger)
	}

	router := mux.NewRouter()
	router.Handle("/healthz", entrypoint(handler.Health{}.Handle)).Methods(http.MethodGet)
	router.Handle("/metrics", entrypoint(handler.NewMetrics(m.Handler()).Handle)).Methods(http.MethodGet)
	router.Handle("/realtime", entrypoint(handler.NewRealtime(realtimeServer).Connect)).Methods(http.MethodGet)
	router.Handle(sessionPath, entrypoint(handler.Session{}.Handle)).Methods(http.MethodGet)
	router.Handle("/api/devices/register", entrypoint(handler.NewDevices(devices).Register)).Methods(http.MethodPost)
	router.Handle("/api/presence", entrypoint(handler.NewPresence(presence).Ping)).Methods(http.MethodPost)
	router.Handle("/api/payments/checkout-session", entrypoint(paymentsHandler.Checkout)).Methods(http.MethodPost)
	router.Handle("/api/payments/session", entrypoint(paymentsHandler.Session)).Methods(http.MethodGet)
	router.Handle("/api/payments/webhook", entrypoint(paymentsHandler.Webhook)).Methods(http.MethodPost)
	router.Handle("/api/discover/cards", entrypoint(handler.NewDiscovery(discovery).Cards)).Methods(http.MethodGet)
	router.Handle("/api/valet/intake", entrypoint(
		valetProxy.WithObserver(service.NewValetIntake(l.state.Hub, l.logger)).Handle,
	)).Methods(http.MethodPost)
	router.Handle("/api/valet/vehicles/{id}/status", entrypoint(
		valetProxy.WithObserver(service.NewValetStatus(l.state.Hub, l.logger)).Handle,
	)).Methods(http.MethodPatch)

	routes := append([]conf.ProxyRoute(nil), l.routes...)
	sort.Slice(routes, func(i, j int) bool {
		return len(routes[i].InboundPrefix) > len(routes[j].InboundPrefix)
	})
	for _, route := range routes {
		upstreamHosts, ok := hosts[route.Upstream]
		if !ok {
			return nil, errors.Errorf("unknown upstream '%s' for '%s'", route.Upstream, route.InboundPrefix)
		}
		p := proxy.NewHttp(proxy.Route{
			Upstream:        route.Upstream,
			InboundPrefix:   route.InboundPrefix,
			RewrittenPrefix: route.RewrittenPrefix,
		}, upstreamHosts, timeout, m)
		router.Handle(route.InboundPrefix, entrypoint(p.Handle))
		router.PathPrefix(route.InboundPrefix + "/").Handler(entrypoint(p.Handle))
	}
	router.NotFoundHandler = entrypoint(notFound)
	router.MethodNotAllowedHandler = entrypoint(methodNotAllowed)

	jobList := []jobs.Job{
		{
			Name:       JobCoordinatesRefresh,
			Interval:   cfg.Jobs.GetCoordinatesRefreshInterval(),
			RunAtStart: true,
			Run:        coordinates.Refresh,
		},
		{
			Name:     JobGc,
			Interval: cfg.Jobs.GetGcInterval(),
			Run: func(ctx context.Context) error {
				_, err := throttling.RemoveExpired(ctx)
				if err != nil {
					return err
				}
				_, err = idempotency.RemoveExpired(ctx)
				if err != nil {
					return err
				}
				presence.RemoveExpired(ctx)
				return nil
			},
		},
	}
	if cfg.Jobs.VibeTickerEnable {
		jobList = append(jobList, jobs.Job{
			Name:     JobVibeTicker,
			Interval: cfg.Jobs.GetVibeTickerInterval(),
			Run: func(ctx context.Context) error {
				vibe.Tick(ctx)
				return nil
			},
		})
	}

	rejectEncodedSlash := entrypoint(encodedSlash)
	httpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// routes, namespaces and validation globs all match on the decoded path
		if strings.Contains(strings.ToLower(r.URL.EscapedPath()), "%2f") {
			rejectEncodedSlash.ServeHTTP(w, r)
			return
		}
		router.ServeHTTP(w, r)
	})

	return &Config{
		HttpHandler: httpHandler,
		Jobs:        jobList,
	}, nil
}

func notFound(ctx *request.Context) error {
	return httperrors.New(
		http.StatusNotFound,
		domain.ErrCodeNotFound,
		"route not found",
		errors.Errorf("no route for %s %s", ctx.Request().Method, ctx.Endpoint()),
	)
}

func encodedSlash(ctx *request.Context) error {
	return httperrors.New(
		http.StatusBadRequest,
		domain.ErrCodeValidationFailed,
		"encoded slash is not allowed in path",
		errors.Errorf("encoded slash in %s", ctx.Request().URL.EscapedPath()),
	)
}

func methodNotAllowed(ctx *request.Context) error {
	return httperrors.New(
		http.StatusMethodNotAllowed,
		domain.ErrCodeMethodNotAllowed,
		"method not allowed",
		errors.Errorf("method %s is not allowed for %s", ctx.Request().Method, ctx.Endpoint()),
	)
}

func rateRules(rules []conf.RateRule) []domain.RateRule {
	result := make([]domain.RateRule, 0, len(rules))
	for _, rule := range rules {
		result = append(result, domain.RateRule{
			Method: rule.Method,
			Prefix: rule.Prefix,
			Limit:  rule.Limit,
			Window: time.Duration(rule.WindowMs) * time.Millisecond,
		})
	}
	return result
}
