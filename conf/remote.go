package conf

import (
	"reflect"
	"time"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/log"
	"github.com/txix-open/isp-kit/rc/schema"
	"github.com/txix-open/jsonschema"
)

// nolint:gochecknoinits
func init() {
	schema.CustomGenerators.Register("logLevel", func(field reflect.StructField, t *jsonschema.Schema) {
		t.Type = "string"
		t.Enum = []interface{}{"debug", "info", "error", "fatal"}
	})
}

type Remote struct {
	Redis      *Redis     `schema:"Redis settings,when set rate buckets and webhook dedupe are shared between instances"`
	Http       Http       `schema:"HTTP settings"`
	Logging    Logging    `schema:"Logging settings"`
	Auth       Auth       `schema:"Bearer token settings"`
	Upstreams  Upstreams  `schema:"Upstream services"`
	RateLimits []RateRule `schema:"Fixed window rate limits,default rules are used when empty"`
	Payments   Payments   `schema:"Payment provider settings"`
	Jobs       Jobs       `schema:"Background jobs"`
	Realtime   Realtime   `schema:"Realtime fan-out settings"`
}

type Http struct {
	MaxBodyBytes           int64 `schema:"Max body size for rate limited write routes,in bytes, default 10000"`
	MaxRequestBodySizeInMb int64 `schema:"Max proxied request body size,in megabytes, default 10"`
	ProxyTimeoutInSec      int   `schema:"Upstream call timeout,in seconds, default 15"`
	TrustForwardedFor      bool  `schema:"Use X-Forwarded-For as client address"`
}

type Logging struct {
	LogLevel         log.Level `schemaGen:"logLevel" schema:"Log level,requests are logged at debug level"`
	RequestLogEnable bool      `schema:"Enable request logging"`
	BodyLogEnable    bool      `schema:"Enable request and response body logging,request logging must be enabled"`
	UnescapeUnicode  bool      `schema:"Unescape unicode sequences in logged request bodies"`
}

type Auth struct {
	JwtSecret                string `validate:"required" schema:"HS256 shared secret"`
	SecurePrefix             string `schema:"Namespace requiring a valid token,default /api/secure"`
	AdminPrefix              string `schema:"Namespace requiring admin role,default /api/admin"`
	AdminEnforcementDisabled bool   `schema:"Disable admin role check,local development only"`
}

type Upstreams struct {
	Auth    []string `validate:"required,min=1" schema:"Auth service base urls"`
	Venue   []string `validate:"required,min=1" schema:"Venue service base urls"`
	Parking []string `validate:"required,min=1" schema:"Parking service base urls"`
	Valet   []string `validate:"required,min=1" schema:"Valet service base urls"`
}

type RateRule struct {
	Method   string `validate:"required" schema:"HTTP method"`
	Prefix   string `validate:"required" schema:"Path prefix"`
	Limit    int64  `validate:"required,min=1" schema:"Requests per window"`
	WindowMs int64  `validate:"required,min=1" schema:"Window length,in milliseconds"`
}

type Payments struct {
	StripeSecretKey string `schema:"Stripe secret key,checkout is disabled when empty"`
	WebhookSecret   string `schema:"Webhook signing secret,signature is not checked when empty"`
	SuccessUrl      string `schema:"Default checkout success url"`
	CancelUrl       string `schema:"Default checkout cancel url"`
	StripeApiUrl    string `schema:"Stripe API url override"`
}

type Jobs struct {
	CoordinatesRefreshInSec int  `schema:"Venue coordinates refresh interval,default 30"`
	GcIntervalInSec         int  `schema:"Webhook dedupe and presence GC interval,default 600"`
	VibeTickerEnable        bool `schema:"Enable synthetic vibe updates"`
	VibeTickerInSec         int  `schema:"Vibe ticker interval,default 5"`
}

type Realtime struct {
	SendBufferSize     int     `schema:"Per connection outgoing buffer,default 64"`
	InboundRatePerSec  float64 `schema:"Inbound messages per second per connection,default 5"`
	InboundBurst       int     `schema:"Inbound burst per connection,default 10"`
	MaxMessageSizeByte int64   `schema:"Max inbound message size,default 4096"`
}

type Redis struct {
	Address  string         `schema:"Address,required when sentinel is not set"`
	Username string         `schema:"Username"`
	Password string         `schema:"Password"`
	Sentinel *RedisSentinel `schema:"Sentinel settings,required when address is not set"`
}

type RedisSentinel struct {
	Addresses  []string `validate:"required" schema:"Node addresses"`
	MasterName string   `validate:"required" schema:"Master name"`
	Username   string   `schema:"Sentinel username"`
	Password   string   `schema:"Sentinel password"`
}

func (r Remote) Validate() error {
	if r.Redis != nil && r.Redis.Sentinel == nil && r.Redis.Address == "" {
		return errors.New("invalid redis config. sentinel or address are required")
	}
	for _, rule := range r.RateLimits {
		if rule.Limit <= 0 || rule.WindowMs <= 0 {
			return errors.Errorf("invalid rate limit for %s %s", rule.Method, rule.Prefix)
		}
	}
	return nil
}

func (h Http) GetProxyTimeout() time.Duration {
	if h.ProxyTimeoutInSec <= 0 {
		return defaultProxyTimeout
	}
	return time.Duration(h.ProxyTimeoutInSec) * time.Second
}

func (h Http) GetMaxBodyBytes() int64 {
	if h.MaxBodyBytes <= 0 {
		return defaultMaxBodyBytes
	}
	return h.MaxBodyBytes
}

func (h Http) GetMaxRequestBodySize() int64 {
	if h.MaxRequestBodySizeInMb <= 0 {
		return defaultMaxRequestBodySize
	}
	return h.MaxRequestBodySizeInMb * MB
}

func (a Auth) GetSecurePrefix() string {
	if a.SecurePrefix == "" {
		return defaultSecurePrefix
	}
	return a.SecurePrefix
}

func (a Auth) GetAdminPrefix() string {
	if a.AdminPrefix == "" {
		return defaultAdminPrefix
	}
	return a.AdminPrefix
}

func (r Remote) GetRateLimits() []RateRule {
	if len(r.RateLimits) == 0 {
		return DefaultRateLimits()
	}
	return r.RateLimits
}

func (p Payments) GetSuccessUrl() string {
	if p.SuccessUrl == "" {
		return defaultSuccessUrl
	}
	return p.SuccessUrl
}

func (p Payments) GetCancelUrl() string {
	if p.CancelUrl == "" {
		return defaultCancelUrl
	}
	return p.CancelUrl
}

func (j Jobs) GetCoordinatesRefreshInterval() time.Duration {
	return secondsOr(j.CoordinatesRefreshInSec, defaultCoordinatesRefresh)
}

func (j Jobs) GetGcInterval() time.Duration {
	return secondsOr(j.GcIntervalInSec, defaultGcInterval)
}

func (j Jobs) GetVibeTickerInterval() time.Duration {
	return secondsOr(j.VibeTickerInSec, defaultVibeTicker)
}

func (r Realtime) GetSendBufferSize() int {
	if r.SendBufferSize <= 0 {
		return defaultSendBufferSize
	}
	return r.SendBufferSize
}

func (r Realtime) GetInboundRate() float64 {
	if r.InboundRatePerSec <= 0 {
		return defaultInboundRate
	}
	return r.InboundRatePerSec
}

func (r Realtime) GetInboundBurst() int {
	if r.InboundBurst <= 0 {
		return defaultInboundBurst
	}
	return r.InboundBurst
}

func (r Realtime) GetMaxMessageSize() int64 {
	if r.MaxMessageSizeByte <= 0 {
		return defaultMaxMessageSize
	}
	return r.MaxMessageSizeByte
}

func secondsOr(value int, def time.Duration) time.Duration {
	if value <= 0 {
		return def
	}
	return time.Duration(value) * time.Second
}
