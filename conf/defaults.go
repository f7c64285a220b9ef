package conf

import (
	"net/http"
	"time"
)

const (
	KB = int64(1024)
	MB = int64(1 << 20)

	defaultProxyTimeout       = 15 * time.Second
	defaultMaxBodyBytes       = 10_000
	defaultMaxRequestBodySize = 10 * MB
	defaultSecurePrefix       = "/api/secure"
	defaultAdminPrefix        = "/api/admin"
	defaultSuccessUrl         = "https://example.com/success"
	defaultCancelUrl          = "https://example.com/cancel"
	defaultCoordinatesRefresh = 30 * time.Second
	defaultGcInterval         = 10 * time.Minute
	defaultVibeTicker         = 5 * time.Second
	defaultSendBufferSize     = 64
	defaultInboundRate        = 5
	defaultInboundBurst       = 10
	defaultMaxMessageSize     = 4 * KB

	defaultRateWindowMs = 60_000
)

func DefaultRateLimits() []RateRule {
	return []RateRule{
		{Method: http.MethodPost, Prefix: "/api/venues/", Limit: 30, WindowMs: defaultRateWindowMs},
		{Method: http.MethodPost, Prefix: "/api/auth/phone/start", Limit: 3, WindowMs: defaultRateWindowMs},
		{Method: http.MethodPost, Prefix: "/api/auth/phone/verify", Limit: 6, WindowMs: defaultRateWindowMs},
		{Method: http.MethodPost, Prefix: "/api/contacts/match", Limit: 5, WindowMs: defaultRateWindowMs},
	}
}
