package conf

const (
	UpstreamAuth    = "auth"
	UpstreamVenue   = "venue"
	UpstreamParking = "parking"
	UpstreamValet   = "valet"
)

type Local struct {
	Routes []ProxyRoute
}

type ProxyRoute struct {
	InboundPrefix   string `validate:"required"`
	Upstream        string `validate:"required,oneof=auth venue parking valet"`
	RewrittenPrefix string `validate:"required"`
}

func (l Local) GetRoutes() []ProxyRoute {
	if len(l.Routes) == 0 {
		return DefaultRoutes()
	}
	return l.Routes
}

func DefaultRoutes() []ProxyRoute {
	return []ProxyRoute{
		{InboundPrefix: "/api/auth", Upstream: UpstreamAuth, RewrittenPrefix: "/auth"},
		{InboundPrefix: "/api/secure/venues", Upstream: UpstreamVenue, RewrittenPrefix: "/venues"},
		{InboundPrefix: "/api/venues", Upstream: UpstreamVenue, RewrittenPrefix: "/venues"},
		{InboundPrefix: "/api/parking", Upstream: UpstreamParking, RewrittenPrefix: "/parking"},
		{InboundPrefix: "/api/valet", Upstream: UpstreamValet, RewrittenPrefix: "/valet"},
		{InboundPrefix: "/api/host", Upstream: UpstreamAuth, RewrittenPrefix: "/host"},
		{InboundPrefix: "/api/contacts", Upstream: UpstreamAuth, RewrittenPrefix: "/contacts"},
		{InboundPrefix: "/api/admin", Upstream: UpstreamVenue, RewrittenPrefix: "/admin"},
	}
}
