package proxy

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"bff-gateway/domain"
	"bff-gateway/helpers"
	"bff-gateway/httperrors"
	"bff-gateway/request"

	"github.com/pkg/errors"
)

type Observer interface {
	Observe(ctx context.Context, exchange domain.Exchange)
}

type UpstreamMetrics interface {
	UpstreamError(upstream string)
}

type Route struct {
	Upstream        string
	InboundPrefix   string
	RewrittenPrefix string
}

// Http forwards a request to one of the upstream hosts replacing the inbound path prefix.
type Http struct {
	route    Route
	hosts    helpers.HostManager
	timeout  time.Duration
	metrics  UpstreamMetrics
	observer Observer
}

func NewHttp(route Route, hosts helpers.HostManager, timeout time.Duration, metrics UpstreamMetrics) Http {
	return Http{
		route:   route,
		hosts:   hosts,
		timeout: timeout,
		metrics: metrics,
	}
}

// WithObserver returns a copy that reports every successful exchange to observer.
func (p Http) WithObserver(observer Observer) Http {
	p.observer = observer
	return p
}

func (p Http) Handle(ctx *request.Context) error {
	target, err := helpers.NextBaseUrl(p.hosts)
	if err != nil {
		p.metrics.UpstreamError(p.route.Upstream)
		return p.unavailable(errors.WithMessage(err, "http proxy"))
	}

	req := ctx.Request()
	requestBody, err := p.requestBody(ctx)
	if err != nil {
		return errors.WithMessage(err, "http proxy: read request body")
	}

	outRawPath := p.route.RewrittenPrefix + strings.TrimPrefix(req.URL.EscapedPath(), p.route.InboundPrefix)
	outPath, err := url.PathUnescape(outRawPath)
	if err != nil {
		return errors.WithMessage(err, "http proxy: unescape path")
	}
	var (
		resultError error
		exchange    *domain.Exchange
	)
	reverseProxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.URL.Path = target.Path + outPath
			pr.Out.URL.RawPath = target.EscapedPath() + outRawPath
			pr.SetXForwarded()
			if p.observer != nil {
				pr.Out.Header.Del("Accept-Encoding")
			}
		},
		ErrorHandler: func(writer http.ResponseWriter, request *http.Request, err error) {
			p.metrics.UpstreamError(p.route.Upstream)
			resultError = p.unavailable(errors.WithMessagef(err, "http proxy to %s", target.Host))
		},
	}
	if p.observer != nil {
		reverseProxy.ModifyResponse = func(resp *http.Response) error {
			if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
				return nil
			}
			responseBody, err := io.ReadAll(resp.Body)
			if err != nil {
				return errors.WithMessage(err, "read upstream response")
			}
			_ = resp.Body.Close()
			resp.Body = io.NopCloser(bytes.NewReader(responseBody))
			exchange = &domain.Exchange{
				PathParams:   ctx.PathParams(),
				StatusCode:   resp.StatusCode,
				RequestBody:  requestBody,
				ResponseBody: responseBody,
			}
			return nil
		}
	}

	timeoutCtx, cancel := context.WithTimeout(req.Context(), p.timeout)
	defer cancel()
	reverseProxy.ServeHTTP(ctx.ResponseWriter(), req.WithContext(timeoutCtx))
	if resultError != nil {
		return resultError
	}

	if exchange != nil {
		p.observer.Observe(ctx.Context(), *exchange)
	}
	return nil
}

func (p Http) requestBody(ctx *request.Context) ([]byte, error) {
	if p.observer == nil {
		return nil, nil
	}
	body, ok := ctx.Body()
	if !ok {
		req := ctx.Request()
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		body = data
	}
	ctx.Request().Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

func (p Http) unavailable(err error) error {
	return httperrors.New(
		http.StatusBadGateway,
		domain.ErrCodeUpstreamUnavailable,
		"upstream is not available",
		err,
	)
}
