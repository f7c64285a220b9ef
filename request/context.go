package request

import (
	"context"
	"net/http"
	"strings"

	"bff-gateway/domain"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
)

type Context struct {
	request        *http.Request
	responseWriter http.ResponseWriter

	endpoint string

	authenticated bool
	claims        *domain.Claims

	rateRule *domain.RateRule
	body     []byte
	hasBody  bool

	queryParams map[string]string
}

func NewContext(request *http.Request, response http.ResponseWriter, endpoint string) *Context {
	return &Context{
		request:        request,
		responseWriter: response,
		endpoint:       endpoint,
	}
}

func (c *Context) Request() *http.Request {
	return c.request
}

func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.responseWriter
}

func (c *Context) SetResponseWriter(writer http.ResponseWriter) {
	c.responseWriter = writer
}

// Endpoint is the request path as received, before any proxy rewriting.
func (c *Context) Endpoint() string {
	return c.endpoint
}

func (c *Context) Authenticate(claims domain.Claims) {
	c.authenticated = true
	c.claims = &claims
}

func (c *Context) Claims() (domain.Claims, error) {
	if !c.authenticated {
		return domain.Claims{}, ErrNotAuthenticated
	}
	return *c.claims, nil
}

func (c *Context) Subject() string {
	if !c.authenticated {
		return ""
	}
	return c.claims.Subject
}

func (c *Context) SetRateRule(rule domain.RateRule) {
	c.rateRule = &rule
}

func (c *Context) RateRule() (domain.RateRule, bool) {
	if c.rateRule == nil {
		return domain.RateRule{}, false
	}
	return *c.rateRule, true
}

// SetBody keeps the already consumed request body for handlers further down the chain.
func (c *Context) SetBody(body []byte) {
	c.body = body
	c.hasBody = true
}

func (c *Context) Body() ([]byte, bool) {
	return c.body, c.hasBody
}

func (c *Context) PathParam(name string) string {
	return mux.Vars(c.request)[name]
}

func (c *Context) PathParams() map[string]string {
	return mux.Vars(c.request)
}

func (c *Context) Context() context.Context {
	return c.request.Context()
}

func (c *Context) SetContext(ctx context.Context) {
	c.request = c.request.WithContext(ctx)
}

func (c *Context) Param(name string) string {
	value := c.request.Header.Get(name)
	if value != "" {
		return strings.TrimSpace(value)
	}
	return c.Query(name)
}

func (c *Context) Query(name string) string {
	if c.queryParams == nil {
		query := c.request.URL.Query()
		c.queryParams = map[string]string{}
		for key, values := range query {
			if len(values) == 0 {
				continue
			}
			c.queryParams[strings.ToLower(key)] = values[0]
		}
	}
	return strings.TrimSpace(c.queryParams[strings.ToLower(name)])
}
