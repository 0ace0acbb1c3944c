package oauth

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const defaultTimeout = 10 * time.Second

type options struct {
	httpClient *http.Client
	timeout    time.Duration
	endpoint   *oauth2.Endpoint
	profileURL string
	jwksURL    string
}

type Option func(*options)

// WithHTTPClient sets the client used for token exchange and profile calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithTimeout bounds each Exchange call, covering every upstream request it makes.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithEndpoint overrides the provider's authorization and token URLs.
func WithEndpoint(e oauth2.Endpoint) Option {
	return func(o *options) { o.endpoint = &e }
}

// WithProfileURL overrides the Kakao user profile URL.
func WithProfileURL(u string) Option {
	return func(o *options) { o.profileURL = u }
}

// WithJWKSURL overrides the URL Google id_token signing keys are fetched from.
func WithJWKSURL(u string) Option {
	return func(o *options) { o.jwksURL = u }
}

func buildOptions(opts []Option) options {
	o := options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// bound applies the exchange timeout and makes oauth2 use the configured client.
func (o options) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
	}
	return context.WithTimeout(ctx, o.timeout)
}
