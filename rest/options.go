package rest

import "net/url"

// requestOptions holds options for a single request.
type requestOptions struct {
	headers map[string]string
	query   url.Values
}

func newRequestOptions(opts []Option) *requestOptions {
	o := &requestOptions{
		headers: make(map[string]string),
		query:   make(url.Values),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option configures a request.
type Option func(*requestOptions)

// WithHeader sets a custom header.
func WithHeader(key, value string) Option {
	return func(o *requestOptions) {
		o.headers[key] = value
	}
}

// WithContentType sets the Content-Type header.
func WithContentType(contentType string) Option {
	return WithHeader("Content-Type", contentType)
}

// WithQuery adds a query parameter.
func WithQuery(key, value string) Option {
	return func(o *requestOptions) {
		o.query.Add(key, value)
	}
}

// WithQueryParams adds multiple query parameters.
func WithQueryParams(params map[string]string) Option {
	return func(o *requestOptions) {
		for k, v := range params {
			o.query.Add(k, v)
		}
	}
}
