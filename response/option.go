package response

import "github.com/pb33f/browserkit/headers"

// Option configures a Response built by New.
type Option func(*config)

type config struct {
	content string
	status  int
	headers headers.Map
}

func newConfig() *config {
	return &config{
		status:  200,
		headers: headers.Map{},
	}
}

// WithContent sets the response body.
func WithContent(content string) Option {
	return func(c *config) {
		c.content = content
	}
}

// WithStatus sets the status code. Any integer is accepted.
func WithStatus(status int) Option {
	return func(c *config) {
		c.status = status
	}
}

// WithHeaders sets the raw headers.
func WithHeaders(h headers.Map) Option {
	return func(c *config) {
		if h != nil {
			c.headers = h
		}
	}
}

// WithHeader adds values for a single header on top of anything already set.
func WithHeader(name string, values ...string) Option {
	return func(c *config) {
		c.headers = c.headers.Clone()
		c.headers[name] = append(c.headers[name], values...)
	}
}
