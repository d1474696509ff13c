// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc2

import (
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultTimeout applies to calls when neither the client nor the call
// sets one.
const DefaultTimeout = 10 * time.Second

// Option configures a Client.
type Option func(*options)

type options struct {
	timeout     time.Duration
	logFn       LogFunc
	debug       *zap.Logger
	codec       Codec
	headers     http.Header
	queryParams url.Values
	limiter     *rate.Limiter
}

func newOptions(opts []Option) *options {
	o := &options{
		timeout:     DefaultTimeout,
		logFn:       nopLogFunc,
		debug:       zap.NewNop(),
		codec:       defaultCodec,
		headers:     http.Header{},
		queryParams: url.Values{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithTimeout sets the default per-call timeout. Non-positive values are
// ignored.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the hook that receives one Record per call.
func WithLogger(fn LogFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.logFn = fn
		}
	}
}

// WithDebugLogger sets the logger used for internal tracing.
func WithDebugLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.debug = l
		}
	}
}

// WithCodec sets the codec used to encode requests and decode replies.
func WithCodec(c Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithHeader adds a header to every HTTP request.
func WithHeader(key, value string) Option {
	return func(o *options) { o.headers.Add(key, value) }
}

// WithQueryParam adds a query parameter to every HTTP request.
func WithQueryParam(key, value string) Option {
	return func(o *options) { o.queryParams.Add(key, value) }
}

// WithRateLimiter makes every call wait on l before it is sent.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(o *options) { o.limiter = l }
}

// CallOption configures a single call.
type CallOption func(*callOptions)

type callOptions struct {
	timeout time.Duration
	async   bool
	label   string
}

func newCallOptions(opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Timeout overrides the client timeout for one call.
func Timeout(d time.Duration) CallOption {
	return func(o *callOptions) { o.timeout = d }
}

// Async sends the request without an id. The response is still awaited.
func Async() CallOption {
	return func(o *callOptions) { o.async = true }
}

// Label tags the call in log records and debug output. It is not sent to
// the server.
func Label(label string) CallOption {
	return func(o *callOptions) { o.label = label }
}
