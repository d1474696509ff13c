// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc2

import (
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

// New creates a client for address. The scheme picks the transport once:
// "tcp" speaks newline separated JSON over a socket, anything else
// (normally "http" or "https") posts JSON over HTTP.
func New(address string, opts ...Option) (*Client, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no scheme or host", ErrInvalidAddress, address)
	}

	o := newOptions(opts)
	transport, err := lookupTransport(u.Scheme)(u, o)
	if err != nil {
		return nil, fmt.Errorf("%s transport: %w", u.Scheme, err)
	}

	o.debug.Debug("client created", zap.String("addr", u.String()), zap.Duration("timeout", o.timeout))
	return &Client{
		addr:      u.String(),
		timeout:   o.timeout,
		transport: transport,
		codec:     o.codec,
		limiter:   o.limiter,
		logFn:     o.logFn,
		debug:     o.debug,
	}, nil
}

// NewWithTransport creates a client that sends every call through t.
// address is only used in log records.
func NewWithTransport(address string, t Transport, opts ...Option) *Client {
	o := newOptions(opts)
	return &Client{
		addr:      address,
		timeout:   o.timeout,
		transport: t,
		codec:     o.codec,
		limiter:   o.limiter,
		logFn:     o.logFn,
		debug:     o.debug,
	}
}
