// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc2

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// newHTTPClient creates an HTTP client with disabled connection reuse.
// The request deadline comes from the context, not from the client.
func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			DisableKeepAlives: true,
		},
	}
}

// CleanlyCloseBody drains and closes an HTTP response body to prevent
// HTTP/2 GOAWAY errors caused by closing bodies with unread data.
// See: https://github.com/golang/go/issues/46071
func CleanlyCloseBody(body io.ReadCloser) error {
	if body == nil {
		return nil
	}
	_, _ = io.Copy(io.Discard, body)
	return body.Close()
}

type httpTransport struct {
	uri     string
	headers http.Header
	codec   Codec
	client  *http.Client
	log     *zap.Logger
}

func newHTTPTransport(addr *url.URL, o *options) (Transport, error) {
	uri := *addr
	if len(o.queryParams) > 0 {
		q := uri.Query()
		for k, vs := range o.queryParams {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		uri.RawQuery = q.Encode()
	}
	return &httpTransport{
		uri:     uri.String(),
		headers: o.headers.Clone(),
		codec:   o.codec,
		client:  newHTTPClient(),
		log:     o.debug,
	}, nil
}

// RoundTrip sends req as a single POST and decodes the response body.
func (t *httpTransport) RoundTrip(ctx context.Context, req *Request) (json.RawMessage, error) {
	body, err := t.codec.Encode(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, t.uri, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header = t.headers.Clone()
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(request)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return nil, fmt.Errorf("failed to issue request: %w", err)
	}
	defer CleanlyCloseBody(resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if _, ok := parseResponse(data); !ok {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			t.log.Debug("non-JSON error response", zap.Int("status", resp.StatusCode), zap.Int("size", len(data)))
			return nil, &StatusError{StatusCode: resp.StatusCode}
		}
		t.log.Debug("response is not a JSON object, treating as empty", zap.Int("size", len(data)))
	}
	return decodeResponse(data)
}
