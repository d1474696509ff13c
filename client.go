// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc2

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client sends JSON-RPC 2.0 calls to one address. Its configuration is
// fixed at construction and it is safe for concurrent use.
type Client struct {
	addr      string
	timeout   time.Duration
	transport Transport
	codec     Codec
	limiter   *rate.Limiter
	logFn     LogFunc
	debug     *zap.Logger
}

// Call is an in-flight call returned by Client.Go.
type Call struct {
	Method string
	// Result is the raw result, nil when the server sent none.
	Result json.RawMessage
	Error  error

	done chan struct{}
}

// Done is closed once Result and Error are set.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call completes.
func (c *Call) Wait() (json.RawMessage, error) {
	<-c.done
	return c.Result, c.Error
}

// Addr returns the formatted target address.
func (c *Client) Addr() string {
	return c.addr
}

// Go starts a call and returns immediately. The returned Call completes
// exactly once, after the log record for it has been emitted.
func (c *Client) Go(ctx context.Context, method string, params interface{}, opts ...CallOption) *Call {
	o := newCallOptions(opts)
	req := newRequest(method, params, o.async)
	call := &Call{Method: method, done: make(chan struct{})}

	timeout := c.timeout
	if o.timeout > 0 {
		timeout = o.timeout
	}

	start := time.Now()
	go func() {
		result, err := c.roundTrip(ctx, req, timeout)
		duration := time.Since(start)

		if err != nil {
			c.debug.Debug("error for call", zap.String("label", o.label), zap.String("method", method), zap.Error(err))
		} else {
			c.debug.Debug("success for call", zap.String("label", o.label), zap.String("method", method), zap.ByteString("result", result))
		}
		c.emit(Record{
			Addr:     c.addr,
			Method:   method,
			Params:   params,
			Duration: duration,
			Result:   result,
			Error:    err,
			Label:    o.label,
		})

		call.Result, call.Error = result, err
		close(call.done)
	}()
	return call
}

func (c *Client) roundTrip(ctx context.Context, req *Request, timeout time.Duration) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}
	return c.transport.RoundTrip(ctx, req)
}

// CallRaw makes a call and returns the raw result.
func (c *Client) CallRaw(ctx context.Context, method string, params interface{}, opts ...CallOption) (json.RawMessage, error) {
	return c.Go(ctx, method, params, opts...).Wait()
}

// Call makes a call and decodes the result into reply. reply is left
// untouched when it is nil or the server sent no result.
func (c *Client) Call(ctx context.Context, method string, params, reply interface{}, opts ...CallOption) error {
	result, err := c.CallRaw(ctx, method, params, opts...)
	if err != nil {
		return err
	}
	if reply != nil && len(result) > 0 {
		if err := c.codec.Decode(result, reply); err != nil {
			return fmt.Errorf("decode reply: %w", err)
		}
	}
	return nil
}

// Notify sends the call without an id. The server's answer is still read
// and any error in it is returned.
func (c *Client) Notify(ctx context.Context, method string, params interface{}, opts ...CallOption) error {
	_, err := c.CallRaw(ctx, method, params, append(opts, Async())...)
	return err
}

// Close releases resources held by the transport. HTTP and TCP transports
// hold none between calls.
func (c *Client) Close() error {
	if closer, ok := c.transport.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
