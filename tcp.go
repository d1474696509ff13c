// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc2

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"sync"

	"go.uber.org/zap"
)

const (
	// DefaultPort is dialed when the address has no port.
	DefaultPort = "80"

	maxRecordSize = 64 * 1024 * 1024 // 64MB max
)

// completion holds the outcome of one exchange. Only the first call to
// finish is kept.
type completion struct {
	once   sync.Once
	done   chan struct{}
	result json.RawMessage
	err    error
}

func newCompletion() *completion {
	return &completion{done: make(chan struct{})}
}

// finish records the outcome and reports whether it was the first one.
func (c *completion) finish(result json.RawMessage, err error) bool {
	first := false
	c.once.Do(func() {
		c.result, c.err = result, err
		close(c.done)
		first = true
	})
	return first
}

func (c *completion) wait() (json.RawMessage, error) {
	<-c.done
	return c.result, c.err
}

type tcpTransport struct {
	addr  string
	codec Codec
	log   *zap.Logger
}

func newTCPTransport(addr *url.URL, o *options) (Transport, error) {
	port := addr.Port()
	if port == "" {
		port = DefaultPort
	}
	return &tcpTransport{
		addr:  net.JoinHostPort(addr.Hostname(), port),
		codec: o.codec,
		log:   o.debug,
	}, nil
}

// RoundTrip opens a connection for this request only, writes the request
// and reads newline separated records until the server closes the
// connection. The result of the last record is returned.
func (t *tcpTransport) RoundTrip(ctx context.Context, req *Request) (json.RawMessage, error) {
	body, err := t.codec.Encode(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return nil, tcpError(ctx, "dial", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c := newCompletion()
	stop := context.AfterFunc(ctx, func() {
		c.finish(nil, tcpError(ctx, "read", ctx.Err()))
		conn.Close()
	})
	defer stop()

	go t.readRecords(ctx, conn, c)

	if _, err := conn.Write(append(body, '\n')); err != nil {
		c.finish(nil, tcpError(ctx, "write", err))
	}
	return c.wait()
}

func (t *tcpTransport) readRecords(ctx context.Context, conn net.Conn, c *completion) {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)

	var last json.RawMessage
	records := 0
	for scanner.Scan() {
		record := bytes.TrimSpace(scanner.Bytes())
		if len(record) == 0 {
			continue
		}
		if !json.Valid(record) {
			c.finish(nil, fmt.Errorf("%w: malformed record %d", ErrInvalidResponse, records+1))
			return
		}
		last = append(last[:0], record...)
		records++
	}
	if err := scanner.Err(); err != nil {
		c.finish(nil, tcpError(ctx, "read", err))
		return
	}
	if last == nil {
		c.finish(nil, ErrNoResponse)
		return
	}

	t.log.Debug("connection closed", zap.String("addr", t.addr), zap.Int("records", records))
	c.finish(recordResult(last), nil)
}

// recordResult returns the result member of record, or nil when the record
// is not an object or has no result.
func recordResult(record json.RawMessage) json.RawMessage {
	var resp response
	if err := json.Unmarshal(record, &resp); err != nil || isNull(resp.Result) {
		return nil
	}
	return resp.Result
}

func tcpError(ctx context.Context, op string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: tcp %s: %w", ErrTimeout, op, err)
	case errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("tcp %s: %w", op, ctx.Err())
	}
	return fmt.Errorf("tcp %s: %w", op, err)
}
