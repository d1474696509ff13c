// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc2

import (
	"bufio"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// serveTCP starts a listener that reads one request line per connection
// and hands it to handle. The connection is closed when handle returns.
func serveTCP(t *testing.T, handle func(conn net.Conn, req Request)) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				line, err := bufio.NewReader(conn).ReadBytes('\n')
				if err != nil {
					return
				}
				var req Request
				if err := json.Unmarshal(line, &req); err != nil {
					return
				}
				handle(conn, req)
			}()
		}
	}()
	return "tcp://" + ln.Addr().String()
}

// serveHTTP starts a server that answers every request with status and body
// and records the decoded requests.
func serveHTTP(t *testing.T, status int, body string) (*httptest.Server, *requestLog) {
	t.Helper()

	reqs := &requestLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			reqs.add(r, req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, reqs
}

type requestLog struct {
	mu       sync.Mutex
	requests []Request
	http     []*http.Request
}

func (l *requestLog) add(r *http.Request, req Request) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, req)
	l.http = append(l.http, r)
}

func (l *requestLog) all() ([]Request, []*http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Request(nil), l.requests...), append([]*http.Request(nil), l.http...)
}

// recorder collects log records.
type recorder struct {
	mu      sync.Mutex
	records []Record
}

func (r *recorder) log(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

func (r *recorder) all() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}
