// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc2

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"sync"
)

// Address schemes with a dedicated transport. Any other scheme is sent over
// HTTP.
const (
	SchemeTCP  = "tcp"
	SchemeGRPC = "grpc" // requires build tag
)

// Transport carries a single request to the server and returns the raw
// result. The deadline for the exchange is carried by ctx.
type Transport interface {
	RoundTrip(ctx context.Context, req *Request) (json.RawMessage, error)
}

type transportFactory func(addr *url.URL, o *options) (Transport, error)

var (
	transportsMu sync.RWMutex
	transports   = map[string]transportFactory{
		SchemeTCP: newTCPTransport,
	}
)

// registerTransport registers a new transport (used by build tags)
func registerTransport(scheme string, factory transportFactory) {
	transportsMu.Lock()
	defer transportsMu.Unlock()
	transports[scheme] = factory
}

// lookupTransport returns the factory for scheme, falling back to HTTP.
func lookupTransport(scheme string) transportFactory {
	transportsMu.RLock()
	defer transportsMu.RUnlock()
	if f, ok := transports[scheme]; ok {
		return f
	}
	return newHTTPTransport
}

// AvailableSchemes returns the schemes with a dedicated transport.
func AvailableSchemes() []string {
	transportsMu.RLock()
	defer transportsMu.RUnlock()
	result := make([]string, 0, len(transports))
	for scheme := range transports {
		result = append(result, scheme)
	}
	sort.Strings(result)
	return result
}

// HasScheme checks if scheme has a dedicated transport
func HasScheme(scheme string) bool {
	transportsMu.RLock()
	defer transportsMu.RUnlock()
	_, ok := transports[scheme]
	return ok
}
