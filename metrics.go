// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc2

import (
	"errors"
	"fmt"

	"github.com/gorilla/rpc/v2/json2"
	"github.com/prometheus/client_golang/prometheus"
)

// Call outcomes reported by Metrics.
const (
	OutcomeSuccess        = "success"
	OutcomeRPCError       = "rpc_error"
	OutcomeTimeout        = "timeout"
	OutcomeTransportError = "transport_error"
)

// Metrics counts calls and their latency. Use Observe as a LogFunc.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the request counter and duration histogram and registers
// both on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jsonrpc2",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Number of JSON-RPC calls by method and outcome.",
		}, []string{"method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jsonrpc2",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Round trip time of JSON-RPC calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	if err := reg.Register(m.requests); err != nil {
		return nil, fmt.Errorf("register requests: %w", err)
	}
	if err := reg.Register(m.duration); err != nil {
		return nil, fmt.Errorf("register duration: %w", err)
	}
	return m, nil
}

// Observe records r.
func (m *Metrics) Observe(r Record) {
	m.requests.WithLabelValues(r.Method, outcome(r.Error)).Inc()
	m.duration.WithLabelValues(r.Method).Observe(r.Duration.Seconds())
}

func outcome(err error) string {
	var (
		rpcErr *json2.Error
		strErr *StringError
	)
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &rpcErr), errors.As(err, &strErr):
		return OutcomeRPCError
	case errors.Is(err, ErrTimeout):
		return OutcomeTimeout
	default:
		return OutcomeTransportError
	}
}
