//go:build grpc

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// GRPCMethod is the full method name used to carry JSON-RPC documents.
const GRPCMethod = "/jsonrpc2.JSONRPC/Call"

func init() {
	// Register gRPC transport when build tag is enabled
	registerTransport(SchemeGRPC, newGRPCTransport)
}

// grpcCodec marshals messages with the client codec. Responses are kept as
// raw bytes so they go through the same decoding as HTTP bodies.
type grpcCodec struct {
	codec Codec
}

func (c grpcCodec) Marshal(v interface{}) ([]byte, error) {
	if b, ok := v.(*json.RawMessage); ok {
		return *b, nil
	}
	return c.codec.Encode(v)
}

func (c grpcCodec) Unmarshal(data []byte, v interface{}) error {
	if b, ok := v.(*json.RawMessage); ok {
		*b = append((*b)[:0], data...)
		return nil
	}
	return c.codec.Decode(data, v)
}

func (grpcCodec) Name() string {
	return "json"
}

type grpcTransport struct {
	conn  *grpc.ClientConn
	codec grpcCodec
}

func newGRPCTransport(addr *url.URL, o *options) (Transport, error) {
	port := addr.Port()
	if port == "" {
		port = DefaultPort
	}
	conn, err := grpc.NewClient(net.JoinHostPort(addr.Hostname(), port),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("grpc dial: %w", err)
	}
	return &grpcTransport{conn: conn, codec: grpcCodec{codec: o.codec}}, nil
}

func (t *grpcTransport) RoundTrip(ctx context.Context, req *Request) (json.RawMessage, error) {
	var resp json.RawMessage
	err := t.conn.Invoke(ctx, GRPCMethod, req, &resp, grpc.ForceCodec(t.codec))
	if err != nil {
		if status.Code(err) == codes.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: grpc: %w", ErrTimeout, err)
		}
		return nil, fmt.Errorf("grpc invoke: %w", err)
	}
	return decodeResponse(resp)
}

// Close releases the underlying gRPC connection.
func (t *grpcTransport) Close() error {
	return t.conn.Close()
}
