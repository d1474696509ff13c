// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package jsonrpc2 is a JSON-RPC 2.0 client that speaks either plain TCP or
// HTTP, chosen once from the address scheme.
//
// # Transport Selection
//
//	tcp://host:port     one socket per call, newline separated JSON
//	http://host/path    one POST per call, JSON body
//	grpc://host:port    unary gRPC carrying the same JSON (-tags grpc)
//
// A TCP address without a port dials port 80. Over TCP the server may write
// several records before closing the connection; the result of the last
// one is used.
//
// # Usage
//
//	client, err := jsonrpc2.New("tcp://localhost:9000",
//	    jsonrpc2.WithTimeout(5*time.Second),
//	    jsonrpc2.WithLogger(jsonrpc2.ZapLogFunc(logger)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var sum int
//	err = client.Call(ctx, "add", []int{2, 3}, &sum)
//
//	// Asynchronous form
//	call := client.Go(ctx, "status", nil, jsonrpc2.Label("poll-1"))
//	<-call.Done()
//
// # Errors
//
// Error objects from the server are returned as *json2.Error with Code,
// Message and Data. A bare string error is returned as *StringError, except
// the string "not found", which older servers send for an empty result and
// is reported as success with no result. Transport failures are returned
// wrapped; timeouts match ErrTimeout with errors.Is.
//
// Every call, successful or not, produces exactly one Record for the
// LogFunc set with WithLogger.
package jsonrpc2
