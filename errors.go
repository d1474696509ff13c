// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc2

import (
	"errors"
	"fmt"
)

var (
	ErrNoResponse      = errors.New("jsonrpc2: no response received before connection close")
	ErrTimeout         = errors.New("jsonrpc2: request timeout")
	ErrInvalidResponse = errors.New("jsonrpc2: invalid response")
	ErrInvalidAddress  = errors.New("jsonrpc2: invalid address")
)

// StringError is returned when the server reports a bare string in the
// error member instead of an error object.
type StringError struct {
	Message string
}

func (e *StringError) Error() string {
	return e.Message
}

// StatusError is returned by the HTTP transport when the server answers
// with a non-2xx status and a body that is not a JSON-RPC response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("jsonrpc2: received status code %d", e.StatusCode)
}
