// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc2

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/google/uuid"
)

// Version is the JSON-RPC protocol version sent with every request.
const Version = "2.0"

// Request is a JSON-RPC 2.0 request object. ID is nil for async calls and
// is then encoded as null.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      *string     `json:"id"`
}

// newRequest builds the request sent for one call.
func newRequest(method string, params interface{}, async bool) *Request {
	req := &Request{
		JSONRPC: Version,
		Method:  method,
		Params:  normalizeParams(params),
	}
	if !async {
		id := uuid.NewString()
		req.ID = &id
	}
	return req
}

// normalizeParams wraps anything that is not already an ordered sequence
// into a single element sequence.
func normalizeParams(params interface{}) interface{} {
	switch p := params.(type) {
	case nil:
		return []interface{}{nil}
	case json.RawMessage:
		if trimmed := bytes.TrimSpace(p); len(trimmed) > 0 && trimmed[0] == '[' {
			return p
		}
		return []interface{}{p}
	case []byte:
		return []interface{}{p}
	}

	switch reflect.TypeOf(params).Kind() {
	case reflect.Slice:
		if reflect.ValueOf(params).IsNil() {
			return []interface{}{}
		}
		return params
	case reflect.Array:
		return params
	default:
		return []interface{}{params}
	}
}
