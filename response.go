// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc2

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gorilla/rpc/v2/json2"
)

// notFound is a legacy server reply that is treated as an empty success.
const notFound = "not found"

type response struct {
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

// decodeResponse extracts the result from a JSON-RPC response document. An
// empty document, or one that is not a JSON object, is treated as {}.
func decodeResponse(data []byte) (json.RawMessage, error) {
	resp, _ := parseResponse(data)
	if err := responseError(resp.Error); err != nil {
		return nil, err
	}
	if isNull(resp.Result) {
		return nil, nil
	}
	return resp.Result, nil
}

// parseResponse reports whether data is empty or decodes into a response
// object. A zero response is returned otherwise.
func parseResponse(data []byte) (response, bool) {
	var resp response
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return resp, true
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return response{}, false
	}
	return resp, true
}

// responseError converts the error member into a Go error. Falsy values and
// the "not found" string mean no error.
func responseError(raw json.RawMessage) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	switch raw[0] {
	case '[':
		// arrays carry no message, code or data
		return &json2.Error{}
	case '{':
		e := &json2.Error{}
		if err := json.Unmarshal(raw, e); err != nil {
			return fmt.Errorf("%w: error object: %v", ErrInvalidResponse, err)
		}
		return e
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("%w: error string: %v", ErrInvalidResponse, err)
		}
		if s == "" || s == notFound {
			return nil
		}
		return &StringError{Message: s}
	}

	switch string(raw) {
	case "null", "false":
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil && n == 0 {
		return nil
	}
	return &StringError{Message: string(raw)}
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
