// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc2

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/rpc/v2/json2"
	"go.uber.org/zap"
)

// Record describes one finished call.
type Record struct {
	Addr     string
	Method   string
	Params   interface{}
	Duration time.Duration
	Result   json.RawMessage
	Error    error
	// Label is the value passed with the Label call option.
	Label string
}

// LogFunc receives a Record for every call, successful or not.
type LogFunc func(Record)

func nopLogFunc(Record) {}

// MultiLogFunc calls each non-nil hook in order.
func MultiLogFunc(fns ...LogFunc) LogFunc {
	return func(r Record) {
		for _, fn := range fns {
			if fn != nil {
				fn(r)
			}
		}
	}
}

// ZapLogFunc writes records to l: debug level on success, warn on failure.
func ZapLogFunc(l *zap.Logger) LogFunc {
	return func(r Record) {
		fields := []zap.Field{
			zap.String("addr", r.Addr),
			zap.String("method", r.Method),
			zap.Any("params", r.Params),
			zap.Duration("duration", r.Duration),
		}
		if r.Label != "" {
			fields = append(fields, zap.String("label", r.Label))
		}
		if r.Error != nil {
			fields = append(fields, zap.Error(r.Error))
			var rpcErr *json2.Error
			if errors.As(r.Error, &rpcErr) {
				fields = append(fields, zap.Int("code", int(rpcErr.Code)), zap.Any("data", rpcErr.Data))
			}
			l.Warn("jsonrpc2 call failed", fields...)
			return
		}
		fields = append(fields, zap.ByteString("result", r.Result))
		l.Debug("jsonrpc2 call", fields...)
	}
}

// emit hands r to the hook. A panicking hook is reported on the debug logger
// and does not affect the call outcome.
func (c *Client) emit(r Record) {
	defer func() {
		if p := recover(); p != nil {
			c.debug.Error("log hook panicked", zap.String("method", r.Method), zap.Any("panic", p))
		}
	}()
	c.logFn(r)
}
