// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc2

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/rpc/v2/json2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPResult(t *testing.T) {
	srv, reqs := serveHTTP(t, http.StatusOK, `{"jsonrpc":"2.0","result":42}`)

	client, err := New(srv.URL)
	require.NoError(t, err)

	var got int
	require.NoError(t, client.Call(context.Background(), "answer", "question", &got))
	assert.Equal(t, 42, got)

	requests, raw := reqs.all()
	require.Len(t, requests, 1)
	assert.Equal(t, "answer", requests[0].Method)
	assert.Equal(t, []interface{}{"question"}, requests[0].Params)
	require.NotNil(t, requests[0].ID)
	assert.Equal(t, http.MethodPost, raw[0].Method)
	assert.Equal(t, "application/json", raw[0].Header.Get("Content-Type"))
}

func TestHTTPErrors(t *testing.T) {
	t.Run("error object", func(t *testing.T) {
		srv, _ := serveHTTP(t, http.StatusOK, `{"error":{"message":"bad","code":7}}`)
		client, err := New(srv.URL)
		require.NoError(t, err)

		_, err = client.CallRaw(context.Background(), "m", nil)
		var rpcErr *json2.Error
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, "bad", rpcErr.Message)
		assert.Equal(t, json2.ErrorCode(7), rpcErr.Code)
	})

	t.Run("not found", func(t *testing.T) {
		srv, _ := serveHTTP(t, http.StatusOK, `{"error":"not found"}`)
		client, err := New(srv.URL)
		require.NoError(t, err)

		result, err := client.CallRaw(context.Background(), "m", nil)
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("error string", func(t *testing.T) {
		srv, _ := serveHTTP(t, http.StatusOK, `{"error":"oops"}`)
		client, err := New(srv.URL)
		require.NoError(t, err)

		_, err = client.CallRaw(context.Background(), "m", nil)
		assert.EqualError(t, err, "oops")
	})

	t.Run("error object on 500", func(t *testing.T) {
		srv, _ := serveHTTP(t, http.StatusInternalServerError, `{"error":{"message":"internal","code":-32603}}`)
		client, err := New(srv.URL)
		require.NoError(t, err)

		_, err = client.CallRaw(context.Background(), "m", nil)
		var rpcErr *json2.Error
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, json2.E_INTERNAL, rpcErr.Code)
	})

	t.Run("non JSON status error", func(t *testing.T) {
		srv, _ := serveHTTP(t, http.StatusBadGateway, `<html>bad gateway</html>`)
		client, err := New(srv.URL)
		require.NoError(t, err)

		_, err = client.CallRaw(context.Background(), "m", nil)
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		client, err := New(url)
		require.NoError(t, err)
		_, err = client.CallRaw(context.Background(), "m", nil)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrTimeout)
	})
}

func TestHTTPEmptyBody(t *testing.T) {
	srv, _ := serveHTTP(t, http.StatusOK, ``)
	client, err := New(srv.URL)
	require.NoError(t, err)

	reply := "unchanged"
	require.NoError(t, client.Call(context.Background(), "m", nil, &reply))
	assert.Equal(t, "unchanged", reply)
}

func TestHTTPNonObjectBody(t *testing.T) {
	for _, body := range []string{`<html>ok</html>`, `"just a string"`, `[1,2]`} {
		t.Run(body, func(t *testing.T) {
			srv, _ := serveHTTP(t, http.StatusOK, body)
			client, err := New(srv.URL)
			require.NoError(t, err)

			result, err := client.CallRaw(context.Background(), "m", nil)
			require.NoError(t, err)
			assert.Nil(t, result)
		})
	}
}

func TestHTTPHeadersAndQuery(t *testing.T) {
	srv, reqs := serveHTTP(t, http.StatusOK, `{"result":true}`)
	client, err := New(srv.URL+"/rpc?chain=x",
		WithHeader("Authorization", "Bearer token"),
		WithQueryParam("node", "1"),
	)
	require.NoError(t, err)

	_, err = client.CallRaw(context.Background(), "m", nil)
	require.NoError(t, err)

	_, raw := reqs.all()
	require.Len(t, raw, 1)
	assert.Equal(t, "/rpc", raw[0].URL.Path)
	assert.Equal(t, "x", raw[0].URL.Query().Get("chain"))
	assert.Equal(t, "1", raw[0].URL.Query().Get("node"))
	assert.Equal(t, "Bearer token", raw[0].Header.Get("Authorization"))
}

func TestHTTPTimeout(t *testing.T) {
	stop := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-stop:
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(stop) })

	rec := &recorder{}
	client, err := New(srv.URL, WithTimeout(time.Hour), WithLogger(rec.log))
	require.NoError(t, err)

	start := time.Now()
	_, err = client.CallRaw(context.Background(), "slow", nil, Timeout(50*time.Millisecond))
	require.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 5*time.Second)

	records := rec.all()
	require.Len(t, records, 1)
	assert.ErrorIs(t, records[0].Error, ErrTimeout)
}
