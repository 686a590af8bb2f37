package nethttp_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/autom8ter/arango/errors"
	"github.com/autom8ter/arango/transport"
	"github.com/autom8ter/arango/transport/nethttp"
	"github.com/autom8ter/arango/transport/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTP(t *testing.T) {
	t.Run("registered as http", func(t *testing.T) {
		client, err := registry.Open("http", nil)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
	t.Run("unknown provider", func(t *testing.T) {
		_, err := registry.Open("carrier-pigeon", nil)
		require.Error(t, err)
		assert.Equal(t, errors.NotFound, errors.Extract(err).Code)
	})
	t.Run("sends default and per request headers", func(t *testing.T) {
		var got http.Header
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Clone()
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()
		headers := http.Header{}
		headers.Set("Authorization", "Basic cm9vdDo=")
		client, err := nethttp.New(headers)
		require.NoError(t, err)
		resp, err := client.Do(context.Background(), &transport.Request{
			Method: http.MethodGet,
			URL:    srv.URL,
			Header: http.Header{"If-Match": []string{"_dzkKe9q---"}},
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.Status)
		assert.Equal(t, "Basic cm9vdDo=", got.Get("Authorization"))
		assert.Equal(t, "_dzkKe9q---", got.Get("If-Match"))
	})
	t.Run("per request headers win over defaults", func(t *testing.T) {
		var got http.Header
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Clone()
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()
		headers := http.Header{}
		headers.Set("X-Arango-Allow-Dirty-Read", "false")
		client, err := nethttp.New(headers)
		require.NoError(t, err)
		_, err = client.Do(context.Background(), &transport.Request{
			Method: http.MethodGet,
			URL:    srv.URL,
			Header: http.Header{"X-Arango-Allow-Dirty-Read": []string{"true"}},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"true"}, got.Values("X-Arango-Allow-Dirty-Read"))
	})
	t.Run("transaction copy does not touch the original", func(t *testing.T) {
		client, err := nethttp.New(nil)
		require.NoError(t, err)
		bound := client.WithTransaction("4711")
		assert.Equal(t, "4711", bound.Headers().Get(transport.TransactionHeader))
		assert.Empty(t, client.Headers().Get(transport.TransactionHeader))
	})
	t.Run("does not follow redirects", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/elsewhere", http.StatusFound)
		}))
		defer srv.Close()
		client, err := nethttp.New(nil)
		require.NoError(t, err)
		resp, err := client.Do(context.Background(), &transport.Request{Method: http.MethodGet, URL: srv.URL})
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status)
	})
	t.Run("classifies network failures", func(t *testing.T) {
		client, err := nethttp.New(nil)
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = client.Do(ctx, &transport.Request{Method: http.MethodGet, URL: "http://127.0.0.1:1"})
		require.Error(t, err)
		assert.Equal(t, errors.Transport, errors.Extract(err).Code)
	})
}
