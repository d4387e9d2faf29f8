package ine

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "0008074", 2*time.Second, discardLogger())
}

func TestLatestYear(t *testing.T) {
	t.Run("reads UltimoPref from the first element", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "0008074", r.URL.Query().Get("varcd"))
			assert.Equal(t, "EN", r.URL.Query().Get("lang"))
			assert.Equal(t, "2", r.URL.Query().Get("op"))
			assert.Equal(t, "S7A2011", r.URL.Query().Get("Dim1"))
			fmt.Fprint(w, `[{"IndicadorCod":"0008074","UltimoPref":"2022","Dados":{}}]`)
		})

		last, err := client.LatestYear(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2022, last)
	})

	t.Run("non-200 status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		_, err := client.LatestYear(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})

	t.Run("missing UltimoPref", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `[{"IndicadorCod":"0008074"}]`)
		})

		_, err := client.LatestYear(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "UltimoPref")
	})

	t.Run("non-numeric UltimoPref", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `[{"UltimoPref":"soon"}]`)
		})

		_, err := client.LatestYear(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a year")
	})

	t.Run("empty response array", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `[]`)
		})

		_, err := client.LatestYear(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty response")
	})
}

func TestFetchYear(t *testing.T) {
	t.Run("returns the Dados object keyed by year", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "S7A2012", r.URL.Query().Get("Dim1"))
			fmt.Fprint(w, `[{"UltimoPref":"2022","Dados":{"2012":[{"geocod":"11","valor":"32.1"}]}}]`)
		})

		data, err := client.FetchYear(context.Background(), "S7A2012")
		require.NoError(t, err)
		require.Contains(t, data, "2012")
		assert.JSONEq(t, `[{"geocod":"11","valor":"32.1"}]`, string(data["2012"]))
	})

	t.Run("missing Dados", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `[{"UltimoPref":"2022"}]`)
		})

		_, err := client.FetchYear(context.Background(), "S7A2012")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Dados")
		assert.Contains(t, err.Error(), "2012")
	})

	t.Run("non-200 status carries the year", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		})

		_, err := client.FetchYear(context.Background(), "S7A2015")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2015")
		assert.Contains(t, err.Error(), "status 404")
	})

	t.Run("malformed body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{not json`)
		})

		_, err := client.FetchYear(context.Background(), "S7A2012")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode response")
	})
}
