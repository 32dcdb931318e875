package registry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depsync/domain"
	"github.com/rios0rios0/depsync/infrastructure/registry"
)

func TestLatestStableVersion(t *testing.T) {
	t.Parallel()

	t.Run("should return the max stable version from the index", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/crates/evo-agent-sdk", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"crate": {"max_stable_version": "0.3.1", "max_version": "0.4.0-rc.1"}}`))
			},
		))
		defer server.Close()
		client := registry.NewClient(server.URL)

		// when
		version, err := client.LatestStableVersion(context.Background(), "evo-agent-sdk")

		// then
		require.NoError(t, err)
		assert.Equal(t, "0.3.1", version)
	})

	t.Run("should identify itself with a user agent", func(t *testing.T) {
		t.Parallel()

		// given
		var gotAgent string
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				gotAgent = r.Header.Get("User-Agent")
				_, _ = w.Write([]byte(`{"crate": {"max_stable_version": "1.0.0"}}`))
			},
		))
		defer server.Close()
		client := registry.NewClient(server.URL)

		// when
		_, err := client.LatestStableVersion(context.Background(), "evo-agent-sdk")

		// then
		require.NoError(t, err)
		assert.Contains(t, gotAgent, "depsync")
	})

	t.Run("should return a registry error on a non-success status", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		))
		defer server.Close()
		client := registry.NewClient(server.URL)

		// when
		_, err := client.LatestStableVersion(context.Background(), "no-such-crate")

		// then
		var registryErr *domain.RegistryError
		require.ErrorAs(t, err, &registryErr)
		assert.Equal(t, http.StatusNotFound, registryErr.StatusCode)
		assert.Equal(t, "no-such-crate", registryErr.Package)
	})

	t.Run("should return a parse error on malformed json", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"crate": `))
			},
		))
		defer server.Close()
		client := registry.NewClient(server.URL)

		// when
		_, err := client.LatestStableVersion(context.Background(), "evo-agent-sdk")

		// then
		var parseErr *domain.ParseError
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("should return a parse error when the version field is absent", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"crate": {"name": "evo-agent-sdk"}}`))
			},
		))
		defer server.Close()
		client := registry.NewClient(server.URL)

		// when
		_, err := client.LatestStableVersion(context.Background(), "evo-agent-sdk")

		// then
		var parseErr *domain.ParseError
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("should return a transport error when the server is unreachable", func(t *testing.T) {
		t.Parallel()

		// given - a server that is already closed
		server := httptest.NewServer(http.HandlerFunc(
			func(_ http.ResponseWriter, _ *http.Request) {},
		))
		server.Close()
		client := registry.NewClient(server.URL)

		// when
		_, err := client.LatestStableVersion(context.Background(), "evo-agent-sdk")

		// then
		var transportErr *domain.TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, "evo-agent-sdk", transportErr.Package)
	})
}
