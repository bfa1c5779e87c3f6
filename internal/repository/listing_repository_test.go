package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/suburbscope/internal/config"
	"github.com/stwalsh4118/suburbscope/internal/logger"
)

// newTestRepository points a repository at the given test server.
func newTestRepository(t *testing.T, baseURL string, timeout time.Duration) ListingRepository {
	t.Helper()
	return NewListingRepository(config.ListingsAPIConfig{
		URL:     baseURL,
		Token:   "test-token",
		Timeout: timeout,
	}, logger.New("test"))
}

func TestFetchBySuburb_Success(t *testing.T) {
	var gotAuth, gotSuburb, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		gotSuburb = r.URL.Query().Get("suburb")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [
			{"address": {"street": "1 Beach Rd", "sal": "Belmont"}, "price": 720000, "attributes": {"land_size": "450 m²"}},
			{"area_name": "Belmont", "price": null}
		]}`))
	}))
	defer server.Close()

	repo := newTestRepository(t, server.URL, time.Second)

	results, err := repo.FetchBySuburb(context.Background(), "Belmont North")

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "Belmont North", gotSuburb)
	assert.Equal(t, "1 Beach Rd", results[0].Address.Street.Value)
	assert.Equal(t, 720000.0, results[0].Price.Value)
	assert.Equal(t, "Belmont", results[1].AreaName.Value)
	assert.False(t, results[1].Price.Valid)
}

func TestFetchBySuburb_KeepsExistingQuery(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	repo := newTestRepository(t, server.URL+"/api/suburb/properties?region=nsw", time.Second)

	_, err := repo.FetchBySuburb(context.Background(), "Belmont North")

	require.NoError(t, err)
	assert.Equal(t, []string{"nsw"}, gotQuery["region"])
	assert.Equal(t, []string{"Belmont North"}, gotQuery["suburb"])
}

func TestFetchBySuburb_EmptyResults(t *testing.T) {
	bodies := []string{
		`{"results": []}`,
		`{"results": null}`,
		`{}`,
		`{"error": "suburb not found"}`,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			repo := newTestRepository(t, server.URL, time.Second)

			results, err := repo.FetchBySuburb(context.Background(), "Nowhere")

			require.NoError(t, err)
			assert.NotNil(t, results)
			assert.Empty(t, results)
		})
	}
}

func TestFetchBySuburb_NonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>Bad Gateway</html>"))
	}))
	defer server.Close()

	repo := newTestRepository(t, server.URL, time.Second)

	results, err := repo.FetchBySuburb(context.Background(), "Belmont North")

	assert.Nil(t, results)
	assert.ErrorIs(t, err, ErrUpstreamDecode)
	assert.Contains(t, err.Error(), "status 502")
}

func TestFetchBySuburb_ErrorStatusWithJSONResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"results": [{"area_name": "Belmont"}]}`))
	}))
	defer server.Close()

	repo := newTestRepository(t, server.URL, time.Second)

	results, err := repo.FetchBySuburb(context.Background(), "Belmont")

	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestFetchBySuburb_MalformedRecordKeepsOthers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [
			{"address": "12 Foo St", "attributes": [], "price": 1},
			{"address": {"street": "1 Beach Rd"}, "attributes": {"land_size": "450 m²"}, "price": 720000}
		]}`))
	}))
	defer server.Close()

	repo := newTestRepository(t, server.URL, time.Second)

	results, err := repo.FetchBySuburb(context.Background(), "Belmont")

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Nil(t, results[0].Address)
	assert.Nil(t, results[0].Attributes)
	require.NotNil(t, results[1].Address)
	assert.Equal(t, "1 Beach Rd", results[1].Address.Street.Value)
	assert.Equal(t, 720000.0, results[1].Price.Value)
}

func TestFetchBySuburb_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	repo := newTestRepository(t, server.URL, 50*time.Millisecond)

	start := time.Now()
	results, err := repo.FetchBySuburb(context.Background(), "Belmont North")

	assert.Nil(t, results)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestFetchBySuburb_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	repo := newTestRepository(t, addr, time.Second)

	results, err := repo.FetchBySuburb(context.Background(), "Belmont North")

	assert.Nil(t, results)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestFetchBySuburb_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	repo := newTestRepository(t, server.URL, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FetchBySuburb(ctx, "Belmont North")

	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "<empty>", snippet(nil))
	assert.Equal(t, "short", snippet([]byte("short")))
	assert.Len(t, snippet([]byte(strings.Repeat("x", 4000))), debugSnippetLength)
}
