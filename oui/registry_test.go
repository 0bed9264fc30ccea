package oui

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinBaselineOffline(t *testing.T) {
	// No cache file, no network access allowed
	registry := NewRegistry(Options{Offline: true})

	assert.Equal(t, "Apple", registry.Lookup("DC44D6"))
	assert.Equal(t, TierBuiltin, registry.Tier())
}

func TestLookupUnknownPrefix(t *testing.T) {
	registry := NewRegistry(Options{Offline: true})

	assert.Equal(t, UnknownVendor, registry.Lookup("FFFFFF"))
	assert.Equal(t, UnknownVendor, registry.Lookup(""))
}

func TestLookupIsPure(t *testing.T) {
	registry := NewRegistry(Options{Offline: true})

	first := registry.Lookup("B827EB")
	second := registry.Lookup("B827EB")
	assert.Equal(t, "Raspberry Pi", first)
	assert.Equal(t, first, second)
}

func TestLookupCaseInsensitivePrefix(t *testing.T) {
	registry := NewRegistry(Options{Offline: true})

	assert.Equal(t, "Apple", registry.Lookup("dc44d6"))
}

func TestParseSnapshotColumnDiscovery(t *testing.T) {
	snapshot := "Registry,assignment,organization_name,Organization Address\n" +
		"MA-L,28-6F-B9,Nokia Shanghai Bell Co. Ltd.,\"No.388 Ning Qiao Road\"\n" +
		"MA-L,DC:44:D6,Apple Inc. (Cupertino),\"1 Infinite Loop\"\n"

	prefixes, err := ParseSnapshot(strings.NewReader(snapshot))
	require.NoError(t, err)

	assert.Equal(t, "Nokia Shanghai Bell Co. Ltd.", prefixes["286FB9"])
	// Organization truncated at first parenthesis
	assert.Equal(t, "Apple Inc.", prefixes["DC44D6"])
}

func TestParseSnapshotFirstWriterWins(t *testing.T) {
	snapshot := "Assignment,Organization Name\n" +
		"AABBCC,First Org\n" +
		"AABBCC,Second Org\n"

	prefixes, err := ParseSnapshot(strings.NewReader(snapshot))
	require.NoError(t, err)
	assert.Equal(t, "First Org", prefixes["AABBCC"])
}

func TestParseSnapshotNoColumns(t *testing.T) {
	_, err := ParseSnapshot(strings.NewReader("foo,bar\n1,2\n"))
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestFreshCacheSkipsFetch(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "oui.csv")
	cache := "Assignment,Organization Name\nAABBCC,Cached Org\n"
	require.NoError(t, os.WriteFile(cachePath, []byte(cache), 0o644))

	fetched := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetched = true
	}))
	defer server.Close()

	registry := NewRegistry(Options{
		SourceURL:   server.URL,
		CachePath:   cachePath,
		CacheMaxAge: time.Hour,
	})

	assert.Equal(t, "Cached Org", registry.Lookup("AABBCC"))
	assert.Equal(t, TierCache, registry.Tier())
	assert.False(t, fetched)
	// Cache overrides the builtin baseline, baseline still fills the gaps
	assert.Equal(t, "Samsung", registry.Lookup("8C7712"))
}

func TestFetchPersistsCache(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "assets", "oui.csv")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Assignment,Organization Name\nDDEEFF,Fetched Org\n"))
	}))
	defer server.Close()

	registry := NewRegistry(Options{
		SourceURL: server.URL,
		CachePath: cachePath,
	})

	assert.Equal(t, "Fetched Org", registry.Lookup("DDEEFF"))
	assert.Equal(t, TierNetwork, registry.Tier())

	// Snapshot persisted for future runs
	data, err := os.ReadFile(cachePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DDEEFF")
}

func TestFetchFailureFallsBackToStaleCache(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "oui.csv")
	cache := "Assignment,Organization Name\nAABBCC,Stale Org\n"
	require.NoError(t, os.WriteFile(cachePath, []byte(cache), 0o644))
	staleTime := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(cachePath, staleTime, staleTime))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	registry := NewRegistry(Options{
		SourceURL: server.URL,
		CachePath: cachePath,
	})

	assert.Equal(t, "Stale Org", registry.Lookup("AABBCC"))
	assert.Equal(t, TierCache, registry.Tier())
}

func TestFetchFailureFallsBackToBaseline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	registry := NewRegistry(Options{SourceURL: server.URL})

	assert.Equal(t, "Apple", registry.Lookup("DC44D6"))
	assert.Equal(t, TierBuiltin, registry.Tier())
}

func TestRefresh(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "oui.csv")
	body := "Assignment,Organization Name\nAABBCC,Old Org\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	registry := NewRegistry(Options{SourceURL: server.URL, CachePath: cachePath})
	assert.Equal(t, "Old Org", registry.Lookup("AABBCC"))

	body = "Assignment,Organization Name\nAABBCC,New Org\n"
	require.NoError(t, registry.Refresh())
	assert.Equal(t, "New Org", registry.Lookup("AABBCC"))
}

func TestRefreshOfflineFails(t *testing.T) {
	registry := NewRegistry(Options{Offline: true})
	assert.Error(t, registry.Refresh())
}
