// Package oui loads and indexes the IEEE OUI assignment table, with tiered
// fallback sources: built-in baseline, local cached snapshot, network fetch.
package oui

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/usuario9410/analisador-mac-adress/mac"
)

// UnknownVendor - Sentinel returned for prefixes not present in the registry.
const UnknownVendor = "Unknown"

// Source tiers, in increasing priority.
const (
	TierBuiltin = "builtin"
	TierCache   = "cache"
	TierNetwork = "network"
)

// ErrNoColumns - The snapshot header has no recognizable assignment/organization columns.
var ErrNoColumns = errors.New("no assignment/organization columns found in registry snapshot")

// Options - Registry construction options.
type Options struct {
	SourceURL    string
	CachePath    string
	CacheMaxAge  time.Duration
	FetchTimeout time.Duration
	Offline      bool         // Embedded baseline only, never touch cache or network
	HTTPClient   *http.Client // Optional, for tests
}

// Registry - Prefix to organization index. Safe for concurrent lookups once
// loaded; Load is guarded so concurrent first uses fetch at most once.
type Registry struct {
	options  Options
	loadOnce sync.Once

	mutex    sync.RWMutex
	prefixes map[string]string
	tier     string
}

// NewRegistry - Create a registry. Call Load (or let the first Lookup do it)
// before use.
func NewRegistry(options Options) *Registry {
	if options.FetchTimeout <= 0 {
		options.FetchTimeout = 30 * time.Second
	}
	if options.CacheMaxAge <= 0 {
		options.CacheMaxAge = 24 * time.Hour
	}
	return &Registry{options: options}
}

// Load - Load the registry from the highest available tier. Never fails:
// fetch or cache problems degrade to the next-lowest tier already loaded
// and are surfaced as log notes only.
func (registry *Registry) Load() {
	registry.loadOnce.Do(registry.load)
}

func (registry *Registry) load() {
	// Baseline tier, always present
	prefixes := make(map[string]string, len(builtinPrefixes))
	for prefix, organization := range builtinPrefixes {
		prefixes[prefix] = organization
	}
	tier := TierBuiltin

	if !registry.options.Offline {
		cached, cacheFresh := registry.loadCache()
		if cacheFresh {
			mergePrefixes(prefixes, cached)
			tier = TierCache
		} else {
			// No valid cache, single fetch attempt without retry
			fetched, err := registry.fetch()
			if err == nil {
				mergePrefixes(prefixes, fetched)
				tier = TierNetwork
				registry.persistCache(fetched)
			} else if cached != nil {
				// Stale cache beats baseline-only when the fetch fails
				log.WithError(err).Info("Registry fetch failed, using stale cache")
				mergePrefixes(prefixes, cached)
				tier = TierCache
			} else {
				log.WithError(err).Info("Registry fetch failed, using built-in baseline")
			}
		}
	}

	registry.mutex.Lock()
	registry.prefixes = prefixes
	registry.tier = tier
	registry.mutex.Unlock()

	log.WithFields(log.Fields{
		"prefix_count": len(prefixes),
		"tier":         tier,
	}).Info("Vendor registry loaded")
}

// Lookup - Resolve a 6-hex-digit OUI prefix to an organization name.
// Missing prefixes return the UnknownVendor sentinel, never an error.
func (registry *Registry) Lookup(prefix string) string {
	registry.Load()

	registry.mutex.RLock()
	organization, found := registry.prefixes[strings.ToUpper(prefix)]
	registry.mutex.RUnlock()

	if !found || organization == "" {
		return UnknownVendor
	}
	return organization
}

// Tier - Highest source tier that contributed to the loaded mapping.
func (registry *Registry) Tier() string {
	registry.Load()

	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	return registry.tier
}

// Len - Number of indexed prefixes.
func (registry *Registry) Len() int {
	registry.Load()

	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	return len(registry.prefixes)
}

// Refresh - Explicitly fetch a fresh snapshot, replacing the loaded mapping
// and persisting the cache. Unlike Load, errors are reported to the caller.
func (registry *Registry) Refresh() error {
	registry.Load()

	if registry.options.Offline {
		return errors.New("registry is configured offline")
	}

	fetched, err := registry.fetch()
	if err != nil {
		return err
	}
	registry.persistCache(fetched)

	prefixes := make(map[string]string, len(builtinPrefixes)+len(fetched))
	for prefix, organization := range builtinPrefixes {
		prefixes[prefix] = organization
	}
	mergePrefixes(prefixes, fetched)

	registry.mutex.Lock()
	registry.prefixes = prefixes
	registry.tier = TierNetwork
	registry.mutex.Unlock()

	log.WithFields(log.Fields{
		"prefix_count": len(prefixes),
	}).Info("Vendor registry refreshed")

	return nil
}

// loadCache - Read the cached snapshot. The second return reports whether
// the cache exists and is fresh enough to skip the network fetch.
func (registry *Registry) loadCache() (map[string]string, bool) {
	if registry.options.CachePath == "" {
		return nil, false
	}

	info, err := os.Stat(registry.options.CachePath)
	if err != nil {
		return nil, false
	}

	file, err := os.Open(registry.options.CachePath)
	if err != nil {
		log.WithError(err).Warnf("Failed to open registry cache: %v", registry.options.CachePath)
		return nil, false
	}
	defer file.Close()

	prefixes, err := ParseSnapshot(file)
	if err != nil {
		log.WithError(err).Warnf("Failed to parse registry cache: %v", registry.options.CachePath)
		return nil, false
	}

	fresh := time.Since(info.ModTime()) <= registry.options.CacheMaxAge
	log.WithFields(log.Fields{
		"cache_path":   registry.options.CachePath,
		"prefix_count": len(prefixes),
		"fresh":        fresh,
	}).Trace("Loaded registry cache")

	return prefixes, fresh
}

// fetch - One bounded fetch attempt against the external registry source.
func (registry *Registry) fetch() (map[string]string, error) {
	if registry.options.SourceURL == "" {
		return nil, errors.New("no registry source URL configured")
	}

	client := registry.options.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: registry.options.FetchTimeout}
	}

	log.WithFields(log.Fields{
		"source_url": registry.options.SourceURL,
	}).Info("Fetching vendor registry snapshot")

	response, err := client.Get(registry.options.SourceURL)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry source returned status %v", response.StatusCode)
	}

	return ParseSnapshot(response.Body)
}

// persistCache - Write a fetched snapshot to the cache location for future
// runs. Failures are logged only; the in-memory registry is already usable.
func (registry *Registry) persistCache(prefixes map[string]string) {
	if registry.options.CachePath == "" {
		return
	}

	if err := os.MkdirAll(filepath.Dir(registry.options.CachePath), 0o755); err != nil {
		log.WithError(err).Warn("Failed to create registry cache directory")
		return
	}

	file, err := os.Create(registry.options.CachePath)
	if err != nil {
		log.WithError(err).Warn("Failed to create registry cache file")
		return
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Write([]string{"Assignment", "Organization Name"})
	for prefix, organization := range prefixes {
		writer.Write([]string{prefix, organization})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.WithError(err).Warn("Failed to write registry cache")
		return
	}

	log.WithFields(log.Fields{
		"cache_path":   registry.options.CachePath,
		"prefix_count": len(prefixes),
	}).Trace("Persisted registry cache")
}

// ParseSnapshot - Parse a CSV-like registry snapshot. Column names vary
// across snapshots, so the assignment and organization columns are
// discovered by case-insensitive substring match. Organization names are
// truncated at the first parenthesis (the table embeds address info there).
// Duplicate prefixes within one snapshot resolve first-writer-wins.
func ParseSnapshot(reader io.Reader) (map[string]string, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if err != nil {
		return nil, err
	}

	assignmentColumn := -1
	organizationColumn := -1
	for i, name := range header {
		lowered := strings.ToLower(name)
		if assignmentColumn < 0 && strings.Contains(lowered, "assign") {
			assignmentColumn = i
		}
		if organizationColumn < 0 && strings.Contains(lowered, "org") {
			organizationColumn = i
		}
	}
	if assignmentColumn < 0 || organizationColumn < 0 {
		return nil, ErrNoColumns
	}

	prefixes := make(map[string]string)
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Tolerate individual malformed records
			continue
		}
		if assignmentColumn >= len(record) || organizationColumn >= len(record) {
			continue
		}

		prefix := normalizePrefix(record[assignmentColumn])
		if prefix == "" {
			continue
		}
		organization := cleanOrganization(record[organizationColumn])
		if organization == "" {
			continue
		}
		if _, found := prefixes[prefix]; !found {
			prefixes[prefix] = organization
		}
	}

	return prefixes, nil
}

func normalizePrefix(raw string) string {
	stripped := strings.ToUpper(strings.TrimSpace(raw))
	stripped = strings.ReplaceAll(stripped, "-", "")
	stripped = strings.ReplaceAll(stripped, ":", "")
	if len(stripped) != mac.PrefixLength {
		return ""
	}
	return stripped
}

func cleanOrganization(raw string) string {
	if index := strings.IndexByte(raw, '('); index >= 0 {
		raw = raw[:index]
	}
	return strings.TrimSpace(raw)
}

func mergePrefixes(destination map[string]string, source map[string]string) {
	for prefix, organization := range source {
		destination[prefix] = organization
	}
}
