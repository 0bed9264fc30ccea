package common

import (
	log "github.com/sirupsen/logrus"

	"github.com/usuario9410/analisador-mac-adress/util"
)

// Clustering strategy names.
const (
	ClusterStrategyProximity   = "proximity"
	ClusterStrategyContentHash = "content_hash"
)

// GlobalConfig - Global singleton.
var GlobalConfig = Config{
	HTTPEndpoint:           ":8080",
	OUISourceURL:           "https://standards-oui.ieee.org/oui/oui.csv",
	OUICachePath:           "assets/oui.csv",
	OUICacheMaxAgeHours:    24.0,
	OUIFetchTimeoutSeconds: 30.0,
	ClusterStrategy:        ClusterStrategyProximity,
	ClusterWindowMinutes:   15.0,
	ClusterRSSITolerance:   5,
	ClusterRSSIBucketSize:  10,
	WeakSignalThreshold:    -90,
	CollectIntervalSeconds: 300.0,
}

// Config - The config.
type Config struct {
	HTTPEndpoint string `json:"http_endpoint"`

	// Vendor registry.
	OUISourceURL           string  `json:"oui_source_url"`
	OUICachePath           string  `json:"oui_cache_path"`
	OUICacheMaxAgeHours    float64 `json:"oui_cache_max_age_hours"`
	OUIFetchTimeoutSeconds float64 `json:"oui_fetch_timeout"`
	OUIOffline             bool    `json:"oui_offline"` // Embedded baseline only, no cache or network

	// Classification keyword tables, optional JSON overrides.
	VendorKeywordsPath string `json:"vendor_keywords_path"`
	TypePatternsPath   string `json:"type_patterns_path"`

	// Identity clustering.
	ClusterStrategy       string  `json:"cluster_strategy"` // "proximity" or "content_hash"
	ClusterWindowMinutes  float64 `json:"cluster_window_minutes"`
	ClusterRSSITolerance  int     `json:"cluster_rssi_tolerance"`
	ClusterRSSIBucketSize int     `json:"cluster_rssi_bucket_size"`
	WeakSignalThreshold   int     `json:"weak_signal_threshold"`
	DropInvalidAddresses  bool    `json:"drop_invalid_addresses"` // Default retains rows with unknown fields

	// Capture source collection (service mode).
	SourcesPath            string  `json:"sources_path"`
	CredentialsPath        string  `json:"credentials_path"`
	CollectIntervalSeconds float64 `json:"collect_interval"`

	// InfluxDB sink (optional).
	InfluxDBURL   string `json:"influxdb_url"`
	InfluxDBToken string `json:"influxdb_token"`
	InfluxDBOrg   string `json:"influxdb_org"`
}

// LoadConfig - Load configuration file. Defaults to defaults if path is empty.
func LoadConfig(path string) bool {
	if path == "" {
		// Allow no config
		return true
	}

	log.WithFields(log.Fields{
		"config_path": path,
	}).Info("Loading config")

	// Load
	if !util.ParseJSONFile(&GlobalConfig, path) {
		return false
	}

	// Validate
	if GlobalConfig.ClusterWindowMinutes <= 0 {
		log.Error("Non-positive cluster window not allowed")
		return false
	}
	if GlobalConfig.ClusterRSSITolerance < 0 {
		log.Error("Negative RSSI tolerance not allowed")
		return false
	}
	switch GlobalConfig.ClusterStrategy {
	case ClusterStrategyProximity:
	case ClusterStrategyContentHash:
	default:
		log.Errorf("Unknown cluster strategy: %v", GlobalConfig.ClusterStrategy)
		return false
	}
	if GlobalConfig.CollectIntervalSeconds <= 0 {
		log.Error("Non-positive collect interval not allowed")
		return false
	}

	return true
}
