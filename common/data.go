package common

import (
	"time"
)

// RSSIMissing - Sentinel for observations without a signal strength reading.
const RSSIMissing = -99

// UnknownBrand - Sentinel brand for unresolved vendors.
const UnknownBrand = "Unknown"

// Device type categories. Closed set, labels kept as presented to users.
const (
	DeviceTypeSmartphone = "Smartphone"
	DeviceTypeEarbuds    = "Fones"
	DeviceTypeWatch      = "Relógio"
	DeviceTypeComputer   = "Computador"
	DeviceTypeTablet     = "Tablet"
	DeviceTypeSensorTag  = "Sensor/Tag"
	DeviceTypeUnknown    = "Desconhecido"
)

// Observation - One captured advertisement/packet. Read-only input, never
// mutated after parsing; enrichment produces derived fields on a copy.
type Observation struct {
	Timestamp        time.Time `json:"timestamp"` // Zero value when unknown
	MAC              string    `json:"mac"`
	RSSI             int       `json:"rssi"` // RSSIMissing when unknown
	Name             string    `json:"advertised_name"`
	ManufacturerData string    `json:"manufacturer_data"`
	CompanyID        string    `json:"company_id"`
	RawDeviceType    string    `json:"raw_device_type"` // Pre-existing label, passed through unchanged
}

// HasTimestamp - Whether the observation carries a usable capture time.
func (observation Observation) HasTimestamp() bool {
	return !observation.Timestamp.IsZero()
}

// EnrichedObservation - Observation plus derived identity fields.
type EnrichedObservation struct {
	Observation

	NormalizedMAC string `json:"normalized_mac"` // Empty when the raw address failed normalization
	Brand         string `json:"brand"`
	DeviceType    string `json:"device_type"`
	DeviceID      string `json:"device_id"` // Empty when excluded from clustering
}

// RotationCluster - A group of observations attributed to one physical
// device across MAC rotations.
type RotationCluster struct {
	DeviceID      string    `json:"device_id"`
	Brand         string    `json:"brand"`
	DeviceType    string    `json:"device_type"`
	MACList       []string  `json:"mac_list"` // Distinct normalized addresses, in order seen
	TimesSeen     int       `json:"times_seen"`
	RotationCount int       `json:"rotation_count"` // len(MACList) - 1
	FirstSeen     time.Time `json:"first_seen"`
	LastSeen      time.Time `json:"last_seen"`
}

// RunSummary - Aggregated statistics for one batch run. Row-level
// degradations are counted here instead of aborting the run.
type RunSummary struct {
	RunID                  string        `json:"run_id"`
	StartTime              time.Time     `json:"start_time"`
	Duration               time.Duration `json:"duration"`
	Rows                   int           `json:"rows"`
	InvalidAddresses       int           `json:"invalid_addresses"`
	UnknownVendors         int           `json:"unknown_vendors"`
	UnknownTypes           int           `json:"unknown_types"`
	ExcludedFromClustering int           `json:"excluded_from_clustering"`
	RotationClusters       int           `json:"rotation_clusters"`
	RegistryTier           string        `json:"registry_tier"` // Informational note about the vendor source used
}
