// Package cluster assigns a stable device ID to enriched observations such
// that observations from the same physical device share an ID across MAC
// rotations. Two interchangeable strategies exist: grouping plus
// temporal/RSSI proximity windows (canonical), and a coarse content hash.
package cluster

import (
	"fmt"
	"sort"
	"time"

	"github.com/usuario9410/analisador-mac-adress/common"
)

// Strategy - A clustering policy. Assign sets DeviceID on every row with a
// valid normalized address and returns all clusters found, singletons
// included; the caller decides which clusters count as rotation events.
// Rows without a normalized address are left untouched.
type Strategy interface {
	Assign(rows []*common.EnrichedObservation) []common.RotationCluster
}

// ProximityParams - Tunables for the proximity strategy. Exposed to the
// caller rather than hard-coded.
type ProximityParams struct {
	Window        time.Duration // Max distance from the cluster anchor's timestamp
	RSSITolerance int           // Max dB distance from the cluster anchor's RSSI
}

// DefaultProximityParams - 15 minute window, 5 dB tolerance.
func DefaultProximityParams() ProximityParams {
	return ProximityParams{
		Window:        15 * time.Minute,
		RSSITolerance: 5,
	}
}

// Proximity - Canonical strategy: partition by (brand, device type), sort by
// timestamp within each partition, then grow anchor-based clusters while
// both time and signal proximity to the anchor hold.
type Proximity struct {
	Params ProximityParams
}

// NewProximity - Create the proximity strategy.
func NewProximity(params ProximityParams) *Proximity {
	if params.Window <= 0 {
		params.Window = DefaultProximityParams().Window
	}
	return &Proximity{Params: params}
}

type groupKey struct {
	brand      string
	deviceType string
}

// Assign - See Strategy.
func (strategy *Proximity) Assign(rows []*common.EnrichedObservation) []common.RotationCluster {
	// Partition by (brand, device type), preserving input order within each
	// group
	groups := make(map[groupKey][]*common.EnrichedObservation)
	var keys []groupKey
	for _, row := range rows {
		if row.NormalizedMAC == "" {
			continue
		}
		key := groupKey{brand: row.Brand, deviceType: row.DeviceType}
		if _, found := groups[key]; !found {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], row)
	}

	var clusters []common.RotationCluster
	for _, key := range keys {
		clusters = append(clusters, strategy.assignGroup(key, groups[key])...)
	}
	return clusters
}

func (strategy *Proximity) assignGroup(key groupKey, group []*common.EnrichedObservation) []common.RotationCluster {
	// Stable sort by timestamp. Rows without timestamps keep input order
	// (input order is treated as temporal order), and equal timestamps keep
	// input order too: a non-stable sort here would change clustering
	// results.
	sort.SliceStable(group, func(i, j int) bool {
		if !group[i].HasTimestamp() || !group[j].HasTimestamp() {
			return false
		}
		return group[i].Timestamp.Before(group[j].Timestamp)
	})

	var clusters []common.RotationCluster
	sequence := 0

	var anchor *common.EnrichedObservation
	var members []*common.EnrichedObservation

	closeActive := func() {
		if anchor == nil {
			return
		}
		sequence++
		clusters = append(clusters, buildCluster(key, sequence, members))
	}

	for _, row := range group {
		if anchor != nil && strategy.joins(anchor, row) {
			members = append(members, row)
			continue
		}
		closeActive()
		anchor = row
		members = []*common.EnrichedObservation{row}
	}
	closeActive()

	return clusters
}

// joins - Whether a row belongs to the active cluster. Time proximity is
// treated as satisfied when either side has no timestamp; the missing-RSSI
// sentinel only satisfies the tolerance when both sides are missing.
func (strategy *Proximity) joins(anchor *common.EnrichedObservation, row *common.EnrichedObservation) bool {
	if anchor.HasTimestamp() && row.HasTimestamp() {
		delta := row.Timestamp.Sub(anchor.Timestamp)
		if delta < 0 {
			delta = -delta
		}
		if delta > strategy.Params.Window {
			return false
		}
	}

	deltaRSSI := row.RSSI - anchor.RSSI
	if deltaRSSI < 0 {
		deltaRSSI = -deltaRSSI
	}
	return deltaRSSI <= strategy.Params.RSSITolerance
}

// buildCluster - Assign the cluster's device ID to its members and build the
// report record. Device IDs are deterministic (group key plus per-group
// ordinal) so identical inputs always produce identical assignments.
func buildCluster(key groupKey, sequence int, members []*common.EnrichedObservation) common.RotationCluster {
	deviceID := fmt.Sprintf("%s|%s|%d", key.brand, key.deviceType, sequence)

	var macList []string
	seen := make(map[string]bool)
	var firstSeen, lastSeen time.Time
	for _, member := range members {
		member.DeviceID = deviceID
		if !seen[member.NormalizedMAC] {
			seen[member.NormalizedMAC] = true
			macList = append(macList, member.NormalizedMAC)
		}
		if member.HasTimestamp() {
			if firstSeen.IsZero() || member.Timestamp.Before(firstSeen) {
				firstSeen = member.Timestamp
			}
			if lastSeen.IsZero() || member.Timestamp.After(lastSeen) {
				lastSeen = member.Timestamp
			}
		}
	}

	return common.RotationCluster{
		DeviceID:      deviceID,
		Brand:         key.brand,
		DeviceType:    key.deviceType,
		MACList:       macList,
		TimesSeen:     len(members),
		RotationCount: len(macList) - 1,
		FirstSeen:     firstSeen,
		LastSeen:      lastSeen,
	}
}
