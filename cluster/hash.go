package cluster

import (
	"fmt"
	"hash/fnv"

	"github.com/usuario9410/analisador-mac-adress/common"
)

// ContentHash - Alternative strategy: a deterministic O(1)-per-row hash of
// (brand, device type, bucketed RSSI). Coarse by construction: two different
// devices of the same brand, type and signal bucket collide into one ID.
// Appropriate only with fine-grained buckets and short rotation windows.
type ContentHash struct {
	// BucketSize - RSSI bucket width in dB.
	BucketSize int
}

// NewContentHash - Create the content-hash strategy.
func NewContentHash(bucketSize int) *ContentHash {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &ContentHash{BucketSize: bucketSize}
}

// Assign - See Strategy.
func (strategy *ContentHash) Assign(rows []*common.EnrichedObservation) []common.RotationCluster {
	byID := make(map[string]*common.RotationCluster)
	seenMACs := make(map[string]map[string]bool)
	var order []string

	for _, row := range rows {
		if row.NormalizedMAC == "" {
			continue
		}

		bucket := (row.RSSI / strategy.BucketSize) * strategy.BucketSize
		row.DeviceID = stableHash(row.Brand, row.DeviceType, bucket)

		entry, found := byID[row.DeviceID]
		if !found {
			entry = &common.RotationCluster{
				DeviceID:   row.DeviceID,
				Brand:      row.Brand,
				DeviceType: row.DeviceType,
			}
			byID[row.DeviceID] = entry
			seenMACs[row.DeviceID] = make(map[string]bool)
			order = append(order, row.DeviceID)
		}

		entry.TimesSeen++
		if !seenMACs[row.DeviceID][row.NormalizedMAC] {
			seenMACs[row.DeviceID][row.NormalizedMAC] = true
			entry.MACList = append(entry.MACList, row.NormalizedMAC)
		}
		if row.HasTimestamp() {
			if entry.FirstSeen.IsZero() || row.Timestamp.Before(entry.FirstSeen) {
				entry.FirstSeen = row.Timestamp
			}
			if entry.LastSeen.IsZero() || row.Timestamp.After(entry.LastSeen) {
				entry.LastSeen = row.Timestamp
			}
		}
	}

	clusters := make([]common.RotationCluster, 0, len(order))
	for _, deviceID := range order {
		entry := byID[deviceID]
		entry.RotationCount = len(entry.MACList) - 1
		clusters = append(clusters, *entry)
	}
	return clusters
}

func stableHash(brand string, deviceType string, bucket int) string {
	hasher := fnv.New64a()
	fmt.Fprintf(hasher, "%s|%s|%d", brand, deviceType, bucket)
	return fmt.Sprintf("%016x", hasher.Sum64())
}

var _ Strategy = (*ContentHash)(nil)
var _ Strategy = (*Proximity)(nil)
