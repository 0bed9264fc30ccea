package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usuario9410/analisador-mac-adress/common"
)

func TestWriteEnriched(t *testing.T) {
	rows := []common.EnrichedObservation{
		{
			Observation: common.Observation{
				Timestamp: time.Date(2026, 5, 10, 14, 0, 0, 0, time.UTC),
				MAC:       "AA:BB:CC:00:00:01",
				RSSI:      -50,
				Name:      "iPhone de Ana",
			},
			NormalizedMAC: "AABBCC000001",
			Brand:         "Apple",
			DeviceType:    common.DeviceTypeSmartphone,
			DeviceID:      "Apple|Smartphone|1",
		},
		{
			Observation: common.Observation{MAC: "not-a-mac", RSSI: common.RSSIMissing},
			Brand:       common.UnknownBrand,
			DeviceType:  common.DeviceTypeUnknown,
		},
	}

	var builder strings.Builder
	require.NoError(t, WriteEnriched(&builder, rows))
	lines := strings.Split(strings.TrimSpace(builder.String()), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "brand,device_type,device_id")
	assert.Contains(t, lines[1], "2026-05-10T14:00:00Z")
	assert.Contains(t, lines[1], "Apple|Smartphone|1")
	// Missing RSSI and timestamp serialize as empty, not as sentinels
	assert.Contains(t, lines[2], "not-a-mac")
	assert.NotContains(t, lines[2], "-99")
}

func TestWriteRotationReport(t *testing.T) {
	report := []common.RotationCluster{
		{
			DeviceID:      "Apple|Smartphone|1",
			Brand:         "Apple",
			DeviceType:    common.DeviceTypeSmartphone,
			MACList:       []string{"AABBCC000001", "AABBCC000002"},
			TimesSeen:     5,
			RotationCount: 1,
			FirstSeen:     time.Date(2026, 5, 10, 14, 0, 0, 0, time.UTC),
			LastSeen:      time.Date(2026, 5, 10, 14, 5, 0, 0, time.UTC),
		},
	}

	var builder strings.Builder
	require.NoError(t, WriteRotationReport(&builder, report))
	output := builder.String()

	assert.Contains(t, output, "device_id,brand,device_type,mac_list,times_seen,rotation_count,first_seen,last_seen")
	assert.Contains(t, output, "AABBCC000001;AABBCC000002")
	assert.Contains(t, output, ",5,1,")
}
