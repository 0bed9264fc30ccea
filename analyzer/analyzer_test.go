package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usuario9410/analisador-mac-adress/common"
	"github.com/usuario9410/analisador-mac-adress/oui"
)

func newTestAnalyzer() *Analyzer {
	registry := oui.NewRegistry(oui.Options{Offline: true})
	return New(registry, nil, nil, -90)
}

func TestRunEndToEnd(t *testing.T) {
	base := time.Date(2026, 5, 10, 14, 0, 0, 0, time.UTC)
	observations := []common.Observation{
		{Timestamp: base, MAC: "DC:44:D6:00:00:01", RSSI: -50, Name: "iPhone de Ana"},
		{Timestamp: base.Add(300 * time.Second), MAC: "DC:44:D6:00:00:02", RSSI: -52, Name: "iPhone de Ana"},
		{Timestamp: base.Add(4000 * time.Second), MAC: "DC:44:D6:00:00:03", RSSI: -53, Name: "iPhone de Ana"},
	}

	result, err := newTestAnalyzer().Run(observations)
	require.NoError(t, err)

	require.Len(t, result.Rows, 3)
	for _, row := range result.Rows {
		assert.Equal(t, "Apple", row.Brand)
		assert.Equal(t, common.DeviceTypeSmartphone, row.DeviceType)
		assert.NotEmpty(t, row.DeviceID)
	}
	assert.Equal(t, result.Rows[0].DeviceID, result.Rows[1].DeviceID)
	assert.NotEqual(t, result.Rows[0].DeviceID, result.Rows[2].DeviceID)

	// Singleton cluster stays out of the rotation report
	require.Len(t, result.Report, 1)
	assert.Equal(t, []string{"DC44D6000001", "DC44D6000002"}, result.Report[0].MACList)
	assert.Equal(t, 1, result.Report[0].RotationCount)

	assert.Equal(t, 3, result.Summary.Rows)
	assert.Equal(t, 0, result.Summary.InvalidAddresses)
	assert.Equal(t, 1, result.Summary.RotationClusters)
	assert.Equal(t, oui.TierBuiltin, result.Summary.RegistryTier)
	assert.NotEmpty(t, result.Summary.RunID)
}

func TestRunRetainsInvalidAddresses(t *testing.T) {
	observations := []common.Observation{
		{MAC: "DC:44:D6:00:00:01", RSSI: -50},
		{MAC: "not-a-mac", RSSI: -50},
	}

	result, err := newTestAnalyzer().Run(observations)
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	invalid := result.Rows[1]
	assert.Equal(t, common.UnknownBrand, invalid.Brand)
	assert.Equal(t, common.DeviceTypeUnknown, invalid.DeviceType)
	assert.Empty(t, invalid.DeviceID)
	assert.Empty(t, invalid.NormalizedMAC)

	assert.Equal(t, 1, result.Summary.InvalidAddresses)
	assert.Equal(t, 1, result.Summary.ExcludedFromClustering)
}

func TestRunDropInvalidPolicy(t *testing.T) {
	analyzer := newTestAnalyzer()
	analyzer.DropInvalidAddresses = true

	result, err := analyzer.Run([]common.Observation{
		{MAC: "DC:44:D6:00:00:01", RSSI: -50},
		{MAC: "nope", RSSI: -50},
	})
	require.NoError(t, err)

	assert.Len(t, result.Rows, 1)
	assert.Equal(t, 1, result.Summary.InvalidAddresses)
}

func TestRunAllAddressesInvalid(t *testing.T) {
	_, err := newTestAnalyzer().Run([]common.Observation{
		{MAC: "nope"},
		{MAC: "also nope"},
	})
	assert.ErrorIs(t, err, ErrNoUsableAddresses)
}

func TestRunEmptyInput(t *testing.T) {
	_, err := newTestAnalyzer().Run(nil)
	assert.ErrorIs(t, err, ErrNoObservations)
}

func TestRunDeterministic(t *testing.T) {
	base := time.Date(2026, 5, 10, 14, 0, 0, 0, time.UTC)
	observations := []common.Observation{
		{Timestamp: base, MAC: "DC:44:D6:00:00:01", RSSI: -50},
		{Timestamp: base.Add(time.Minute), MAC: "DC:44:D6:00:00:02", RSSI: -51},
		{Timestamp: base.Add(2 * time.Minute), MAC: "8C:77:12:00:00:01", RSSI: -60, Name: "Galaxy Buds"},
	}

	analyzer := newTestAnalyzer()
	first, err := analyzer.Run(observations)
	require.NoError(t, err)
	second, err := analyzer.Run(observations)
	require.NoError(t, err)

	for i := range first.Rows {
		assert.Equal(t, first.Rows[i].DeviceID, second.Rows[i].DeviceID)
	}
	assert.Equal(t, first.Report, second.Report)
}

func TestRunReportSortedByRotationCount(t *testing.T) {
	base := time.Date(2026, 5, 10, 14, 0, 0, 0, time.UTC)
	observations := []common.Observation{
		// Two rotations for the Samsung group
		{Timestamp: base, MAC: "8C:77:12:00:00:01", RSSI: -60, Name: "Galaxy S21"},
		{Timestamp: base.Add(time.Minute), MAC: "8C:77:12:00:00:02", RSSI: -61, Name: "Galaxy S21"},
		{Timestamp: base.Add(2 * time.Minute), MAC: "8C:77:12:00:00:03", RSSI: -62, Name: "Galaxy S21"},
		// One rotation for the Apple group
		{Timestamp: base, MAC: "DC:44:D6:00:00:01", RSSI: -50},
		{Timestamp: base.Add(time.Minute), MAC: "DC:44:D6:00:00:02", RSSI: -51},
	}

	result, err := newTestAnalyzer().Run(observations)
	require.NoError(t, err)

	require.Len(t, result.Report, 2)
	assert.Equal(t, 2, result.Report[0].RotationCount)
	assert.Equal(t, "Samsung", result.Report[0].Brand)
	assert.Equal(t, 1, result.Report[1].RotationCount)
}
