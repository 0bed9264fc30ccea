package collectors

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usuario9410/analisador-mac-adress/common"
)

func TestReadCSVCanonicalColumns(t *testing.T) {
	input := "timestamp,mac,rssi,device_name,company_id,manufacturer_data\n" +
		"2026-05-10T14:00:00Z,AA:BB:CC:00:00:01,-50,iPhone de Ana,0x004C,ff00aa\n" +
		"2026-05-10T14:05:00Z,AA:BB:CC:00:00:02,-52.7,,,\n"

	observations, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, observations, 2)

	first := observations[0]
	assert.Equal(t, "AA:BB:CC:00:00:01", first.MAC)
	assert.Equal(t, -50, first.RSSI)
	assert.Equal(t, "iPhone de Ana", first.Name)
	assert.Equal(t, "0x004C", first.CompanyID)
	assert.Equal(t, "ff00aa", first.ManufacturerData)
	assert.Equal(t, time.Date(2026, 5, 10, 14, 0, 0, 0, time.UTC), first.Timestamp)

	// Fractional RSSI truncated, missing fields stay empty
	assert.Equal(t, -52, observations[1].RSSI)
	assert.Empty(t, observations[1].Name)
}

func TestReadCSVColumnSynonyms(t *testing.T) {
	input := "Date,Address,Signal,Device,Category\n" +
		"1747000000,aa-bb-cc-00-00-01,-60,Galaxy S21,Smartphone\n"

	observations, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, observations, 1)

	observation := observations[0]
	assert.Equal(t, "aa-bb-cc-00-00-01", observation.MAC)
	assert.Equal(t, -60, observation.RSSI)
	assert.Equal(t, "Galaxy S21", observation.Name)
	assert.Equal(t, "Smartphone", observation.RawDeviceType)
	assert.False(t, observation.Timestamp.IsZero())
}

func TestReadCSVMissingMACColumn(t *testing.T) {
	input := "timestamp,rssi\n2026-05-10T14:00:00Z,-50\n"

	_, err := ReadCSV(strings.NewReader(input))
	assert.ErrorIs(t, err, ErrMissingMACColumn)
}

func TestReadCSVMissingOptionalValues(t *testing.T) {
	input := "mac\nAA:BB:CC:00:00:01\n"

	observations, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, observations, 1)
	assert.Equal(t, common.RSSIMissing, observations[0].RSSI)
	assert.True(t, observations[0].Timestamp.IsZero())
}

func TestReadCSVUnparsableValuesDegrade(t *testing.T) {
	input := "mac,rssi,timestamp\nAA:BB:CC:00:00:01,strong,someday\n"

	observations, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, observations, 1)
	assert.Equal(t, common.RSSIMissing, observations[0].RSSI)
	assert.True(t, observations[0].Timestamp.IsZero())
}

func TestReadTXT(t *testing.T) {
	input := "AA:BB:CC:00:00:01\r\n\naa-bb-cc-00-00-02\n"

	observations, err := ReadTXT(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, observations, 2)
	assert.Equal(t, "AA:BB:CC:00:00:01", observations[0].MAC)
	assert.Equal(t, "aa-bb-cc-00-00-02", observations[1].MAC)
	assert.Equal(t, common.RSSIMissing, observations[0].RSSI)
}
