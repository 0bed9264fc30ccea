// Package export serializes enriched tables and rotation reports back to
// CSV for download or archival.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/usuario9410/analisador-mac-adress/common"
)

// MACListSeparator - Separator for the ordered address list column.
const MACListSeparator = ";"

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}

func formatRSSI(value int) string {
	if value == common.RSSIMissing {
		return ""
	}
	return strconv.Itoa(value)
}

// WriteEnriched - Write the full enriched table, original columns plus
// brand, device type and device ID.
func WriteEnriched(writer io.Writer, rows []common.EnrichedObservation) error {
	csvWriter := csv.NewWriter(writer)

	header := []string{
		"timestamp", "mac", "normalized_mac", "rssi", "device_name",
		"manufacturer_data", "company_id", "brand", "device_type", "device_id",
	}
	if err := csvWriter.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			formatTime(row.Timestamp),
			row.MAC,
			row.NormalizedMAC,
			formatRSSI(row.RSSI),
			row.Name,
			row.ManufacturerData,
			row.CompanyID,
			row.Brand,
			row.DeviceType,
			row.DeviceID,
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteRotationReport - Write the rotation report table, one row per
// device that rotated its address.
func WriteRotationReport(writer io.Writer, report []common.RotationCluster) error {
	csvWriter := csv.NewWriter(writer)

	header := []string{
		"device_id", "brand", "device_type", "mac_list",
		"times_seen", "rotation_count", "first_seen", "last_seen",
	}
	if err := csvWriter.Write(header); err != nil {
		return err
	}

	for _, entry := range report {
		record := []string{
			entry.DeviceID,
			entry.Brand,
			entry.DeviceType,
			strings.Join(entry.MACList, MACListSeparator),
			strconv.Itoa(entry.TimesSeen),
			strconv.Itoa(entry.RotationCount),
			formatTime(entry.FirstSeen),
			formatTime(entry.LastSeen),
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
