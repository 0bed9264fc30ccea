// Package collectors turns capture sources (CSV/TXT tables, pcap files,
// remote sniffer hosts) into uniform in-memory observation tables for the
// analyzer. Column-name synonyms are resolved here so the core only ever
// sees the canonical fields.
package collectors

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/usuario9410/analisador-mac-adress/common"
)

// ErrMissingMACColumn - The input table has no recognizable address column.
var ErrMissingMACColumn = errors.New("input table has no mac address column")

// Recognized column-name synonyms, matched case-insensitively.
var (
	macColumns              = []string{"mac", "mac_address", "address"}
	timestampColumns        = []string{"timestamp", "time", "date"}
	rssiColumns             = []string{"rssi", "signal", "power"}
	nameColumns             = []string{"device_name", "name", "device", "model", "manufacturer", "company", "vendor"}
	deviceTypeColumns       = []string{"device_type", "type", "category"}
	companyIDColumns        = []string{"company_id"}
	manufacturerDataColumns = []string{"manufacturer_data", "others"}
)

// Timestamp layouts tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006 15:04:05",
	"15:04:05",
}

type columnIndexes struct {
	mac              int
	timestamp        int
	rssi             int
	name             int
	deviceType       int
	companyID        int
	manufacturerData int
}

// ReadCSV - Read an observation table from CSV. The header row is required;
// a missing mac column is a hard input error, everything else is optional.
func ReadCSV(reader io.Reader) ([]common.Observation, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, err
	}

	indexes := resolveColumns(header)
	if indexes.mac < 0 {
		return nil, ErrMissingMACColumn
	}

	var observations []common.Observation
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.WithError(err).Trace("Skipping malformed CSV record")
			continue
		}

		observation := common.Observation{
			MAC:              field(record, indexes.mac),
			RSSI:             parseRSSI(field(record, indexes.rssi)),
			Name:             field(record, indexes.name),
			RawDeviceType:    field(record, indexes.deviceType),
			CompanyID:        field(record, indexes.companyID),
			ManufacturerData: field(record, indexes.manufacturerData),
		}
		if raw := field(record, indexes.timestamp); raw != "" {
			observation.Timestamp = parseTimestamp(raw)
		}
		observations = append(observations, observation)
	}

	return observations, nil
}

// ReadTXT - Read a bare address list, one MAC per line.
func ReadTXT(reader io.Reader) ([]common.Observation, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	var observations []common.Observation
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		observations = append(observations, common.Observation{
			MAC:  line,
			RSSI: common.RSSIMissing,
		})
	}
	return observations, nil
}

// ReadFile - Read a local observation table, picking the reader by file
// extension: .csv as a table, .pcap/.pcapng as a capture, anything else as
// a bare address list.
func ReadFile(path string) ([]common.Observation, error) {
	lowered := strings.ToLower(path)
	if strings.HasSuffix(lowered, ".pcap") || strings.HasSuffix(lowered, ".pcapng") {
		return ReadPcapFile(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if strings.HasSuffix(lowered, ".csv") {
		return ReadCSV(file)
	}
	return ReadTXT(file)
}

func resolveColumns(header []string) columnIndexes {
	indexes := columnIndexes{
		mac:              -1,
		timestamp:        -1,
		rssi:             -1,
		name:             -1,
		deviceType:       -1,
		companyID:        -1,
		manufacturerData: -1,
	}
	for i, rawName := range header {
		name := strings.ToLower(strings.TrimSpace(rawName))
		switch {
		case indexes.mac < 0 && matchesColumn(name, macColumns):
			indexes.mac = i
		case indexes.timestamp < 0 && matchesColumn(name, timestampColumns):
			indexes.timestamp = i
		case indexes.rssi < 0 && matchesColumn(name, rssiColumns):
			indexes.rssi = i
		case indexes.deviceType < 0 && matchesColumn(name, deviceTypeColumns):
			indexes.deviceType = i
		case indexes.companyID < 0 && matchesColumn(name, companyIDColumns):
			indexes.companyID = i
		case indexes.manufacturerData < 0 && matchesColumn(name, manufacturerDataColumns):
			indexes.manufacturerData = i
		case indexes.name < 0 && matchesColumn(name, nameColumns):
			indexes.name = i
		}
	}
	return indexes
}

func matchesColumn(name string, synonyms []string) bool {
	for _, synonym := range synonyms {
		if name == synonym {
			return true
		}
	}
	return false
}

func field(record []string, index int) string {
	if index < 0 || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

func parseRSSI(raw string) int {
	if raw == "" {
		return common.RSSIMissing
	}
	if value, err := strconv.Atoi(raw); err == nil {
		return value
	}
	if value, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(value)
	}
	return common.RSSIMissing
}

func parseTimestamp(raw string) time.Time {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed
		}
	}
	// Unix seconds, with or without fraction
	if seconds, err := strconv.ParseFloat(raw, 64); err == nil && seconds > 0 {
		return time.Unix(int64(seconds), 0).UTC()
	}
	return time.Time{}
}
