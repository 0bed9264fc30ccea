package db

import (
	"context"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2api "github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/usuario9410/analisador-mac-adress/common"
	"github.com/usuario9410/analisador-mac-adress/util"
)

// InfluxDBBucket - InfluxDB bucket.
const InfluxDBBucket = "analisador"

var client *influxdb2.Client = nil
var clientWriteAPI *influxdb2api.WriteAPI

// StartClient - Start DB client in the background. Optional: skipped
// entirely when no InfluxDB URL is configured, and all Store functions
// become no-ops.
func StartClient(waitGroup *sync.WaitGroup, shutdown *util.ShutdownChannelDistributor) {
	if common.GlobalConfig.InfluxDBURL == "" {
		log.Info("No database configured, results are not persisted")
		return
	}

	// Setup shutdown signal and waitgroup
	shutdownChannel := make(chan bool, 1)
	if !shutdown.AddListener(shutdownChannel) {
		return
	}
	waitGroup.Add(1)

	newClient := influxdb2.NewClient(common.GlobalConfig.InfluxDBURL, common.GlobalConfig.InfluxDBToken)
	client = &newClient

	cleanup := func() {
		if clientWriteAPI != nil {
			localWriteAPI := *clientWriteAPI
			clientWriteAPI = nil
			localWriteAPI.Flush()
		}
		localClient := *client
		client = nil
		localClient.Close()
		log.Info("DB client stopped")
		waitGroup.Done()
	}

	// Wait for DB connection (true) to come up or for shutdown signal (false)
	if !waitForDBUp(shutdownChannel) {
		cleanup()
		return
	}

	// Setup async write API and error logging
	writeAPI := (*client).WriteAPI(common.GlobalConfig.InfluxDBOrg, InfluxDBBucket)
	clientWriteAPI = &writeAPI
	writeAPIErrors := writeAPI.Errors()
	go func() {
		for err := range writeAPIErrors {
			log.WithError(err).Error("Failed to write to database")
		}
	}()

	go func() {
		<-shutdownChannel
		cleanup()
	}()

	log.Info("DB client started: ", common.GlobalConfig.InfluxDBURL)
}

func waitForDBUp(shutdownChannel <-chan bool) bool {
	checkHealth := func() bool {
		_, err := (*client).Health(context.Background())
		if err != nil {
			log.WithError(err).Tracef("Database connection error")
			return false
		}
		return true
	}
	if checkHealth() {
		return true
	}
	log.Info("Waiting for database")
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if checkHealth() {
				return true
			}
		case <-shutdownChannel:
			return false
		}
	}
}

// StoreRunEntry - Attempt to store a batch run summary in the DB.
func StoreRunEntry(source string, summary common.RunSummary) {
	log.WithFields(log.Fields{
		"source":   source,
		"run_id":   summary.RunID,
		"rows":     summary.Rows,
		"duration": summary.Duration,
	}).Trace("Run entry")

	if clientWriteAPI == nil {
		return
	}

	point := influxdb2.NewPointWithMeasurement("run").
		AddTag("source", source).
		AddField("run_id", summary.RunID).
		AddField("duration_seconds", float64(summary.Duration)/float64(time.Second)).
		AddField("rows", summary.Rows).
		AddField("invalid_addresses", summary.InvalidAddresses).
		AddField("unknown_vendors", summary.UnknownVendors).
		AddField("unknown_types", summary.UnknownTypes).
		AddField("rotation_clusters", summary.RotationClusters).
		AddField("registry_tier", summary.RegistryTier).
		SetTime(summary.StartTime)
	(*clientWriteAPI).WritePoint(point)
}

// StoreRotationEntry - Attempt to store one rotation event in the DB.
func StoreRotationEntry(source string, runID string, entry common.RotationCluster) {
	log.WithFields(log.Fields{
		"source":         source,
		"device_id":      entry.DeviceID,
		"brand":          entry.Brand,
		"device_type":    entry.DeviceType,
		"rotation_count": entry.RotationCount,
	}).Trace("Rotation entry")

	if clientWriteAPI == nil {
		return
	}

	entryTime := entry.LastSeen
	if entryTime.IsZero() {
		entryTime = time.Now()
	}

	point := influxdb2.NewPointWithMeasurement("rotation").
		AddTag("source", source).
		AddTag("brand", entry.Brand).
		AddTag("device_type", entry.DeviceType).
		AddField("run_id", runID).
		AddField("device_id", entry.DeviceID).
		AddField("mac_list", strings.Join(entry.MACList, ";")).
		AddField("times_seen", entry.TimesSeen).
		AddField("rotation_count", entry.RotationCount).
		SetTime(entryTime)
	(*clientWriteAPI).WritePoint(point)
}
