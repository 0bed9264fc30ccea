package collectors

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/usuario9410/analisador-mac-adress/analyzer"
	"github.com/usuario9410/analisador-mac-adress/common"
	"github.com/usuario9410/analisador-mac-adress/db"
	"github.com/usuario9410/analisador-mac-adress/util"
)

// StartCollector - Start capture source collection in the background.
// Every interval, each configured source is collected and run through the
// analyzer, and the results are handed to the DB sink.
func StartCollector(waitGroup *sync.WaitGroup, shutdown *util.ShutdownChannelDistributor, batchAnalyzer *analyzer.Analyzer) {
	// Setup shutdown signal and waitgroup
	shutdownChannel := make(chan bool, 1)
	if !shutdown.AddListener(shutdownChannel) {
		return
	}
	waitGroup.Add(1)

	go func() {
		defer waitGroup.Done()
		defer log.Info("Collector stopped")

		// Collect immediately
		collectAll(batchAnalyzer)

		ticker := time.NewTicker(time.Duration(common.GlobalConfig.CollectIntervalSeconds) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				collectAll(batchAnalyzer)
			case <-shutdownChannel:
				return
			}
		}
	}()

	log.Info("Collector started")
}

func collectAll(batchAnalyzer *analyzer.Analyzer) {
	log.Trace("Collecting all capture sources")
	for _, source := range common.GlobalSources {
		go collectSingle(source, batchAnalyzer)
	}
}

func collectSingle(source common.CaptureSource, batchAnalyzer *analyzer.Analyzer) {
	log.WithFields(log.Fields{
		"source": source.Name,
	}).Trace("Collecting capture source")
	startTime := time.Now()

	observations, success := Collect(source)
	if success && len(observations) > 0 {
		result, err := batchAnalyzer.Run(observations)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"source": source.Name,
			}).Warn("Failed to analyze collected observations")
			success = false
		} else {
			db.StoreRunEntry(source.Name, result.Summary)
			for _, rotation := range result.Report {
				db.StoreRotationEntry(source.Name, result.Summary.RunID, rotation)
			}
		}
	}

	duration := time.Since(startTime)
	log.WithFields(log.Fields{
		"source":           source.Name,
		"collect_start":    startTime,
		"collect_duration": duration,
		"collect_success":  success,
	}).Trace("Collecting capture source done")
}

// Collect - Collect one capture source into an observation table.
func Collect(source common.CaptureSource) ([]common.Observation, bool) {
	switch sourceType := source.SourceType; sourceType {
	case common.SourceTypeCSVFile, common.SourceTypeTXTFile, common.SourceTypePcapFile:
		observations, err := ReadFile(source.Path)
		if !checkSourceFailure(source, "Failed to read capture file", err) {
			return nil, false
		}
		return observations, true
	case common.SourceTypeCSVSSH:
		return CollectSSH(source)
	default:
		log.WithFields(log.Fields{
			"source":      source.Name,
			"source_type": source.SourceType,
		}).Warn("Unknown capture source type")
		return nil, false
	}
}
