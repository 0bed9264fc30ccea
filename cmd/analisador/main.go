package main

import (
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/usuario9410/analisador-mac-adress/analyzer"
	"github.com/usuario9410/analisador-mac-adress/classify"
	"github.com/usuario9410/analisador-mac-adress/collectors"
	"github.com/usuario9410/analisador-mac-adress/common"
	"github.com/usuario9410/analisador-mac-adress/db"
	"github.com/usuario9410/analisador-mac-adress/export"
	"github.com/usuario9410/analisador-mac-adress/http"
	"github.com/usuario9410/analisador-mac-adress/oui"
	"github.com/usuario9410/analisador-mac-adress/util"
)

func main() {
	log.Infof("Starting %v version %v by %v", common.AppName, common.AppVersion, common.AppAuthor)

	// Parse CLI args (may exit)
	debug := false
	configPath := ""
	inputPath := ""
	outputPath := ""
	reportPath := ""
	serve := false
	refresh := false
	flag.BoolVar(&debug, "debug", debug, "Show debug messages.")
	flag.StringVar(&configPath, "config", configPath, "Config file path.")
	flag.StringVar(&inputPath, "input", inputPath, "Capture table to analyze (CSV, TXT or pcap). Batch mode.")
	flag.StringVar(&outputPath, "output", outputPath, "Enriched table output path (batch mode, default stdout).")
	flag.StringVar(&reportPath, "report", reportPath, "Rotation report output path (batch mode).")
	flag.BoolVar(&serve, "serve", serve, "Run as a service with HTTP endpoint and scheduled collection.")
	flag.BoolVar(&refresh, "refresh-registry", refresh, "Force a fresh vendor registry fetch before analyzing.")
	flag.Parse()
	if debug {
		log.SetLevel(log.TraceLevel)
		log.Info("Debug mode enabled")
	}

	// Load config
	if !common.LoadConfig(configPath) {
		return
	}

	// Load classification tables (defaults plus optional overrides)
	tables, tablesOK := classify.LoadTables(common.GlobalConfig.VendorKeywordsPath, common.GlobalConfig.TypePatternsPath)
	if !tablesOK {
		return
	}

	// Build the shared vendor registry
	registry := oui.NewRegistry(oui.Options{
		SourceURL:    common.GlobalConfig.OUISourceURL,
		CachePath:    common.GlobalConfig.OUICachePath,
		CacheMaxAge:  time.Duration(common.GlobalConfig.OUICacheMaxAgeHours * float64(time.Hour)),
		FetchTimeout: time.Duration(common.GlobalConfig.OUIFetchTimeoutSeconds * float64(time.Second)),
		Offline:      common.GlobalConfig.OUIOffline,
	})
	registry.Load()
	if refresh {
		if err := registry.Refresh(); err != nil {
			log.WithError(err).Warn("Failed to refresh vendor registry")
		}
	}

	batchAnalyzer := analyzer.NewFromConfig(registry, tables)

	if !serve {
		runBatch(batchAnalyzer, inputPath, outputPath, reportPath)
		return
	}
	runService(batchAnalyzer)
}

func runBatch(batchAnalyzer *analyzer.Analyzer, inputPath string, outputPath string, reportPath string) {
	if inputPath == "" {
		log.Error("Batch mode needs an input path (or use -serve)")
		return
	}

	observations, err := collectors.ReadFile(inputPath)
	if err != nil {
		log.WithError(err).Errorf("Failed to read input: %v", inputPath)
		return
	}

	result, err := batchAnalyzer.Run(observations)
	if err != nil {
		log.WithError(err).Error("Analysis failed")
		return
	}

	if !writeCSVOutput(outputPath, func(file *os.File) error {
		return export.WriteEnriched(file, result.Rows)
	}) {
		return
	}
	if reportPath != "" {
		if !writeCSVOutput(reportPath, func(file *os.File) error {
			return export.WriteRotationReport(file, result.Report)
		}) {
			return
		}
	}

	log.WithFields(log.Fields{
		"run_id":            result.Summary.RunID,
		"rows":              result.Summary.Rows,
		"rotation_clusters": result.Summary.RotationClusters,
		"invalid_addresses": result.Summary.InvalidAddresses,
	}).Info("Batch analysis done")
}

func writeCSVOutput(path string, write func(file *os.File) error) bool {
	file := os.Stdout
	if path != "" {
		var err error
		file, err = os.Create(path)
		if err != nil {
			log.WithError(err).Errorf("Failed to create output file: %v", path)
			return false
		}
		defer file.Close()
	}
	if err := write(file); err != nil {
		log.WithError(err).Error("Failed to write output")
		return false
	}
	return true
}

func runService(batchAnalyzer *analyzer.Analyzer) {
	// Load credentials and capture sources
	if !common.LoadCredentials() || !common.LoadSources() {
		return
	}

	// Setup internal shutdown mechanism
	shutdownChannel := make(chan os.Signal, 1)
	signal.Notify(shutdownChannel, syscall.SIGINT, syscall.SIGTERM)
	shutdown := util.NewShutdownChannelDistributor(shutdownChannel)

	// Run internal services in background and wait for all to finish
	var waitGroup sync.WaitGroup
	http.StartServer(&waitGroup, shutdown, batchAnalyzer)
	db.StartClient(&waitGroup, shutdown)
	collectors.StartCollector(&waitGroup, shutdown, batchAnalyzer)

	// Wait for internal services to finish
	waitGroup.Wait()
}
