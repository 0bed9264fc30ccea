package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/usuario9410/analisador-mac-adress/analyzer"
	"github.com/usuario9410/analisador-mac-adress/collectors"
	"github.com/usuario9410/analisador-mac-adress/common"
	"github.com/usuario9410/analisador-mac-adress/export"
	"github.com/usuario9410/analisador-mac-adress/util"
)

// Totals since process start, exposed on /metrics.
var (
	runsTotal             int64
	runsFailedTotal       int64
	rowsTotal             int64
	rotationClustersTotal int64
	invalidAddressesTotal int64
)

var batchAnalyzer *analyzer.Analyzer

// StartServer - Start HTTP server in the background.
func StartServer(waitGroup *sync.WaitGroup, shutdown *util.ShutdownChannelDistributor, sharedAnalyzer *analyzer.Analyzer) {
	shutdownChannel := make(chan bool, 1)
	if !shutdown.AddListener(shutdownChannel) {
		return
	}
	waitGroup.Add(1)

	batchAnalyzer = sharedAnalyzer

	// Configure
	var mainServeMux http.ServeMux
	mainServeMux.HandleFunc("/", handleOtherRequest)
	mainServeMux.HandleFunc("/metrics", handleMetricsRequest)
	mainServeMux.HandleFunc("/analyze", handleAnalyzeRequest)
	server := &http.Server{
		Addr:    common.GlobalConfig.HTTPEndpoint,
		Handler: &mainServeMux,
	}

	// Run
	var shutdownContextCancel context.CancelFunc = nil
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP server failed")
		}
		// Cancel shutdown timer
		if shutdownContextCancel != nil {
			shutdownContextCancel()
		}
		log.Info("HTTP server stopped")
		waitGroup.Done()
	}()

	// Shutdown
	go func() {
		<-shutdownChannel
		var shutdownContext context.Context
		shutdownContext, shutdownContextCancel = context.WithTimeout(context.Background(), 5*time.Second)
		server.Shutdown(shutdownContext)
	}()

	log.Infof("HTTP server started: %v", common.GlobalConfig.HTTPEndpoint)
}

func handleOtherRequest(response http.ResponseWriter, request *http.Request) {
	if request.URL.Path == "/" {
		fmt.Fprintf(response, "%s version %s by %s.\n", common.AppName, common.AppVersion, common.AppAuthor)
		fmt.Fprintf(response, "\nPaths:\n")
		fmt.Fprintf(response, "- Metrics: /metrics\n")
		fmt.Fprintf(response, "- Analyze a capture table (POST CSV): /analyze\n")
		fmt.Fprintf(response, "  - ?format=report returns the rotation report as CSV\n")
		fmt.Fprintf(response, "  - default returns the enriched table as CSV\n")
	} else {
		http.Error(response, "404 - Page not found.\n", http.StatusNotFound)
	}
}

func handleMetricsRequest(response http.ResponseWriter, request *http.Request) {
	log.WithFields(log.Fields{
		"endpoint": "metrics",
		"client":   request.RemoteAddr,
		"url":      request.URL,
	}).Trace("Request")

	// Build registry with data
	registry := prometheus.NewRegistry()
	util.NewExporterMetric(registry, common.PrometheusNamespace, common.AppVersion)
	util.NewGauge(registry, common.PrometheusNamespace, "runs", "total",
		"Batch runs since start.", nil).Set(float64(atomic.LoadInt64(&runsTotal)))
	util.NewGauge(registry, common.PrometheusNamespace, "runs", "failed_total",
		"Failed batch runs since start.", nil).Set(float64(atomic.LoadInt64(&runsFailedTotal)))
	util.NewGauge(registry, common.PrometheusNamespace, "rows", "total",
		"Observation rows processed since start.", nil).Set(float64(atomic.LoadInt64(&rowsTotal)))
	util.NewGauge(registry, common.PrometheusNamespace, "rotation_clusters", "total",
		"Rotation clusters found since start.", nil).Set(float64(atomic.LoadInt64(&rotationClustersTotal)))
	util.NewGauge(registry, common.PrometheusNamespace, "invalid_addresses", "total",
		"Rows with unparsable addresses since start.", nil).Set(float64(atomic.LoadInt64(&invalidAddressesTotal)))

	// Delegate final handling to Prometheus
	promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP(response, request)
}

func handleAnalyzeRequest(response http.ResponseWriter, request *http.Request) {
	log.WithFields(log.Fields{
		"endpoint": "analyze",
		"client":   request.RemoteAddr,
	}).Trace("Request")

	if request.Method != http.MethodPost {
		http.Error(response, "405 - POST a CSV capture table.\n", http.StatusMethodNotAllowed)
		return
	}

	observations, err := collectors.ReadCSV(request.Body)
	if err != nil {
		atomic.AddInt64(&runsFailedTotal, 1)
		http.Error(response, fmt.Sprintf("400 - Failed to read input table: %v\n", err), http.StatusBadRequest)
		return
	}

	result, err := batchAnalyzer.Run(observations)
	if err != nil {
		atomic.AddInt64(&runsFailedTotal, 1)
		http.Error(response, fmt.Sprintf("400 - Failed to analyze input table: %v\n", err), http.StatusBadRequest)
		return
	}

	atomic.AddInt64(&runsTotal, 1)
	atomic.AddInt64(&rowsTotal, int64(result.Summary.Rows))
	atomic.AddInt64(&rotationClustersTotal, int64(result.Summary.RotationClusters))
	atomic.AddInt64(&invalidAddressesTotal, int64(result.Summary.InvalidAddresses))

	response.Header().Set("Content-Type", "text/csv; charset=utf-8")
	response.Header().Set("X-Run-Id", result.Summary.RunID)
	if request.URL.Query().Get("format") == "report" {
		if err := export.WriteRotationReport(response, result.Report); err != nil {
			log.WithError(err).Error("Failed to write rotation report response")
		}
		return
	}
	if err := export.WriteEnriched(response, result.Rows); err != nil {
		log.WithError(err).Error("Failed to write enriched response")
	}
}
