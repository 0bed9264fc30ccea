// Package analyzer runs the batch enrichment pipeline: normalize addresses,
// classify vendor and device type, cluster identities across MAC rotations,
// and aggregate a run summary. One run is a single synchronous pass over a
// finite in-memory table; concurrent runs share only the read-only registry.
package analyzer

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/usuario9410/analisador-mac-adress/classify"
	"github.com/usuario9410/analisador-mac-adress/cluster"
	"github.com/usuario9410/analisador-mac-adress/common"
	"github.com/usuario9410/analisador-mac-adress/mac"
	"github.com/usuario9410/analisador-mac-adress/oui"
)

// ErrNoObservations - The input table is empty.
var ErrNoObservations = errors.New("no observations to analyze")

// ErrNoUsableAddresses - Every value in the address column failed
// normalization; the input schema is unusable.
var ErrNoUsableAddresses = errors.New("every address failed normalization")

// Analyzer - The batch pipeline. Safe for concurrent runs.
type Analyzer struct {
	vendors  *classify.VendorClassifier
	types    *classify.TypeClassifier
	strategy cluster.Strategy
	registry *oui.Registry

	// DropInvalidAddresses - Alternative policy: drop rows whose address
	// fails normalization instead of retaining them with unknown fields.
	DropInvalidAddresses bool
}

// Result - Output of one batch run.
type Result struct {
	Rows    []common.EnrichedObservation
	Report  []common.RotationCluster // Rotation events only, sorted by rotation count descending
	Summary common.RunSummary
}

// New - Create an analyzer around a shared registry, classification tables
// and clustering strategy.
func New(registry *oui.Registry, tables *classify.Tables, strategy cluster.Strategy, weakSignalThreshold int) *Analyzer {
	if strategy == nil {
		strategy = cluster.NewProximity(cluster.DefaultProximityParams())
	}
	return &Analyzer{
		vendors:  classify.NewVendorClassifier(registry, tables),
		types:    classify.NewTypeClassifier(tables, weakSignalThreshold),
		strategy: strategy,
		registry: registry,
	}
}

// NewFromConfig - Create an analyzer wired from the global config.
func NewFromConfig(registry *oui.Registry, tables *classify.Tables) *Analyzer {
	config := common.GlobalConfig

	var strategy cluster.Strategy
	switch config.ClusterStrategy {
	case common.ClusterStrategyContentHash:
		strategy = cluster.NewContentHash(config.ClusterRSSIBucketSize)
	default:
		strategy = cluster.NewProximity(cluster.ProximityParams{
			Window:        time.Duration(config.ClusterWindowMinutes * float64(time.Minute)),
			RSSITolerance: config.ClusterRSSITolerance,
		})
	}

	analyzer := New(registry, tables, strategy, config.WeakSignalThreshold)
	analyzer.DropInvalidAddresses = config.DropInvalidAddresses
	return analyzer
}

// Run - Process one batch. Only an unusable input schema aborts; row-level
// failures degrade to unknown fields and are counted in the summary.
func (analyzer *Analyzer) Run(observations []common.Observation) (*Result, error) {
	startTime := time.Now()

	if len(observations) == 0 {
		return nil, ErrNoObservations
	}

	summary := common.RunSummary{
		RunID:     uuid.NewString(),
		StartTime: startTime,
		Rows:      len(observations),
	}

	rows := make([]common.EnrichedObservation, 0, len(observations))
	for _, observation := range observations {
		normalized, ok := mac.Normalize(observation.MAC)
		if !ok {
			summary.InvalidAddresses++
			if analyzer.DropInvalidAddresses {
				continue
			}
			// Retain-with-unknown: the row stays in the output, excluded
			// from clustering
			rows = append(rows, common.EnrichedObservation{
				Observation: observation,
				Brand:       common.UnknownBrand,
				DeviceType:  common.DeviceTypeUnknown,
			})
			summary.UnknownVendors++
			summary.UnknownTypes++
			continue
		}

		enriched := common.EnrichedObservation{
			Observation:   observation,
			NormalizedMAC: normalized,
		}
		enriched.Brand = analyzer.vendors.Classify(normalized, observation.Name, observation.CompanyID)
		enriched.DeviceType = analyzer.types.Classify(observation, enriched.Brand)
		if enriched.Brand == common.UnknownBrand {
			summary.UnknownVendors++
		}
		if enriched.DeviceType == common.DeviceTypeUnknown {
			summary.UnknownTypes++
		}
		rows = append(rows, enriched)
	}

	if summary.InvalidAddresses == len(observations) {
		return nil, ErrNoUsableAddresses
	}

	// Cluster identities across rotations
	pointers := make([]*common.EnrichedObservation, len(rows))
	for i := range rows {
		pointers[i] = &rows[i]
	}
	clusters := analyzer.strategy.Assign(pointers)

	// Rotation report: clusters with at least two distinct addresses,
	// sorted by rotation count descending (stable, so input order breaks
	// ties)
	var report []common.RotationCluster
	for _, entry := range clusters {
		if entry.RotationCount >= 1 {
			report = append(report, entry)
		}
	}
	sort.SliceStable(report, func(i, j int) bool {
		return report[i].RotationCount > report[j].RotationCount
	})

	summary.ExcludedFromClustering = summary.InvalidAddresses
	summary.RotationClusters = len(report)
	summary.RegistryTier = analyzer.registry.Tier()
	summary.Duration = time.Since(startTime)

	log.WithFields(log.Fields{
		"run_id":            summary.RunID,
		"rows":              summary.Rows,
		"invalid_addresses": summary.InvalidAddresses,
		"unknown_vendors":   summary.UnknownVendors,
		"unknown_types":     summary.UnknownTypes,
		"rotation_clusters": summary.RotationClusters,
		"registry_tier":     summary.RegistryTier,
	}).Info("Batch run finished")

	return &Result{Rows: rows, Report: report, Summary: summary}, nil
}
