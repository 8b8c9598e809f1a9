// Package metrics exposes scan results as Prometheus metrics.
package metrics

import (
	"go-drive-dedup/internal/domain/entities"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dedup"

// ScanMetrics records the outcome of each scan on its own registry
type ScanMetrics struct {
	registry *prometheus.Registry

	scansTotal        prometheus.Counter
	scanDuration      prometheus.Histogram
	lastScanTimestamp prometheus.Gauge

	folders         prometheus.Gauge
	filesExamined   prometheus.Gauge
	filesAccepted   prometheus.Gauge
	filesSkipped    prometheus.Gauge
	uniqueChecksums prometheus.Gauge
	duplicateGroups prometheus.Gauge
	duplicateFiles  prometheus.Gauge
	wastedBytes     prometheus.Gauge
	warnings        prometheus.Gauge
}

// NewScanMetrics creates and registers the scan metrics
func NewScanMetrics() *ScanMetrics {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
	}

	m := &ScanMetrics{
		registry: prometheus.NewRegistry(),
		scansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Total number of completed scans",
		}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Wall time of a complete scan",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}),
		lastScanTimestamp: gauge("last_scan_timestamp_seconds", "Start time of the last completed scan"),
		folders:           gauge("folders", "Folders in the last scan, root included"),
		filesExamined:     gauge("files_examined", "File records examined in the last scan"),
		filesAccepted:     gauge("files_accepted", "Files with a checksum accepted in the last scan"),
		filesSkipped:      gauge("files_skipped", "File records skipped for lacking a checksum"),
		uniqueChecksums:   gauge("unique_checksums", "Distinct checksums among accepted files"),
		duplicateGroups:   gauge("duplicate_groups", "Checksums shared by more than one file"),
		duplicateFiles:    gauge("duplicate_files", "Files that belong to a duplicate group"),
		wastedBytes:       gauge("wasted_bytes", "Bytes taken by copies beyond the first of each group"),
		warnings:          gauge("integrity_warnings", "Integrity warnings raised in the last scan"),
	}

	m.registry.MustRegister(
		m.scansTotal,
		m.scanDuration,
		m.lastScanTimestamp,
		m.folders,
		m.filesExamined,
		m.filesAccepted,
		m.filesSkipped,
		m.uniqueChecksums,
		m.duplicateGroups,
		m.duplicateFiles,
		m.wastedBytes,
		m.warnings,
	)
	return m
}

// ObserveScan records a completed scan
func (m *ScanMetrics) ObserveScan(summary entities.ScanSummary) {
	m.scansTotal.Inc()
	m.scanDuration.Observe(summary.Duration.Seconds())
	if !summary.StartedAt.IsZero() {
		m.lastScanTimestamp.Set(float64(summary.StartedAt.Unix()))
	}

	m.folders.Set(float64(summary.Folders))
	m.filesExamined.Set(float64(summary.FilesExamined))
	m.filesAccepted.Set(float64(summary.FilesAccepted))
	m.filesSkipped.Set(float64(summary.Skipped))
	m.uniqueChecksums.Set(float64(summary.UniqueChecksums))
	m.duplicateGroups.Set(float64(summary.DuplicateGroups))
	m.duplicateFiles.Set(float64(summary.DuplicateFiles))
	m.wastedBytes.Set(float64(summary.WastedSpace))
	m.warnings.Set(float64(summary.IntegrityWarnings))
}

// Registry returns the registry holding the scan metrics
func (m *ScanMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics in the node_exporter textfile format
func (m *ScanMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
