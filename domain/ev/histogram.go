package ev

// HistogramBin is one fixed-width bin with anomaly attribution.
// INVARIANTS:
// - Count == NormalCount + AnomalyCount
// - AnomalyPercentage == 100 * AnomalyCount / Count (0 when Count == 0)
// - IsAnomalous == AnomalyPercentage > highlightThreshold && AnomalyCount > 0
// Bins are contiguous, non-overlapping and equal width; every bin is
// closed-open [BinStart, BinEnd) except the last, which is closed on both ends.
type HistogramBin struct {
	BinStart          float64 `json:"bin_start"`
	BinEnd            float64 `json:"bin_end"`
	BinCenter         float64 `json:"bin_center"`
	Count             int     `json:"count"`
	NormalCount       int     `json:"normal_count"`
	AnomalyCount      int     `json:"anomaly_count"`
	AnomalyPercentage float64 `json:"anomaly_percentage"`
	IsAnomalous       bool    `json:"is_anomalous"`
}

// Histogram is the binner output: the bin array plus the aggregate counters
// the summary display needs.
type Histogram struct {
	Bins              []HistogramBin `json:"bins"`
	TotalEvents       int            `json:"total_events"`
	TotalAnomalies    int            `json:"total_anomalies"`
	AnomalyPercentage float64        `json:"anomaly_percentage"`
	NonFiniteCount    int            `json:"non_finite_count"` // events dropped from binning
	Synthetic         bool           `json:"synthetic"`        // true only for the demo fallback shape
}
