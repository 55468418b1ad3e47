package domain

// Chart provenance tags. Downstream consumers persist only real datasets.
const (
	ChartProvenanceReal      = "real"
	ChartProvenanceGenerated = "generated"
)

// ChartEntry is one slice of a chart-ready dataset. Value is always finite
// and non-negative; unparseable values are coerced to 0 upstream.
type ChartEntry struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// ChartDataset is an ordered chart-ready dataset plus its provenance.
type ChartDataset struct {
	Entries    []ChartEntry `json:"entries"`
	Provenance string       `json:"provenance"`
}

// Empty reports whether the dataset has no entries.
func (d ChartDataset) Empty() bool { return len(d.Entries) == 0 }
