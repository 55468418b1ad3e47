package domain

// PrefetchedContext carries caller-supplied financial data used when the
// persistent store is unreachable or returns nothing.
type PrefetchedContext struct {
	ManualEntries   []LedgerEntry               `json:"manual_entries,omitempty"`
	ProviderRecords map[string][]ProviderRecord `json:"provider_records,omitempty"`
	Goals           []Goal                      `json:"goals,omitempty"`
}

// AdvisoryQuery is one free-text advisory request. Ephemeral, one per call.
type AdvisoryQuery struct {
	UserID  string             `json:"user_id"`
	Query   string             `json:"query"`
	Profile Profile            `json:"profile"`
	Context *PrefetchedContext `json:"context,omitempty"`
}

// ChartSeries matches the presentation layer's dataset shape field for
// field; do not rename the JSON keys.
type ChartSeries struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor"`
}

// ChartData is the labels+datasets payload inside a visualization.
type ChartData struct {
	Labels   []string      `json:"labels"`
	Datasets []ChartSeries `json:"datasets"`
}

// Visualization is the chart descriptor attached to an advisory response.
// DataSource is "real" for datasets aggregated from the ledger and
// "generated" for model-synthesized ones.
type Visualization struct {
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Data       ChartData `json:"data"`
	DataSource string    `json:"dataSource"`
}

// AdvisoryResponse is the boundary payload consumed by the presentation
// layer. It is always fully populated: failed steps contribute their
// documented defaults, never missing fields.
type AdvisoryResponse struct {
	Response          string         `json:"response"`
	Insights          []string       `json:"insights"`
	Suggestions       []string       `json:"suggestions"`
	Visualization     *Visualization `json:"visualization,omitempty"`
	FollowUpQuestions []string       `json:"followUpQuestions"`
}
