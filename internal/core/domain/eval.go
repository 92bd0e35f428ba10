package domain

// EvalItem is one entry of the labelled gold set.
type EvalItem struct {
	// Question is the natural-language question to evaluate.
	Question string `json:"question"`

	// Answer, when present, is a substring expected to appear
	// (case-insensitively) in a correct response. It is a soft
	// coverage signal, not an exhaustive correctness check.
	Answer string `json:"answer,omitempty"`
}

// EvalResult is one scored evaluation run for a single question.
// It is created once, aggregated, persisted, and never mutated.
type EvalResult struct {
	// Question is the evaluated question.
	Question string

	// Provider is the human-readable label of the answering backend.
	Provider string

	// Answer is the full generated answer text. On provider failure it
	// holds the error-marked answer instead.
	Answer string

	// References is the content of the trailing references section,
	// extracted from the answer or synthesised from retrieved chunks.
	References string

	// LatencySec spans retrieval, prompt assembly and generation.
	LatencySec float64

	// EstCostUSD is the estimated provider cost for this item.
	EstCostUSD float64

	// ExactMatch reports whether the gold answer substring appeared in
	// the generated answer.
	ExactMatch bool
}

// EvalMetrics are aggregate quality/cost/latency figures over a batch.
// The zero value is the correct result for an empty batch.
type EvalMetrics struct {
	// N is the number of evaluated items.
	N int `json:"n"`

	// ExactMatch is the fraction of items whose gold answer appeared in
	// the generated answer, rounded to 3 decimals.
	ExactMatch float64 `json:"exact_match"`

	// CitationCoverage is the fraction of items with a non-empty
	// references section, rounded to 3 decimals.
	CitationCoverage float64 `json:"citation_coverage"`

	// AvgLatencySec is the mean per-item latency, rounded to 3 decimals.
	AvgLatencySec float64 `json:"avg_latency_sec"`

	// AvgCostUSD is the mean estimated cost, rounded to 6 decimals.
	AvgCostUSD float64 `json:"avg_cost_usd"`
}
