package docqa

// DefaultMarginWeight is the default weight of the best-to-second-best
// separation bonus in confidence estimation.
const DefaultMarginWeight = 0.25

// Estimator converts raw retrieval scores into a bounded confidence value.
//
// The base confidence rescales the top cosine similarity from [-1, 1] into
// [0, 1]. When a second result exists, a bonus proportional to the margin
// between the best and second-best score is added: a wide margin means a
// clearer match, a narrow one means ambiguity. Both terms are non-decreasing
// in the top score, so confidence is monotone in it. The exact weighting is
// a tunable parameter, not a contract.
type Estimator struct {
	// MarginWeight scales the separation bonus. Zero disables it.
	MarginWeight float64
}

// NewEstimator returns an Estimator with default tuning.
func NewEstimator() Estimator {
	return Estimator{MarginWeight: DefaultMarginWeight}
}

// Estimate returns a confidence in [0, 1] for an ordered result list.
// An empty result list yields 0.
func (e Estimator) Estimate(results []RetrievalResult) float64 {
	if len(results) == 0 {
		return 0
	}

	top := results[0].Score
	confidence := (top + 1) / 2

	if len(results) > 1 {
		margin := top - results[1].Score
		if margin > 0 {
			confidence += e.MarginWeight * margin
		}
	}

	return clamp01(confidence)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
