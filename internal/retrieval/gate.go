package retrieval

import (
	"math"

	"docchat/internal/domain"
)

// DefaultThreshold is the answerability cutoff on the top fused score.
const DefaultThreshold = 0.35

// Verdict is the confidence gate's decision for one query. Confidence is
// the top fused score as an integer percentage and is meaningful on both
// outcomes.
type Verdict struct {
	Answerable bool
	Confidence int
}

// Assess compares the top-ranked fused score against the threshold. A score
// exactly at the threshold counts as answerable. An empty result set is
// never answerable.
func Assess(results []domain.ScoredChunk, threshold float64) Verdict {
	if len(results) == 0 {
		return Verdict{}
	}
	top := results[0].Score
	return Verdict{
		Answerable: top >= threshold,
		Confidence: int(math.Round(top * 100)),
	}
}
