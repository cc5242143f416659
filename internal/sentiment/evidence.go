package sentiment

// Evidence is the outcome of one sentiment signal. A signal that found
// nothing to judge abstains with NoEvidence, which differs from a present
// score of zero: abstaining signals drop out of the weighted average.
type Evidence struct {
	Score   float64
	Present bool
}

// NoEvidence is the abstaining outcome.
var NoEvidence = Evidence{}

// Observed wraps a score produced from actual evidence.
func Observed(score float64) Evidence {
	return Evidence{Score: score, Present: true}
}

// weighted pairs a signal outcome with its nominal weight.
type weighted struct {
	ev     Evidence
	weight float64
}

// combine averages the present signals, renormalizing their weights.
// It returns 0 when every signal abstained.
func combine(signals ...weighted) float64 {
	var sum, total float64
	for _, s := range signals {
		if !s.ev.Present {
			continue
		}
		sum += s.ev.Score * s.weight
		total += s.weight
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

func present(signals ...weighted) []float64 {
	out := make([]float64, 0, len(signals))
	for _, s := range signals {
		if s.ev.Present {
			out = append(out, s.ev.Score)
		}
	}
	return out
}

// agree reports whether the non-zero scores all share one sign.
func agree(scores []float64) bool {
	var pos, neg bool
	for _, s := range scores {
		switch {
		case s > 0:
			pos = true
		case s < 0:
			neg = true
		}
	}
	return !(pos && neg)
}
