package eval

// Metrics holds precision/recall/F1 for one clip or one aggregate.
type Metrics struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	Precision      float64
	Recall         float64
	F1             float64
}

// Score compares a predicted label set against ground truth using exact
// string matching with set semantics. Every rate is 0 when its denominator
// is 0.
func Score(predicted, truth []string) Metrics {
	truthSet := make(map[string]bool, len(truth))
	for _, t := range truth {
		truthSet[t] = true
	}
	predSet := make(map[string]bool, len(predicted))
	for _, p := range predicted {
		predSet[p] = true
	}

	var m Metrics
	for p := range predSet {
		if truthSet[p] {
			m.TruePositives++
		} else {
			m.FalsePositives++
		}
	}
	for t := range truthSet {
		if !predSet[t] {
			m.FalseNegatives++
		}
	}

	if m.TruePositives+m.FalsePositives > 0 {
		m.Precision = float64(m.TruePositives) / float64(m.TruePositives+m.FalsePositives)
	}
	if m.TruePositives+m.FalseNegatives > 0 {
		m.Recall = float64(m.TruePositives) / float64(m.TruePositives+m.FalseNegatives)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	return m
}
