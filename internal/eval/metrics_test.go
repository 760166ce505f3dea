package eval

import (
	"math"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name          string
		predicted     []string
		truth         []string
		wantTP        int
		wantFP        int
		wantFN        int
		wantPrecision float64
		wantRecall    float64
		wantF1        float64
	}{
		{
			name:          "perfect match",
			predicted:     []string{"Speech", "Music"},
			truth:         []string{"Speech", "Music"},
			wantTP:        2,
			wantPrecision: 1,
			wantRecall:    1,
			wantF1:        1,
		},
		{
			name:          "one false positive",
			predicted:     []string{"Speech", "Music"},
			truth:         []string{"Speech"},
			wantTP:        1,
			wantFP:        1,
			wantPrecision: 0.5,
			wantRecall:    1,
			wantF1:        2.0 / 3.0,
		},
		{
			name:       "nothing predicted",
			predicted:  nil,
			truth:      []string{"Speech"},
			wantFN:     1,
			wantRecall: 0,
		},
		{
			name:      "nothing predicted and empty truth",
			predicted: nil,
			truth:     nil,
		},
		{
			name:      "all wrong",
			predicted: []string{"Music"},
			truth:     []string{"Speech"},
			wantFP:    1,
			wantFN:    1,
		},
		{
			name:          "duplicates collapse to sets",
			predicted:     []string{"Speech", "Speech"},
			truth:         []string{"Speech"},
			wantTP:        1,
			wantPrecision: 1,
			wantRecall:    1,
			wantF1:        1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.predicted, tt.truth)

			if got.TruePositives != tt.wantTP {
				t.Errorf("TruePositives = %d, want %d", got.TruePositives, tt.wantTP)
			}
			if got.FalsePositives != tt.wantFP {
				t.Errorf("FalsePositives = %d, want %d", got.FalsePositives, tt.wantFP)
			}
			if got.FalseNegatives != tt.wantFN {
				t.Errorf("FalseNegatives = %d, want %d", got.FalseNegatives, tt.wantFN)
			}
			if math.Abs(got.Precision-tt.wantPrecision) > 1e-9 {
				t.Errorf("Precision = %v, want %v", got.Precision, tt.wantPrecision)
			}
			if math.Abs(got.Recall-tt.wantRecall) > 1e-9 {
				t.Errorf("Recall = %v, want %v", got.Recall, tt.wantRecall)
			}
			if math.Abs(got.F1-tt.wantF1) > 1e-9 {
				t.Errorf("F1 = %v, want %v", got.F1, tt.wantF1)
			}
		})
	}
}
