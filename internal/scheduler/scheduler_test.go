package scheduler

import (
	"context"
	"strings"
	"testing"

	"github.com/cailot/cool-runnings/internal/model"
	"github.com/cailot/cool-runnings/internal/predictor"
)

type stubAnalysis struct{}

func (s *stubAnalysis) Consensus() (predictor.ConsensusResult, error) {
	return predictor.ConsensusResult{
		Runs:     5,
		Top7:     []model.ScoredNumber{{Number: 7, Probability: 0.8}},
		TopTally: map[int]int{7: 5},
	}, nil
}

func (s *stubAnalysis) StraightPicks() (high, low, mid []model.ScoredNumber, err error) {
	return []model.ScoredNumber{{Number: 1, Probability: 0.9}},
		[]model.ScoredNumber{{Number: 2, Probability: 0.1}},
		[]model.ScoredNumber{{Number: 3, Probability: 0.4}},
		nil
}

func (s *stubAnalysis) Validation(count int) (model.ComprehensiveValidationResult, error) {
	return model.ComprehensiveValidationResult{Summary: "ok"}, nil
}

func (s *stubAnalysis) InvalidateWeights() {}

type recordingNotifier struct {
	subjects []string
	bodies   []string
}

func (n *recordingNotifier) Send(subject, htmlBody string) error {
	n.subjects = append(n.subjects, subject)
	n.bodies = append(n.bodies, htmlBody)
	return nil
}

func (n *recordingNotifier) SendWithRetry(ctx context.Context, subject, htmlBody string, maxRetries int) error {
	return n.Send(subject, htmlBody)
}

func TestPredictTask_EmailCarriesConsensusAndStraightPicks(t *testing.T) {
	rec := &recordingNotifier{}
	s := NewScheduler(context.Background(), nil, &stubAnalysis{}, rec, 100)

	s.RunPredictNow()

	if len(rec.bodies) != 1 {
		t.Fatalf("expected one prediction email, got %d", len(rec.bodies))
	}
	body := rec.bodies[0]
	for _, section := range []string{"Consensus Top 7", "Top 7", "Bottom 7", "Mid 7"} {
		if !strings.Contains(body, section) {
			t.Errorf("prediction email missing the %q section", section)
		}
	}
	if len(rec.subjects) == 0 || !strings.Contains(rec.subjects[0], "Weekly prediction") {
		t.Errorf("unexpected subject line: %v", rec.subjects)
	}
}
