package validate

import (
	"testing"

	"github.com/cailot/cool-runnings/internal/learner"
	"github.com/cailot/cool-runnings/internal/model"
	"github.com/cailot/cool-runnings/internal/scoring"
)

func TestTuningWalk_SkipsShortHistories(t *testing.T) {
	draws := makeDraws(25, 1)
	tuner := learner.NewTuner(50)
	tuner.MaxIterations = 2

	// Asking for all 25 draws leaves the oldest 10 without enough history.
	outcomes := TuningWalk(draws, 25, scoring.DefaultWeights(), tuner)
	if len(outcomes) != 15 {
		t.Fatalf("expected 15 tunable draws, got %d", len(outcomes))
	}
	for _, o := range outcomes {
		if len(o.Predicted) != model.DrawnCount {
			t.Errorf("draw %d: expected %d predicted numbers, got %d", o.Draw, model.DrawnCount, len(o.Predicted))
		}
		if o.Iterations < 1 || o.Iterations > tuner.MaxIterations {
			t.Errorf("draw %d: iterations %d outside 1..%d", o.Draw, o.Iterations, tuner.MaxIterations)
		}
		if o.CapReached && o.Iterations != tuner.MaxIterations {
			t.Errorf("draw %d: capped runs must use the whole budget, got %d", o.Draw, o.Iterations)
		}
	}
}

func TestTuningWalk_CarriesWeightsForward(t *testing.T) {
	draws := makeDraws(40, 2)
	tuner := learner.NewTuner(50)
	tuner.MaxIterations = 2

	outcomes := TuningWalk(draws, 10, scoring.DefaultWeights(), tuner)
	if len(outcomes) != 10 {
		t.Fatalf("expected 10 outcomes, got %d", len(outcomes))
	}
	// Oldest first.
	for i := 1; i < len(outcomes); i++ {
		if outcomes[i].Draw <= outcomes[i-1].Draw {
			t.Errorf("walk must run oldest to newest, got draw %d after %d",
				outcomes[i].Draw, outcomes[i-1].Draw)
			break
		}
	}

	// Rerunning from the same base reproduces the same weight trajectory.
	again := TuningWalk(draws, 10, scoring.DefaultWeights(), tuner)
	for i := range outcomes {
		if outcomes[i].Weights != again[i].Weights {
			t.Errorf("draw %d: tuning must be deterministic", outcomes[i].Draw)
			break
		}
	}
}
