package validate

import (
	"log"

	"github.com/cailot/cool-runnings/internal/learner"
	"github.com/cailot/cool-runnings/internal/model"
)

// DefaultTuningDraws is the walk length when the caller gives none.
const DefaultTuningDraws = 50

// TuningWalk replays the latest `count` draws oldest first, iteratively
// tuning the weight vector against each draw in turn. Tuned weights carry
// forward, so the walk doubles as an online-learning simulation. Draws
// with too little earlier history are skipped.
func TuningWalk(draws []model.Draw, count int, base model.WeightVector, tuner *learner.Tuner) []model.TuningOutcome {
	if count > len(draws) {
		count = len(draws)
	}

	var outcomes []model.TuningOutcome
	weights := base

	for i := count - 1; i >= 0; i-- {
		target := draws[i]
		history := draws[i+1:]
		if len(history) < model.MinDrawsForAnalysis {
			continue
		}

		outcome := tuner.TuneForDraw(history, target, weights)
		weights = outcome.Weights
		outcomes = append(outcomes, outcome)
	}

	if len(outcomes) > 0 {
		success, capped, totalIters := 0, 0, 0
		for _, o := range outcomes {
			if o.CapReached {
				capped++
			} else {
				success++
			}
			totalIters += o.Iterations
		}
		log.Printf("[INFO] validate: tuning walk over %d draws: %d hit target, %d capped, %.1f avg iterations",
			len(outcomes), success, capped, float64(totalIters)/float64(len(outcomes)))
	}
	return outcomes
}
