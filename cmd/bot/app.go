package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/cailot/cool-runnings/internal/archive"
	"github.com/cailot/cool-runnings/internal/config"
	"github.com/cailot/cool-runnings/internal/learner"
	"github.com/cailot/cool-runnings/internal/model"
	"github.com/cailot/cool-runnings/internal/predictor"
	"github.com/cailot/cool-runnings/internal/server"
	"github.com/cailot/cool-runnings/internal/validate"
)

// weightStateMaxAge is how long persisted bootstrap weights stay usable
// without the archive changing.
const weightStateMaxAge = 7 * 24 * time.Hour

// app ties the archive, the learner and the prediction engine together
// behind the operations the scheduler and the HTTP façade need.
type app struct {
	cfg   *config.Config
	store archive.Archive
	cache *learner.Cache
}

func newApp(cfg *config.Config, store archive.Archive) *app {
	return &app{cfg: cfg, store: store, cache: &learner.Cache{}}
}

// newEngine builds a prediction engine with a fresh random source, so
// concurrent operations never share rand state. A configured seed makes
// every operation reproducible.
func (a *app) newEngine() *predictor.Engine {
	seed := a.cfg.Engine.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return predictor.New(a.cfg.Engine.RecentDraws, a.cfg.Engine.SampleAttempts, rand.New(rand.NewSource(seed)))
}

func (a *app) draws() ([]model.Draw, error) {
	draws, err := a.store.ListDrawsDescending()
	if err != nil {
		return nil, fmt.Errorf("list draws: %w", err)
	}
	return draws, nil
}

// weights returns the learned weight vector, from the process cache, the
// state file when fresh, or a full bootstrap run, in that order.
func (a *app) weights(draws []model.Draw) model.WeightVector {
	return a.cache.GetOrCompute(func() model.WeightVector {
		path := a.cfg.Engine.WeightStateFile

		if state, err := learner.LoadState(path); err != nil {
			log.Printf("[WARN] load weight state: %v", err)
		} else if state.Fresh(len(draws), weightStateMaxAge) {
			log.Printf("[INFO] using persisted weights (%d draws, saved %s)",
				state.DrawCount, state.UpdatedAt.Format("2006-01-02"))
			return state.Weights
		}

		w := learner.Bootstrap(draws)
		if err := learner.SaveState(path, &learner.WeightState{Weights: w, DrawCount: len(draws)}); err != nil {
			log.Printf("[WARN] save weight state: %v", err)
		}
		return w
	})
}

func (a *app) InvalidateWeights() {
	a.cache.Invalidate()
}

func (a *app) Consensus() (predictor.ConsensusResult, error) {
	draws, err := a.draws()
	if err != nil {
		return predictor.ConsensusResult{}, err
	}
	engine := a.newEngine()
	return engine.Consensus(draws, a.weights(draws), a.cfg.Engine.ConsensusRuns), nil
}

// StraightPicks computes the single-run high, low and mid-band picks.
func (a *app) StraightPicks() (high, low, mid []model.ScoredNumber, err error) {
	draws, err := a.draws()
	if err != nil {
		return nil, nil, nil, err
	}
	w := a.weights(draws)
	engine := a.newEngine()
	return engine.Top7(draws, w), engine.Bottom7(draws, w), engine.Mid7(draws, w), nil
}

func (a *app) Prediction() (server.PredictionPayload, error) {
	high, low, mid, err := a.StraightPicks()
	if err != nil {
		return server.PredictionPayload{}, err
	}
	return server.PredictionPayload{High7: high, Low7: low, Mid7: mid}, nil
}

func (a *app) Validation(count int) (model.ComprehensiveValidationResult, error) {
	draws, err := a.draws()
	if err != nil {
		return model.ComprehensiveValidationResult{}, err
	}
	w := a.weights(draws)

	harness := validate.New(validate.QuickPredictor(w, a.cfg.Engine.RecentDraws))
	result := harness.Run(draws, count)
	if !result.InsufficientData {
		engine := a.newEngine()
		result.Backtest = validate.Backtest(draws, func(history []model.Draw) []model.ScoredNumber {
			return engine.ScoreAll(history, w)
		}, count, validate.DefaultBacktestTopK)
	}
	return result, nil
}

// Tuning replays the latest count draws through the per-draw weight
// tuner, carrying tuned weights forward, and reports every outcome.
func (a *app) Tuning(count int) ([]model.TuningOutcome, error) {
	draws, err := a.draws()
	if err != nil {
		return nil, err
	}
	tuner := learner.NewTuner(a.cfg.Engine.RecentDraws)
	tuner.MaxIterations = a.cfg.Engine.TuneIterations
	return validate.TuningWalk(draws, count, a.weights(draws), tuner), nil
}

func (a *app) Backtest(period, topK int) (*model.BacktestMetrics, error) {
	draws, err := a.draws()
	if err != nil {
		return nil, err
	}
	w := a.weights(draws)
	engine := a.newEngine()
	return validate.Backtest(draws, func(history []model.Draw) []model.ScoredNumber {
		return engine.ScoreAll(history, w)
	}, period, topK), nil
}

func (a *app) LatestDraw() (*model.Draw, error) {
	return a.store.LatestDraw()
}
