package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cailot/cool-runnings/internal/collector"
	"github.com/cailot/cool-runnings/internal/model"
	"github.com/cailot/cool-runnings/internal/notifier"
	"github.com/cailot/cool-runnings/internal/predictor"
)

// Analysis is the slice of the engine the scheduled tasks drive.
type Analysis interface {
	// Consensus runs the multi-run consensus prediction on the current
	// archive.
	Consensus() (predictor.ConsensusResult, error)
	// StraightPicks returns the single-run high, low and mid-band picks.
	StraightPicks() (high, low, mid []model.ScoredNumber, err error)
	// Validation walks the latest count draws and reports performance.
	Validation(count int) (model.ComprehensiveValidationResult, error)
	// InvalidateWeights drops cached learned weights after new draws land.
	InvalidateWeights()
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron            *cron.Cron
	Collector       *collector.Collector
	Analysis        Analysis
	Notifier        notifier.Notifier
	ValidationDraws int
	Ctx             context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, analysis Analysis, n notifier.Notifier, validationDraws int) *Scheduler {
	return &Scheduler{
		Cron:            cron.New(cron.WithSeconds()),
		Collector:       col,
		Analysis:        analysis,
		Notifier:        n,
		ValidationDraws: validationDraws,
		Ctx:             ctx,
	}
}

// RegisterAll registers the daily collection, weekly prediction, and
// monthly validation tasks.
func (s *Scheduler) RegisterAll(collectCron, predictCron, validationCron string) error {
	if _, err := s.Cron.AddFunc(collectCron, s.collectTask); err != nil {
		return fmt.Errorf("register collect task: %w", err)
	}
	if _, err := s.Cron.AddFunc(predictCron, s.predictTask); err != nil {
		return fmt.Errorf("register predict task: %w", err)
	}
	if _, err := s.Cron.AddFunc(validationCron, s.validationTask); err != nil {
		return fmt.Errorf("register validation task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunPredictNow executes the prediction task immediately (manual trigger /
// RUN_ON_START).
func (s *Scheduler) RunPredictNow() {
	s.predictTask()
}

func (s *Scheduler) collectTask() {
	log.Println("[INFO] running draw collection")
	saved, err := s.Collector.Sync()
	if err != nil {
		log.Printf("[ERROR] draw collection: %v", err)
		s.trySend("Draw collection failed", fmt.Sprintf("<p>draw collection failed: %v</p>", err))
		return
	}
	if saved > 0 {
		s.Analysis.InvalidateWeights()
	}
}

func (s *Scheduler) predictTask() {
	log.Println("[INFO] running weekly prediction")
	started := time.Now()

	res, err := s.Analysis.Consensus()
	if err != nil {
		log.Printf("[ERROR] weekly prediction: %v", err)
		s.trySend("Weekly prediction failed", fmt.Sprintf("<p>weekly prediction failed: %v</p>", err))
		return
	}

	body := notifier.FormatConsensusReport(res)
	if high, low, mid, err := s.Analysis.StraightPicks(); err != nil {
		log.Printf("[ERROR] straight picks: %v", err)
	} else {
		body += notifier.FormatPredictionReport(high, low, mid)
	}

	subject := fmt.Sprintf("Weekly prediction | %s", time.Now().Format("2006-01-02"))
	s.trySend(subject, body)
	log.Printf("[INFO] weekly prediction done in %s", time.Since(started).Round(time.Second))
}

func (s *Scheduler) validationTask() {
	log.Println("[INFO] running monthly validation")
	res, err := s.Analysis.Validation(s.ValidationDraws)
	if err != nil {
		log.Printf("[ERROR] monthly validation: %v", err)
		s.trySend("Monthly validation failed", fmt.Sprintf("<p>monthly validation failed: %v</p>", err))
		return
	}

	subject := fmt.Sprintf("Validation report | %s", time.Now().Format("2006-01"))
	s.trySend(subject, notifier.FormatValidationReport(res))
}

func (s *Scheduler) trySend(subject, body string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, subject, body, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
