package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cailot/cool-runnings/internal/model"
)

func testHandlers() Handlers {
	return Handlers{
		Prediction: func() (PredictionPayload, error) {
			return PredictionPayload{
				High7: []model.ScoredNumber{{Number: 7, Probability: 0.9}},
				Low7:  []model.ScoredNumber{{Number: 13, Probability: 0.1}},
				Mid7:  []model.ScoredNumber{{Number: 21, Probability: 0.4}},
			}, nil
		},
		Validation: func(count int) (model.ComprehensiveValidationResult, error) {
			return model.ComprehensiveValidationResult{
				Statistics: model.ValidationStatistics{TotalValidations: count},
				Summary:    "ok",
			}, nil
		},
		Backtest: func(period, topK int) (*model.BacktestMetrics, error) {
			return &model.BacktestMetrics{TestPeriod: period, TopK: topK}, nil
		},
		Tuning: func(count int) ([]model.TuningOutcome, error) {
			return []model.TuningOutcome{{Draw: count, MatchCount: 6, Iterations: 3}}, nil
		},
		LatestDraw: func() (*model.Draw, error) {
			d := model.Draw{Index: 2101, Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)}
			return &d, nil
		},
	}
}

// serve routes a request through the full router.
func serve(t *testing.T, h Handlers, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	srv := New(":0", h)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", target, nil)
	srv.httpServer.Handler.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %v\nbody: %s", err, rec.Body.String())
	}
	return rec, env
}

func TestPredictionEndpoint(t *testing.T) {
	rec, env := serve(t, testHandlers(), "/api/analysis/prediction")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !env.Success {
		t.Errorf("expected success, got %q", env.Message)
	}
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected a payload object, got %T", env.Data)
	}
	for _, key := range []string{"high7", "low7", "mid7"} {
		if _, ok := data[key]; !ok {
			t.Errorf("payload missing %q", key)
		}
	}
}

func TestValidationEndpoint(t *testing.T) {
	rec, env := serve(t, testHandlers(), "/api/analysis/validation?count=25")
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected success, got %d %q", rec.Code, env.Message)
	}

	rec, env = serve(t, testHandlers(), "/api/analysis/validation?count=-5")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a negative count, got %d", rec.Code)
	}
	if env.Success {
		t.Errorf("error responses must not claim success")
	}
}

func TestValidationEndpoint_InsufficientData(t *testing.T) {
	h := testHandlers()
	h.Validation = func(count int) (model.ComprehensiveValidationResult, error) {
		return model.ComprehensiveValidationResult{InsufficientData: true, Summary: "too few draws"}, nil
	}

	rec, env := serve(t, h, "/api/analysis/validation")
	if rec.Code != http.StatusOK {
		t.Errorf("insufficient data is a 200, got %d", rec.Code)
	}
	if env.Message != "insufficient data for validation" {
		t.Errorf("unexpected message %q", env.Message)
	}
}

func TestBacktestEndpoint(t *testing.T) {
	rec, env := serve(t, testHandlers(), "/api/analysis/backtest?period=100&topK=10")
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected success, got %d %q", rec.Code, env.Message)
	}

	rec, _ = serve(t, testHandlers(), "/api/analysis/backtest?topK=45")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for topK above 44, got %d", rec.Code)
	}

	h := testHandlers()
	h.Backtest = func(period, topK int) (*model.BacktestMetrics, error) { return nil, nil }
	rec, env = serve(t, h, "/api/analysis/backtest")
	if rec.Code != http.StatusOK || env.Message != "insufficient data for backtest" {
		t.Errorf("expected the insufficient-data message, got %d %q", rec.Code, env.Message)
	}
}

func TestTuningEndpoint(t *testing.T) {
	rec, env := serve(t, testHandlers(), "/api/analysis/tuning?count=30")
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected success, got %d %q", rec.Code, env.Message)
	}
	outcomes, ok := env.Data.([]any)
	if !ok || len(outcomes) != 1 {
		t.Errorf("expected one tuning outcome, got %v", env.Data)
	}

	rec, _ = serve(t, testHandlers(), "/api/analysis/tuning?count=0")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a zero count, got %d", rec.Code)
	}

	h := testHandlers()
	h.Tuning = func(count int) ([]model.TuningOutcome, error) { return nil, nil }
	rec, env = serve(t, h, "/api/analysis/tuning")
	if rec.Code != http.StatusOK || env.Message != "insufficient data for tuning" {
		t.Errorf("expected the insufficient-data message, got %d %q", rec.Code, env.Message)
	}
}

func TestLatestDrawEndpoint(t *testing.T) {
	rec, env := serve(t, testHandlers(), "/api/draws/latest")
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected success, got %d %q", rec.Code, env.Message)
	}

	h := testHandlers()
	h.LatestDraw = func() (*model.Draw, error) { return nil, nil }
	rec, _ = serve(t, h, "/api/draws/latest")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on an empty archive, got %d", rec.Code)
	}
}

func TestHandlerErrorsBecome500(t *testing.T) {
	h := testHandlers()
	h.Prediction = func() (PredictionPayload, error) {
		return PredictionPayload{}, errors.New("archive unavailable")
	}

	rec, env := serve(t, h, "/api/analysis/prediction")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if env.Success || env.Message != "archive unavailable" {
		t.Errorf("expected the error message, got %+v", env)
	}
}
