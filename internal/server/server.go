package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cailot/cool-runnings/internal/model"
	"github.com/cailot/cool-runnings/internal/validate"
)

// PredictionPayload is the body of a prediction response.
type PredictionPayload struct {
	High7 []model.ScoredNumber `json:"high7"`
	Low7  []model.ScoredNumber `json:"low7"`
	Mid7  []model.ScoredNumber `json:"mid7"`
}

// Handlers supplies the analysis operations the REST façade exposes. Each
// call runs against the current archive state.
type Handlers struct {
	Prediction func() (PredictionPayload, error)
	Validation func(count int) (model.ComprehensiveValidationResult, error)
	Backtest   func(period, topK int) (*model.BacktestMetrics, error)
	Tuning     func(count int) ([]model.TuningOutcome, error)
	LatestDraw func() (*model.Draw, error)
}

// Server is the HTTP analysis façade.
type Server struct {
	httpServer *http.Server
}

// New builds the router and wraps it in an http.Server on addr.
func New(addr string, h Handlers) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Minute)) // validation walks are slow

	r.Route("/api", func(r chi.Router) {
		r.Get("/analysis/prediction", predictionHandler(h))
		r.Get("/analysis/validation", validationHandler(h))
		r.Get("/analysis/backtest", backtestHandler(h))
		r.Get("/analysis/tuning", tuningHandler(h))
		r.Get("/draws/latest", latestDrawHandler(h))
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 10 * time.Minute,
		},
	}
}

// Start serves until Shutdown. Blocks.
func (s *Server) Start() error {
	log.Printf("[INFO] server: listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// envelope is the uniform response shape.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Printf("[ERROR] server: encode response: %v", err)
	}
}

func writeOK(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

func predictionHandler(h Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := h.Prediction()
		if err != nil {
			log.Printf("[ERROR] server: prediction: %v", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeOK(w, "prediction generated", payload)
	}
}

func validationHandler(h Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := queryInt(r, "count", validate.DefaultValidationDraws)
		if count <= 0 {
			writeError(w, http.StatusBadRequest, "count must be positive")
			return
		}

		res, err := h.Validation(count)
		if err != nil {
			log.Printf("[ERROR] server: validation: %v", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if res.InsufficientData {
			writeOK(w, "insufficient data for validation", res)
			return
		}
		writeOK(w, "validation finished", res)
	}
}

func backtestHandler(h Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period := queryInt(r, "period", validate.DefaultBacktestPeriod)
		topK := queryInt(r, "topK", validate.DefaultBacktestTopK)
		if period <= 0 || topK <= 0 || topK > model.MaxNumber {
			writeError(w, http.StatusBadRequest, "period and topK must be positive, topK at most 44")
			return
		}

		metrics, err := h.Backtest(period, topK)
		if err != nil {
			log.Printf("[ERROR] server: backtest: %v", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if metrics == nil {
			writeOK(w, "insufficient data for backtest", nil)
			return
		}
		writeOK(w, "backtest finished", metrics)
	}
}

func tuningHandler(h Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := queryInt(r, "count", validate.DefaultTuningDraws)
		if count <= 0 {
			writeError(w, http.StatusBadRequest, "count must be positive")
			return
		}

		outcomes, err := h.Tuning(count)
		if err != nil {
			log.Printf("[ERROR] server: tuning: %v", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if len(outcomes) == 0 {
			writeOK(w, "insufficient data for tuning", nil)
			return
		}
		writeOK(w, "tuning walk finished", outcomes)
	}
}

func latestDrawHandler(h Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := h.LatestDraw()
		if err != nil {
			log.Printf("[ERROR] server: latest draw: %v", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if d == nil {
			writeError(w, http.StatusNotFound, "archive is empty")
			return
		}
		writeOK(w, "latest draw", d)
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
