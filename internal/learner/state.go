package learner

import (
	"encoding/json"
	"os"
	"time"

	"github.com/cailot/cool-runnings/internal/model"
)

// WeightState is the on-disk form of a learned WeightVector.
type WeightState struct {
	Weights   model.WeightVector `json:"weights"`
	DrawCount int                `json:"draw_count"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// LoadState reads learned weights from a JSON file. Returns nil with no
// error if the file doesn't exist.
func LoadState(filePath string) (*WeightState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var state WeightState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveState writes learned weights to a JSON file.
func SaveState(filePath string, state *WeightState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

// Fresh reports whether a persisted state still matches the archive: same
// draw count and written within the last maxAge.
func (s *WeightState) Fresh(drawCount int, maxAge time.Duration) bool {
	if s == nil {
		return false
	}
	return s.DrawCount == drawCount && time.Since(s.UpdatedAt) <= maxAge
}
